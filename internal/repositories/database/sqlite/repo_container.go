package sqlite

import (
	"database/sql"

	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExpenseRepo: NewExpenseRepository(db),
	}
}
