package services

import (
	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
	portssvc "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/services"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/events"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &portssvc.ServiceContainer{
		Expense: NewExpenseService(repos.ExpenseRepo, WithEventPublisher(publisher)),
	}
}
