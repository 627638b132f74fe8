package repositories

import (
	"context"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a single expense. Returns apperrors.ErrNotFound when absent.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves every expense matching the filter, in the requested order.
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)

	// SummarizeExpenses counts and totals the expenses matching the filter's category.
	SummarizeExpenses(ctx context.Context, filter domain.ExpenseFilter) (domain.ExpenseSummary, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense inserts a new expense. Returns apperrors.ErrDuplicate if the id is taken.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// SaveExpenseIfAbsent inserts the expense unless a row with the same id exists,
	// in which case the existing row is returned and created is false.
	SaveExpenseIfAbsent(ctx context.Context, expense domain.Expense) (stored *domain.Expense, created bool, err error)

	// UpdateExpense replaces amount, category, description and date of the row with
	// expense.ID and returns the number of rows affected.
	UpdateExpense(ctx context.Context, expense domain.Expense) (int64, error)

	// DeleteExpense removes the row and returns the number of rows affected.
	DeleteExpense(ctx context.Context, expenseID string) (int64, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
