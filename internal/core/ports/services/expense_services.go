package services

import (
	"context"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data
type ExpenseReaderSvc interface {
	// GetExpense retrieves a single expense. Returns apperrors.ErrNotFound when absent.
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses matching the filter. The result is never nil.
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)

	// SummarizeExpenses counts and totals expenses in the filter's category.
	SummarizeExpenses(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error)
}

// ExpenseWriterSvc defines write operations for expense data
type ExpenseWriterSvc interface {
	// CreateExpense creates an expense, or returns the stored one when the request's
	// idempotency key was already used. replayed reports the latter.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (expense *domain.Expense, replayed bool, err error)

	// UpdateExpense replaces the mutable fields and returns the rows affected (0 = not found).
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (int64, error)

	// DeleteExpense removes an expense and returns the rows affected (0 = not found).
	DeleteExpense(ctx context.Context, expenseID string) (int64, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
