package dto

import (
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to create an expense.
// Amount is a decimal in major units; it is stored as round(amount*100) minor units.
type CreateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number"`
	Category    string           `json:"category" validate:"required"`
	Description string           `json:"description"`
	Date        string           `json:"date" validate:"required"`
	// IdempotencyKey, when set, becomes the expense id so a retried request
	// returns the row created by the first attempt.
	IdempotencyKey string `json:"idempotencyKey"`
}

// UpdateExpenseRequest defines the fields replaced by an update.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number"`
	Category    string           `json:"category" validate:"required"`
	Description string           `json:"description"`
	Date        string           `json:"date" validate:"required"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Category string `form:"category"`
	Sort     string `form:"sort"` // "date_desc"; anything else is ignored
}

// Filter converts the query parameters to a domain filter.
func (p ListExpensesParams) Filter() domain.ExpenseFilter {
	return domain.ExpenseFilter{
		Category: p.Category,
		Sort:     domain.ParseSortOrder(p.Sort),
	}
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
}

// UpdateExpenseResponse reports how many rows an update touched. Zero means not found.
type UpdateExpenseResponse struct {
	Updated int64 `json:"updated"`
}

// DeleteExpenseResponse reports how many rows a delete removed. Zero means not found.
type DeleteExpenseResponse struct {
	Deleted int64 `json:"deleted"`
}

// ExpenseSummaryResponse is the count and minor-unit total of a filtered listing.
type ExpenseSummaryResponse struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   domain.FormatTimestamp(e.CreatedAt),
	}
}

// ToListExpenseResponse converts a slice of domain.Expense to a slice of ExpenseResponse DTOs
func ToListExpenseResponse(expenses []domain.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		res[i] = ToExpenseResponse(&e)
	}
	return res
}

// ToExpenseSummaryResponse converts a domain.ExpenseSummary to its DTO
func ToExpenseSummaryResponse(s *domain.ExpenseSummary) ExpenseSummaryResponse {
	return ExpenseSummaryResponse{Count: s.Count, Total: s.Total}
}
