package mapping

import (
	"fmt"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ID:          d.ID,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		CreatedAt:   domain.FormatTimestamp(d.CreatedAt),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) (domain.Expense, error) {
	createdAt, err := domain.ParseTimestamp(m.CreatedAt)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("invalid created_at %q for expense %s: %w", m.CreatedAt, m.ID, err)
	}
	return domain.Expense{
		ID:          m.ID,
		Amount:      m.Amount,
		Category:    m.Category,
		Description: m.Description,
		Date:        m.Date,
		CreatedAt:   createdAt,
	}, nil
}

// ToDomainExpenseSlice converts a slice of model Expenses to domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) ([]domain.Expense, error) {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		d, err := ToDomainExpense(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
