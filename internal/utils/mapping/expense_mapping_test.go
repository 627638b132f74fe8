package mapping

import (
	"testing"
	"time"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseMappingRoundTrip(t *testing.T) {
	d := domain.Expense{
		ID:          "key-1",
		Amount:      1250,
		Category:    "Food",
		Description: "lunch",
		Date:        "2024-01-01",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 5_000_000, time.UTC),
	}

	m := ToModelExpense(d)
	assert.Equal(t, "2024-01-01T12:00:00.005Z", m.CreatedAt)

	back, err := ToDomainExpense(m)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestToDomainExpenseSlice_InvalidTimestamp(t *testing.T) {
	_, err := ToDomainExpenseSlice([]models.Expense{{ID: "bad", CreatedAt: "not a time"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}
