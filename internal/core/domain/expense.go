package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the ISO-8601 form used for created_at, millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// minorUnitsPerMajor is the scale between a decimal amount and its stored integer form.
var minorUnitsPerMajor = decimal.NewFromInt(100)

// ErrAmountOutOfRange is returned when an amount does not fit in int64 minor units.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Expense is a single ledger record.
type Expense struct {
	ID          string    `json:"id"`     // Idempotency key or generated UUID
	Amount      int64     `json:"amount"` // Minor units (cents, paise)
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // Caller supplied, stored verbatim
	CreatedAt   time.Time `json:"createdAt"`
}

// SortOrder selects the ordering of ListExpenses results.
type SortOrder string

const (
	// SortNone keeps insertion order.
	SortNone SortOrder = ""
	// SortDateDesc orders by date, newest first.
	SortDateDesc SortOrder = "date_desc"
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values fall back to SortNone.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDateDesc {
		return SortDateDesc
	}
	return SortNone
}

// ExpenseFilter restricts and orders a listing. An empty Category matches every row.
type ExpenseFilter struct {
	Category string
	Sort     SortOrder
}

// ExpenseSummary aggregates the rows matched by an ExpenseFilter.
type ExpenseSummary struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"` // Minor units
}

// ToMinorUnits converts a decimal currency amount to integer minor units,
// rounding half away from zero (12.345 -> 1235).
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(minorUnitsPerMajor).Round(0)
	if !minor.BigInt().IsInt64() {
		return 0, ErrAmountOutOfRange
	}
	return minor.IntPart(), nil
}

// NewTimestamp returns t normalised to the precision and zone persisted for created_at.
func NewTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a created_at value written by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		// Rows written by other clients may carry a plain RFC3339 value.
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
