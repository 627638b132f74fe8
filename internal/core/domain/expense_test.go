package domain_test

import (
	"testing"
	"time"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{name: "half", amount: "12.5", want: 1250},
		{name: "one tenth", amount: "0.1", want: 10},
		{name: "rounds half up on third decimal", amount: "12.345", want: 1235},
		{name: "rounds down below half", amount: "12.344", want: 1234},
		{name: "float trap 1.005", amount: "1.005", want: 101},
		{name: "whole number", amount: "42", want: 4200},
		{name: "zero", amount: "0", want: 0},
		{name: "negative rounds away from zero", amount: "-1.005", want: -101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ToMinorUnits(decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinorUnits_OutOfRange(t *testing.T) {
	_, err := domain.ToMinorUnits(decimal.RequireFromString("1e30"))
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, domain.SortDateDesc, domain.ParseSortOrder("date_desc"))
	assert.Equal(t, domain.SortNone, domain.ParseSortOrder(""))
	assert.Equal(t, domain.SortNone, domain.ParseSortOrder("amount_asc"))
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := domain.NewTimestamp(time.Date(2024, 3, 1, 10, 20, 30, 123456789, time.FixedZone("IST", 19800)))

	formatted := domain.FormatTimestamp(ts)
	assert.Equal(t, "2024-03-01T04:50:30.123Z", formatted)

	parsed, err := domain.ParseTimestamp(formatted)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestParseTimestamp_RFC3339Fallback(t *testing.T) {
	parsed, err := domain.ParseTimestamp("2024-03-01T04:50:30Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 4, 50, 30, 0, time.UTC), parsed)

	_, err = domain.ParseTimestamp("yesterday")
	assert.Error(t, err)
}
