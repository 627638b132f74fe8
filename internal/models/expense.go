package models

// Expense is the persisted row of the expenses table. created_at is kept as the
// ISO-8601 text that was written, so it round-trips byte for byte.
type Expense struct {
	ID          string
	Amount      int64
	Category    string
	Description string
	Date        string
	CreatedAt   string
}
