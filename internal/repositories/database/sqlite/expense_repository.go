package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/apperrors"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/models"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/utils/mapping"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const expenseColumns = "id, amount, category, description, date, created_at"

// ExpenseRepository stores expenses in an embedded SQLite database.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new repository for expense data.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Ensure implementation matches interface
var _ portsrepo.ExpenseRepositoryFacade = (*ExpenseRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (domain.Expense, error) {
	var m models.Expense
	if err := row.Scan(&m.ID, &m.Amount, &m.Category, &m.Description, &m.Date, &m.CreatedAt); err != nil {
		return domain.Expense{}, err
	}
	return mapping.ToDomainExpense(m)
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// FindExpenseByID retrieves an expense by its id.
func (r *ExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return findExpenseByID(ctx, r.db, expenseID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findExpenseByID(ctx context.Context, q queryRower, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	expense, err := scanExpense(q.QueryRowContext(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to find expense %s", expenseID), err)
	}
	return &expense, nil
}

// SaveExpense inserts a new expense row.
func (r *ExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Amount, m.Category, m.Description, m.Date, m.CreatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("expense %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return apperrors.NewStorageError(fmt.Sprintf("failed to insert expense %s", m.ID), err)
	}
	return nil
}

// SaveExpenseIfAbsent inserts the expense in a single conditional statement. When the id
// already exists nothing is written and the stored row is returned instead.
func (r *ExpenseRepository) SaveExpenseIfAbsent(ctx context.Context, expense domain.Expense) (*domain.Expense, bool, error) {
	m := mapping.ToModelExpense(expense)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + expenseColumns

	stored, err := scanExpense(tx.QueryRowContext(ctx, query, m.ID, m.Amount, m.Category, m.Description, m.Date, m.CreatedAt))
	created := true
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		created = false
		existing, findErr := findExpenseByID(ctx, tx, m.ID)
		if findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return nil, false, fmt.Errorf("expense %s vanished after insert conflict: %w", m.ID, apperrors.ErrConflict)
			}
			return nil, false, findErr
		}
		stored = *existing
	default:
		return nil, false, apperrors.NewStorageError(fmt.Sprintf("failed to insert expense %s", m.ID), err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, apperrors.NewStorageError("failed to commit transaction", err)
	}
	return &stored, created, nil
}

func buildWhere(filter domain.ExpenseFilter) (string, []any) {
	if filter.Category == "" {
		return "", nil
	}
	return " WHERE category = ?", []any{filter.Category}
}

// ListExpenses retrieves all expenses matching the filter. Without a sort the rows come
// back in insertion order.
func (r *ExpenseRepository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + expenseColumns + ` FROM expenses`)

	where, args := buildWhere(filter)
	query.WriteString(where)

	if filter.Sort == domain.SortDateDesc {
		query.WriteString(` ORDER BY date DESC, rowid ASC`)
	} else {
		query.WriteString(` ORDER BY rowid ASC`)
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query expenses", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to scan expense", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate expenses", err)
	}
	return expenses, nil
}

// SummarizeExpenses counts and totals the expenses in the filter's category.
func (r *ExpenseRepository) SummarizeExpenses(ctx context.Context, filter domain.ExpenseFilter) (domain.ExpenseSummary, error) {
	where, args := buildWhere(filter)
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM expenses` + where

	var summary domain.ExpenseSummary
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&summary.Count, &summary.Total); err != nil {
		return domain.ExpenseSummary{}, apperrors.NewStorageError("failed to summarize expenses", err)
	}
	return summary, nil
}

// UpdateExpense replaces the mutable fields of an expense. id and created_at never change.
func (r *ExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) (int64, error) {
	query := `UPDATE expenses SET amount = ?, category = ?, description = ?, date = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, expense.Amount, expense.Category, expense.Description, expense.Date, expense.ID)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to update expense %s", expense.ID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStorageError("failed to read rows affected", err)
	}
	return affected, nil
}

// DeleteExpense removes an expense by id.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, expenseID)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to delete expense %s", expenseID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStorageError("failed to read rows affected", err)
	}
	return affected, nil
}
