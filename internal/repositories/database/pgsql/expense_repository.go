package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/apperrors"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/models"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = "id, amount, category, description, date, created_at"

type PgxExpenseRepository struct {
	BaseRepository
}

// NewPgxExpenseRepository creates a new repository for expense data.
func NewPgxExpenseRepository(pool *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var m models.Expense
	if err := row.Scan(&m.ID, &m.Amount, &m.Category, &m.Description, &m.Date, &m.CreatedAt); err != nil {
		return domain.Expense{}, err
	}
	return mapping.ToDomainExpense(m)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findExpenseByID(ctx context.Context, q queryRower, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1;`

	expense, err := scanExpense(q.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to find expense %s", expenseID), err)
	}
	return &expense, nil
}

// FindExpenseByID retrieves an expense by its id.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return findExpenseByID(ctx, r.Pool, expenseID)
}

// SaveExpense inserts a new expense.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.Pool.Exec(ctx, query, m.ID, m.Amount, m.Category, m.Description, m.Date, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("expense %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return apperrors.NewStorageError(fmt.Sprintf("failed to insert expense %s", m.ID), err)
	}
	return nil
}

// SaveExpenseIfAbsent inserts the expense unless its id is already taken, in which case
// the stored row is read back in the same transaction and returned.
func (r *PgxExpenseRepository) SaveExpenseIfAbsent(ctx context.Context, expense domain.Expense) (*domain.Expense, bool, error) {
	m := mapping.ToModelExpense(expense)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after Commit

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + expenseColumns + `;
	`

	stored, err := scanExpense(tx.QueryRow(ctx, query, m.ID, m.Amount, m.Category, m.Description, m.Date, m.CreatedAt))
	created := true
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
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

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

func buildWhere(filter domain.ExpenseFilter) (string, []any) {
	if filter.Category == "" {
		return "", nil
	}
	return " WHERE category = $1", []any{filter.Category}
}

// ListExpenses retrieves expenses matching the filter. created_at stands in for
// insertion order since Postgres has no stable rowid.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + expenseColumns + ` FROM expenses`)

	where, args := buildWhere(filter)
	query.WriteString(where)

	if filter.Sort == domain.SortDateDesc {
		query.WriteString(` ORDER BY date DESC, created_at ASC, id ASC`)
	} else {
		query.WriteString(` ORDER BY created_at ASC, id ASC`)
	}

	rows, err := r.Pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query expenses", err)
	}
	defer rows.Close()

	modelExpenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Expense, error) {
		var m models.Expense
		err := row.Scan(&m.ID, &m.Amount, &m.Category, &m.Description, &m.Date, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan expenses", err)
	}

	expenses, err := mapping.ToDomainExpenseSlice(modelExpenses)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to map expenses", err)
	}
	return expenses, nil
}

// SummarizeExpenses counts and totals the expenses in the filter's category.
func (r *PgxExpenseRepository) SummarizeExpenses(ctx context.Context, filter domain.ExpenseFilter) (domain.ExpenseSummary, error) {
	where, args := buildWhere(filter)
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0)::BIGINT FROM expenses` + where

	var summary domain.ExpenseSummary
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&summary.Count, &summary.Total); err != nil {
		return domain.ExpenseSummary{}, apperrors.NewStorageError("failed to summarize expenses", err)
	}
	return summary, nil
}

// UpdateExpense replaces the mutable fields of an expense.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) (int64, error) {
	query := `
		UPDATE expenses
		SET amount = $1, category = $2, description = $3, date = $4
		WHERE id = $5;
	`

	tag, err := r.Pool.Exec(ctx, query, expense.Amount, expense.Category, expense.Description, expense.Date, expense.ID)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to update expense %s", expense.ID), err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpense removes an expense by id.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1;`, expenseID)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to delete expense %s", expenseID), err)
	}
	return tag.RowsAffected(), nil
}
