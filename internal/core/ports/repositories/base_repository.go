package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by the PostgreSQL store, whose conditional insert
// and read-back run in one transaction.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
