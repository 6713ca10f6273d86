package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"jobboard/api/internal/database"
)

// inTx runs fn in a transaction, committing only when fn succeeds.
func inTx(ctx context.Context, db database.DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
