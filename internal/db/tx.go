package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the common surface of *sql.DB and *sql.Tx. Repositories run their
// statements against it so the same code serves both standalone calls and
// transactional units of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx executes fn inside a transaction. The transaction is rolled back
// when fn returns an error (the error propagates unchanged) and committed
// otherwise. Mutations and their audit entries share one RunInTx call, so
// neither persists without the other.
func RunInTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
