package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the SQL handle a store runs its queries on. Both *sql.DB
// (backed by the shared pgx pool) and *sql.Tx satisfy it, so integration
// tests can run a store inside a transaction they roll back afterwards.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
