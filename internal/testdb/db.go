package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/smart-todo-api/internal/config"
	"github.com/phrazzld/smart-todo-api/internal/platform/postgres"
)

// DatabaseURLEnv names the environment variable holding the test database URL.
const DatabaseURLEnv = "DATABASE_URL"

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDatabaseURL returns the configured test database URL, or an empty
// string when none is set.
func GetTestDatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDB opens a pooled connection to the test database and applies the
// embedded migrations once per test binary. The test is skipped when
// DATABASE_URL is not set. Everything is closed in t.Cleanup.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("DATABASE_URL not set, skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DatabaseConfig{
		Driver:      "postgres",
		URL:         GetTestDatabaseURL(),
		PoolMinSize: 0,
		PoolMaxSize: 4,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := postgres.OpenDB(pool)
	t.Cleanup(func() { closeAll(t, db, pool) })

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, postgres.MigrateUp, nil)
	})
	if migrateErr != nil {
		t.Fatalf("failed to apply migrations: %v", migrateErr)
	}

	return db
}

func closeAll(t *testing.T, db *sql.DB, pool *pgxpool.Pool) {
	if err := db.Close(); err != nil {
		t.Logf("warning: failed to close database handle: %v", err)
	}
	pool.Close()
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can modify the database without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
