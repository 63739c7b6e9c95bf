package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gradaid/gradaid-api/internal/ciutil"
	"github.com/gradaid/gradaid-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// Timeout bounds setup operations against the test database.
const Timeout = 10 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// Open returns a pool on the test database with all migrations applied.
// The pool is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := ciutil.TestDatabaseURL(nil)
	if dbURL == "" {
		if ciutil.IsCI() {
			t.Fatalf("%s or %s must be set in CI", ciutil.EnvTestDBURL, ciutil.EnvDatabaseURL)
		}
		t.Skipf("%s not set, skipping integration test", ciutil.EnvTestDBURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open database connection")
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "database ping failed for %s", ciutil.MaskDatabaseURL(dbURL))

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, "up", slog.Default())
	})
	require.NoError(t, migrateErr, "failed to apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
