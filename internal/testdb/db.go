//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup work such as connecting and migrating.
const TestTimeout = 10 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// DatabaseURL returns the database URL for integration tests.
// DATABASE_URL takes precedence over BOOKS_TEST_DB_URL.
func DatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("BOOKS_TEST_DB_URL")
}

// Open connects to the test database, applying migrations once per test
// binary. The test is skipped when no database URL is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: dbURL, MaxOpenConns: 5, MaxIdleConns: 5})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	migrateOnce.Do(func() {
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		migrateErr = postgres.Migrate(ctx, db, quiet)
	})
	require.NoError(t, migrateErr, "failed to migrate test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
