package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. Unlike the default goose logger it does
// not exit; the failure is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func configureGoose(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&slogGooseLogger{logger: logger.With(slog.String("component", "migrations"))})
	return goose.SetDialect("postgres")
}

// Migrate applies all pending embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(logger); err != nil {
		return fmt.Errorf("configuring migrations: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// MigrationStatus returns the schema version currently applied.
func MigrationStatus(ctx context.Context, db *sql.DB, logger *slog.Logger) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configureGoose(logger); err != nil {
		return 0, fmt.Errorf("configuring migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
