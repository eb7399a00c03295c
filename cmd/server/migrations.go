package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/postgres"
)

// runMigrations executes a migration command against the configured
// Postgres database.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	if cfg.Store.Driver != driverPostgres {
		return fmt.Errorf("migrations require the postgres store driver, got %q", cfg.Store.Driver)
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	switch command {
	case "up":
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	case "status":
		version, err := postgres.MigrationStatus(ctx, db, logger)
		if err != nil {
			return err
		}
		logger.Info("Current schema version", slog.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("unknown migration command %q (expected up or status)", command)
	}
}
