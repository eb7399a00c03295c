// Package main implements the entry point for the books API server, which
// exposes create, read, update and delete operations on books behind
// bearer-token authorization.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run database migrations (up, status) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Fatalf("books-api: %v", err)
	}
}

// run loads configuration, sets up logging, then either executes a
// migration command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("store_driver", cfg.Store.Driver))

	if migrateCmd != "" {
		return runMigrations(ctx, cfg, l, migrateCmd)
	}

	app, err := buildApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
