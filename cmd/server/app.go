package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/memory"
	"github.com/phrazzld/books-api/internal/platform/postgres"
	redisstore "github.com/phrazzld/books-api/internal/platform/redis"
	"github.com/phrazzld/books-api/internal/service/auth"
	"github.com/phrazzld/books-api/internal/store"
)

// Store driver names accepted by config.StoreConfig.Driver.
const (
	driverPostgres = "postgres"
	driverRedis    = "redis"
	driverMemory   = "memory"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	bookStore store.BookStore
	verifier  auth.TokenVerifier

	// closers release backend connections on shutdown, in order.
	closers []func() error
}

// newApplication assembles an application from already-constructed
// dependencies.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	bookStore store.BookStore,
	verifier auth.TokenVerifier,
) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if bookStore == nil {
		return nil, errors.New("book store cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("token verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &application{
		config:    cfg,
		logger:    logger,
		bookStore: bookStore,
		verifier:  verifier,
	}, nil
}

// buildApplication connects the configured store backend and the JWKS-backed
// token verifier, then assembles the application.
func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	bookStore, closer, err := openBookStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	keyfunc, err := auth.NewJWKSKeyfunc(ctx, cfg.Auth)
	if err != nil {
		_ = closer()
		return nil, err
	}
	verifier, err := auth.NewJWTVerifier(cfg.Auth, keyfunc)
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}
	logger.Info("Token verifier initialized",
		slog.String("issuer", cfg.Auth.IssuerBaseURL),
		slog.String("audience", cfg.Auth.Audience),
		slog.String("signing_alg", cfg.Auth.SigningAlg))

	app, err := newApplication(cfg, logger, bookStore, verifier)
	if err != nil {
		_ = closer()
		return nil, err
	}
	app.closers = append(app.closers, closer)
	return app, nil
}

// openBookStore connects the backend selected by cfg.Store.Driver. The
// returned closer releases the backend's connections.
func openBookStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.BookStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case driverPostgres:
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		logger.Info("Database connection established")
		return postgres.NewPostgresBookStore(db, logger), db.Close, nil

	case driverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Redis connection established", slog.String("key_prefix", cfg.Redis.KeyPrefix))
		return redisstore.NewRedisBookStore(client, cfg.Redis.KeyPrefix, logger), client.Close, nil

	case driverMemory:
		logger.Warn("Using in-memory book store; data is not persisted")
		return memory.NewBookStore(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter(ctx)

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil {
			app.logger.Error("Error closing store connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
