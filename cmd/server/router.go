package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/books-api/internal/api"
	apiMiddleware "github.com/phrazzld/books-api/internal/api/middleware"
)

// booksPath is where the book resource is mounted.
const booksPath = "/books"

// setupRouter creates and configures the application router with all routes
// and middleware. ctx bounds background work started by middleware.
func (app *application) setupRouter(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	if app.config.Server.RateLimit > 0 {
		limiter := apiMiddleware.NewRateLimiter(ctx, app.config.Server.RateLimit, app.config.Server.RateBurst)
		r.Use(limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.HandleError(w, r, api.NewError(http.StatusNotFound, "route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.HandleError(w, r, api.NewError(http.StatusMethodNotAllowed, "method not allowed", nil))
	})

	bookHandler := api.NewBookHandler(app.bookStore, booksPath)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier)

	r.Route(booksPath, func(r chi.Router) {
		r.Get("/", api.Wrap(bookHandler.List))
		r.Get("/{id}", api.Wrap(bookHandler.Get))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.With(apiMiddleware.RequireScope(app.config.Auth.WriteScope)).
				Post("/", api.Wrap(bookHandler.Create))
			r.Put("/{id}", api.Wrap(bookHandler.Update))
			r.Delete("/{id}", api.Wrap(bookHandler.Delete))
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.bookStore.Ping(pingCtx); err != nil {
			api.HandleError(w, r, api.NewError(http.StatusServiceUnavailable, "store unavailable", err))
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("READY")); err != nil {
			app.logger.Error("Failed to write readiness response", "error", err)
		}
	})

	return r
}
