package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/memory"
	"github.com/phrazzld/books-api/internal/service/auth"
	"github.com/phrazzld/books-api/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig(issuer *auth.TestIssuer) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			LogLevel:        "debug",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: config.StoreConfig{Driver: driverMemory},
		Auth:  issuer.AuthConfig(),
	}
}

// testServer runs the full router against bookStore, trusting issuer.
func testServer(t *testing.T, issuer *auth.TestIssuer, cfg *config.Config, bookStore store.BookStore) *httptest.Server {
	t.Helper()
	if bookStore == nil {
		bookStore = memory.NewBookStore()
	}

	app, err := newApplication(cfg, testLogger(t), bookStore, issuer.Verifier(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(app.setupRouter(ctx))
	t.Cleanup(srv.Close)
	return srv
}

// call sends a request to srv and returns the response with its body read.
func call(t *testing.T, srv *httptest.Server, method, path, authHeader, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}
