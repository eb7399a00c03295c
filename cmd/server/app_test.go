package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/mocks"
	"github.com/phrazzld/books-api/internal/platform/memory"
	redisstore "github.com/phrazzld/books-api/internal/platform/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication_Validation(t *testing.T) {
	cfg := &config.Config{}
	bookStore := &mocks.MockBookStore{}
	verifier := &mocks.MockTokenVerifier{}

	_, err := newApplication(nil, nil, bookStore, verifier)
	assert.Error(t, err)

	_, err = newApplication(cfg, nil, nil, verifier)
	assert.Error(t, err)

	_, err = newApplication(cfg, nil, bookStore, nil)
	assert.Error(t, err)

	app, err := newApplication(cfg, nil, bookStore, verifier)
	require.NoError(t, err)
	assert.NotNil(t, app.logger, "nil logger falls back to the default")
}

func TestOpenBookStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: driverMemory}}
		bookStore, closer, err := openBookStore(ctx, cfg, testLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &memory.BookStore{}, bookStore)
		assert.NoError(t, closer())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Store: config.StoreConfig{Driver: driverRedis},
			Redis: config.RedisConfig{URL: "redis://" + mr.Addr(), KeyPrefix: "apptest"},
		}
		bookStore, closer, err := openBookStore(ctx, cfg, testLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &redisstore.RedisBookStore{}, bookStore)

		_, err = bookStore.Insert(ctx, domain.BookInput{Title: "Dune", Author: "Frank Herbert"})
		require.NoError(t, err)
		assert.True(t, mr.Exists("apptest:docs"))

		assert.NoError(t, closer())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: "cassandra"}}
		_, _, err := openBookStore(ctx, cfg, testLogger(t))
		assert.ErrorContains(t, err, "unknown store driver")
	})
}

func TestApplicationCleanup(t *testing.T) {
	app, err := newApplication(&config.Config{}, testLogger(t), &mocks.MockBookStore{}, &mocks.MockTokenVerifier{})
	require.NoError(t, err)

	var closed []string
	app.closers = append(app.closers,
		func() error { closed = append(closed, "first"); return nil },
		func() error { closed = append(closed, "second"); return nil },
	)
	app.cleanup()

	assert.Equal(t, []string{"first", "second"}, closed)
}

func TestRunMigrations_RequiresPostgres(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: driverMemory}}
	err := runMigrations(context.Background(), cfg, testLogger(t), "up")
	assert.ErrorContains(t, err, "postgres")
}
