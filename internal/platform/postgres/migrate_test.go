package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files, "migrations must be embedded in the binary")

	for _, name := range files {
		content, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- +goose Up", name)
		assert.Contains(t, string(content), "-- +goose Down", name)
	}
}

func TestBooksMigrationConstraints(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, migrationsDir+"/00001_create_books.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "CHECK (title <> '')")
	assert.Contains(t, sql, "CHECK (author <> '')")
}

func TestSlogGooseLogger(t *testing.T) {
	logBuf, log := logger.SetupTestLogger(t)
	l := &slogGooseLogger{logger: log}

	l.Printf("OK   %s (%s)\n", "00001_create_books.sql", "2ms")
	l.Fatalf("failed to apply %s", "00002_broken.sql")

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.False(t, strings.HasSuffix(entries[0]["msg"].(string), "\n"))
	assert.Equal(t, "ERROR", entries[1]["level"])
}
