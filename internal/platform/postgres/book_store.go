package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/store"
)

const bookEntity = "book"

const (
	listBooksQuery = `
		SELECT id, title, author
		FROM books
		ORDER BY created_at, id
	`
	getBookQuery = `
		SELECT id, title, author
		FROM books
		WHERE id = $1
	`
	insertBookQuery = `
		INSERT INTO books (id, title, author)
		VALUES ($1, $2, $3)
		RETURNING id, title, author
	`
	replaceBookQuery = `
		UPDATE books
		SET title = $2, author = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, author
	`
	removeBookQuery = `
		DELETE FROM books
		WHERE id = $1
		RETURNING id, title, author
	`
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context) ([]domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, listBooksQuery)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, store.NewStoreError(bookEntity, "list", "failed to query books", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author); err != nil {
			return nil, store.NewStoreError(bookEntity, "list", "failed to scan book", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(bookEntity, "list", "failed to iterate books", MapError(err))
	}

	log.Debug("listed books", slog.Int("count", len(books)))
	return books, nil
}

// Get implements store.BookStore.Get
// An id that is not a UUID cannot exist in the table and is reported as absent.
func (s *PostgresBookStore) Get(ctx context.Context, id string) (domain.Book, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookID, ok := parseID(id)
	if !ok {
		log.Debug("malformed book id treated as absent", slog.String("book_id", id))
		return domain.Book{}, false, nil
	}

	book, found, err := s.queryOne(ctx, getBookQuery, bookID)
	if err != nil {
		log.Error("failed to get book",
			slog.String("error", err.Error()),
			slog.String("book_id", id))
		return domain.Book{}, false, store.NewStoreError(bookEntity, "get", "failed to query book", err)
	}
	return book, found, nil
}

// Insert implements store.BookStore.Insert
func (s *PostgresBookStore) Insert(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, found, err := s.queryOne(ctx, insertBookQuery, uuid.NewString(), in.Title, in.Author)
	if err == nil && !found {
		err = errors.New("insert returned no row")
	}
	if err != nil {
		log.Error("failed to insert book", slog.String("error", err.Error()))
		return domain.Book{}, store.NewStoreError(bookEntity, "insert", "failed to insert book", err)
	}

	log.Debug("book inserted", slog.String("book_id", book.ID))
	return book, nil
}

// Replace implements store.BookStore.Replace
// The UPDATE ... RETURNING statement checks existence and writes in one step.
func (s *PostgresBookStore) Replace(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookID, ok := parseID(id)
	if !ok {
		return domain.Book{}, false, nil
	}

	book, found, err := s.queryOne(ctx, replaceBookQuery, bookID, in.Title, in.Author)
	if err != nil {
		log.Error("failed to replace book",
			slog.String("error", err.Error()),
			slog.String("book_id", id))
		return domain.Book{}, false, store.NewStoreError(bookEntity, "replace", "failed to update book", err)
	}
	return book, found, nil
}

// Remove implements store.BookStore.Remove
func (s *PostgresBookStore) Remove(ctx context.Context, id string) (domain.Book, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookID, ok := parseID(id)
	if !ok {
		return domain.Book{}, false, nil
	}

	book, found, err := s.queryOne(ctx, removeBookQuery, bookID)
	if err != nil {
		log.Error("failed to remove book",
			slog.String("error", err.Error()),
			slog.String("book_id", id))
		return domain.Book{}, false, store.NewStoreError(bookEntity, "remove", "failed to delete book", err)
	}
	return book, found, nil
}

// Ping implements store.BookStore.Ping
func (s *PostgresBookStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return store.NewStoreError(bookEntity, "ping", "database unreachable", err)
	}
	return nil
}

// queryOne runs a statement returning at most one book row. A missing row
// is reported as found=false, never as an error.
func (s *PostgresBookStore) queryOne(ctx context.Context, query string, args ...interface{}) (domain.Book, bool, error) {
	var b domain.Book
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.Title, &b.Author)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Book{}, false, nil
	case err != nil:
		return domain.Book{}, false, MapError(err)
	}
	return b, true, nil
}

// parseID normalizes a book id to its canonical UUID form.
func parseID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
