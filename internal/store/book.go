package store

import (
	"context"

	"github.com/phrazzld/books-api/internal/domain"
)

// BookStore defines the persistence operations for books.
//
// Absence of a book is a normal outcome reported through the boolean result,
// never through an error. Errors always describe a failure of the store
// itself and are passed through to callers without reclassification.
type BookStore interface {
	// List returns every stored book. It returns an empty, non-nil slice when
	// no books exist.
	List(ctx context.Context) ([]domain.Book, error)

	// Get retrieves the book with the given ID.
	Get(ctx context.Context, id string) (domain.Book, bool, error)

	// Insert persists a new book and returns it with its store-assigned ID.
	Insert(ctx context.Context, in domain.BookInput) (domain.Book, error)

	// Replace overwrites title and author of the book with the given ID and
	// returns the updated record. The existence check and the write happen
	// in a single store operation.
	Replace(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error)

	// Remove deletes the book with the given ID and returns the record as it
	// was before deletion.
	Remove(ctx context.Context, id string) (domain.Book, bool, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
