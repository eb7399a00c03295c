// Package memory provides an in-process store.BookStore for local
// development and tests. Contents are lost when the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/store"
)

// BookStore is a mutex-guarded map of books that remembers insertion order.
type BookStore struct {
	mu    sync.RWMutex
	books map[string]domain.Book
	order []string
	newID func() string
}

// NewBookStore creates an empty in-memory BookStore.
func NewBookStore() *BookStore {
	return &BookStore{
		books: make(map[string]domain.Book),
		newID: uuid.NewString,
	}
}

// Ensure BookStore implements store.BookStore interface
var _ store.BookStore = (*BookStore)(nil)

// List implements store.BookStore.List in insertion order.
func (s *BookStore) List(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]domain.Book, 0, len(s.order))
	for _, id := range s.order {
		books = append(books, s.books[id])
	}
	return books, nil
}

// Get implements store.BookStore.Get
func (s *BookStore) Get(ctx context.Context, id string) (domain.Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	return book, ok, nil
}

// Insert implements store.BookStore.Insert
func (s *BookStore) Insert(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	book := in.WithID(s.newID())
	if _, exists := s.books[book.ID]; exists {
		return domain.Book{}, store.NewStoreError("book", "insert", "id collision", store.ErrDuplicate)
	}
	s.books[book.ID] = book
	s.order = append(s.order, book.ID)
	return book, nil
}

// Replace implements store.BookStore.Replace
func (s *BookStore) Replace(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return domain.Book{}, false, nil
	}
	book := in.WithID(id)
	s.books[id] = book
	return book, true, nil
}

// Remove implements store.BookStore.Remove
func (s *BookStore) Remove(ctx context.Context, id string) (domain.Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return domain.Book{}, false, nil
	}
	delete(s.books, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return book, true, nil
}

// Ping implements store.BookStore.Ping
func (s *BookStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
