package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/books-api/internal/domain"
)

// MockBookStore implements store.BookStore for testing. Each method calls
// its Fn field when set and otherwise returns the default values.
type MockBookStore struct {
	// Custom behavior functions
	ListFn    func(ctx context.Context) ([]domain.Book, error)
	GetFn     func(ctx context.Context, id string) (domain.Book, bool, error)
	InsertFn  func(ctx context.Context, in domain.BookInput) (domain.Book, error)
	ReplaceFn func(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error)
	RemoveFn  func(ctx context.Context, id string) (domain.Book, bool, error)
	PingFn    func(ctx context.Context) error

	// Default response values
	Books []domain.Book
	Book  domain.Book
	Found bool
	Err   error

	// Call tracking for verification
	mu     sync.Mutex
	Calls  []string
	IDs    []string
	Inputs []domain.BookInput
}

func (m *MockBookStore) record(method, id string, in *domain.BookInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, method)
	if id != "" {
		m.IDs = append(m.IDs, id)
	}
	if in != nil {
		m.Inputs = append(m.Inputs, *in)
	}
}

// CallCount returns how many times the named method was invoked.
func (m *MockBookStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// List implements store.BookStore
func (m *MockBookStore) List(ctx context.Context) ([]domain.Book, error) {
	m.record("List", "", nil)
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.Books == nil && m.Err == nil {
		return []domain.Book{}, nil
	}
	return m.Books, m.Err
}

// Get implements store.BookStore
func (m *MockBookStore) Get(ctx context.Context, id string) (domain.Book, bool, error) {
	m.record("Get", id, nil)
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Book, m.Found, m.Err
}

// Insert implements store.BookStore
func (m *MockBookStore) Insert(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	m.record("Insert", "", &in)
	if m.InsertFn != nil {
		return m.InsertFn(ctx, in)
	}
	return m.Book, m.Err
}

// Replace implements store.BookStore
func (m *MockBookStore) Replace(ctx context.Context, id string, in domain.BookInput) (domain.Book, bool, error) {
	m.record("Replace", id, &in)
	if m.ReplaceFn != nil {
		return m.ReplaceFn(ctx, id, in)
	}
	return m.Book, m.Found, m.Err
}

// Remove implements store.BookStore
func (m *MockBookStore) Remove(ctx context.Context, id string) (domain.Book, bool, error) {
	m.record("Remove", id, nil)
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, id)
	}
	return m.Book, m.Found, m.Err
}

// Ping implements store.BookStore
func (m *MockBookStore) Ping(ctx context.Context) error {
	m.record("Ping", "", nil)
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return m.Err
}
