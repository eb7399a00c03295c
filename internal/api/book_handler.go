package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/store"
)

// BookHandler serves the /books resource. Every method reports failures by
// returning an error; mount them through Wrap.
type BookHandler struct {
	store    store.BookStore
	basePath string
}

// NewBookHandler creates a BookHandler backed by the given store. basePath
// is the mount point used to build Location headers, e.g. "/books".
func NewBookHandler(bookStore store.BookStore, basePath string) *BookHandler {
	if bookStore == nil {
		panic("bookStore cannot be nil")
	}
	return &BookHandler{store: bookStore, basePath: basePath}
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) error {
	books, err := h.store.List(r.Context())
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, books)
	return nil
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id := bookID(r)
	book, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		return fmt.Errorf("getting book %s: %w", id, err)
	}
	if !found {
		return domain.ErrBookNotFound
	}
	shared.RespondWithJSON(w, r, http.StatusOK, book)
	return nil
}

// Create handles POST /books. The write scope is enforced by middleware
// before this runs.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeBookInput(r)
	if err != nil {
		return err
	}

	book, err := h.store.Insert(r.Context(), in)
	if err != nil {
		return fmt.Errorf("inserting book: %w", err)
	}

	logger.FromContext(r.Context()).Info("book created", slog.String("book_id", book.ID))

	w.Header().Set("Location", path.Join(h.basePath, book.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, book)
	return nil
}

// Update handles PUT /books/{id} as a full replacement.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeBookInput(r)
	if err != nil {
		return err
	}

	id := bookID(r)
	book, found, err := h.store.Replace(r.Context(), id, in)
	if err != nil {
		return fmt.Errorf("replacing book %s: %w", id, err)
	}
	if !found {
		return domain.ErrBookNotFound
	}

	logger.FromContext(r.Context()).Info("book updated", slog.String("book_id", book.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, book)
	return nil
}

// Delete handles DELETE /books/{id} and echoes the removed record.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id := bookID(r)
	book, found, err := h.store.Remove(r.Context(), id)
	if err != nil {
		return fmt.Errorf("removing book %s: %w", id, err)
	}
	if !found {
		return domain.ErrBookNotFound
	}

	logger.FromContext(r.Context()).Info("book deleted", slog.String("book_id", book.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, book)
	return nil
}
