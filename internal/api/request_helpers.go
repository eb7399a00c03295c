package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/domain"
)

// bookIDParam is the route parameter holding a book identifier.
const bookIDParam = "id"

// bookID extracts the book identifier from the URL path. Identifiers are
// opaque here; whether one can exist is up to the store.
func bookID(r *http.Request) string {
	return chi.URLParam(r, bookIDParam)
}

// decodeBookInput reads the request body and validates it into a BookInput.
// Undecodable bodies yield domain.ErrMalformedBody; schema violations yield
// a *domain.ValidationError.
func decodeBookInput(r *http.Request) (domain.BookInput, error) {
	var payload domain.BookPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		return domain.BookInput{}, fmt.Errorf("%w: %v", domain.ErrMalformedBody, err)
	}
	return domain.ValidateBookPayload(payload)
}
