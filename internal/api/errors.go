package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/service/auth"
)

// Realm is advertised in WWW-Authenticate challenges.
const Realm = "books-api"

// ErrRateLimited is returned when a client exceeds its request budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// Error is a failure carrying an explicit HTTP classification. HandleError
// honors it as-is; any other error is classified by MapError.
type Error struct {
	Status  int
	Message string
	Details []string
	Err     error
}

// NewError creates an Error with the given status and client message.
func NewError(status int, message string, err error, details ...string) *Error {
	return &Error{Status: status, Message: message, Details: details, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MapError classifies err into a client-safe status, message and detail
// list. Unknown errors become a 500 with a generic message so internal
// details never leak.
func MapError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return NewError(http.StatusBadRequest, "validation error", err, validationErr.Details...)
	case errors.Is(err, domain.ErrValidation):
		return NewError(http.StatusBadRequest, "validation error", err)
	case errors.Is(err, domain.ErrMalformedBody):
		return NewError(http.StatusBadRequest, "malformed request body", err)

	case errors.Is(err, domain.ErrBookNotFound):
		return NewError(http.StatusNotFound, "book not found", err)

	case errors.Is(err, auth.ErrMissingToken):
		return NewError(http.StatusUnauthorized, "authorization header required", err)
	case errors.Is(err, auth.ErrExpiredToken):
		return NewError(http.StatusUnauthorized, "token expired", err)
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return NewError(http.StatusUnauthorized, "invalid token", err)
	case errors.Is(err, auth.ErrInsufficientScope):
		return NewError(http.StatusForbidden, "insufficient scope", err)

	case errors.Is(err, ErrRateLimited):
		return NewError(http.StatusTooManyRequests, "too many requests", err)

	default:
		return NewError(http.StatusInternalServerError, "internal server error", err)
	}
}

// HandleError writes the JSON error response for err. It is the only place
// error bodies are produced: handlers reach it through Wrap, middleware
// calls it directly.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := MapError(err)

	if challenge := authChallenge(err, mapped.Status); challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}

	var opts []shared.ResponseOption
	if len(mapped.Details) > 0 {
		opts = append(opts, shared.WithDetails(mapped.Details))
	}

	shared.RespondWithErrorAndLog(w, r, mapped.Status, mapped.Message, err, opts...)
}

// authChallenge builds the bearer challenge for 401 and 403 responses.
func authChallenge(err error, status int) string {
	switch {
	case status == http.StatusUnauthorized && errors.Is(err, auth.ErrMissingToken):
		return fmt.Sprintf("Bearer realm=%q", Realm)
	case status == http.StatusUnauthorized:
		return fmt.Sprintf("Bearer realm=%q, error=\"invalid_token\"", Realm)
	case status == http.StatusForbidden && errors.Is(err, auth.ErrInsufficientScope):
		return fmt.Sprintf("Bearer realm=%q, error=\"insufficient_scope\"", Realm)
	default:
		return ""
	}
}

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts h to http.HandlerFunc, routing any returned error to
// HandleError.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			HandleError(w, r, err)
		}
	}
}
