// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a book payload fails schema validation.
	// It is wrapped by ValidationError, which carries the field messages.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedBody is returned when a request body is not valid JSON.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBookNotFound is returned when no book exists for a given identifier.
	ErrBookNotFound = errors.New("book not found")
)

// ValidationError carries one human-readable message per violated rule,
// in field order.
type ValidationError struct {
	Details []string
}

// NewValidationError creates a ValidationError from the given messages.
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Details, "; ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
