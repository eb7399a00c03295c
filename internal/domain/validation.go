package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var bookValidator = newBookValidator()

func newBookValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// ALLOW-PANIC: registration only fails for an empty tag or nil func
	if err := v.RegisterValidation("text", isText); err != nil {
		panic(err)
	}

	return v
}

func isText(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String
}

// ValidateBookPayload checks a raw payload against the book schema: title and
// author must both be present as non-empty strings. Each field is checked
// independently so a single call reports every violation. On success the
// values are returned verbatim.
func ValidateBookPayload(p BookPayload) (BookInput, error) {
	err := bookValidator.Struct(p)
	if err == nil {
		return BookInput{
			Title:  p.Title.(string),
			Author: p.Author.(string),
		}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return BookInput{}, fmt.Errorf("validating book payload: %w", err)
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fieldMessage(fe))
	}
	return BookInput{}, NewValidationError(details...)
}

func fieldMessage(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())

	switch fe.Tag() {
	case "required":
		switch v := fe.Value().(type) {
		case nil:
			return field + " is required"
		case string:
			if v == "" {
				return field + " is not allowed to be empty"
			}
		}
		return field + " must be a string"
	case "text":
		return field + " must be a string"
	default:
		return field + " is invalid"
	}
}
