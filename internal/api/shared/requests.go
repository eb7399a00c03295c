package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a decoded request body.
const MaxBodyBytes = 1 << 20 // 1MB

// ErrTrailingData is returned when the body holds more than one JSON value.
var ErrTrailingData = errors.New("request body must contain a single JSON value")

// DecodeJSON decodes the request body into the given value.
// Bytes beyond MaxBodyBytes are not read.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
