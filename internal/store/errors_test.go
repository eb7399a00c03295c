package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StoreError
		expected string
	}{
		{
			name:     "with wrapped error",
			err:      NewStoreError("book", "insert", "write failed", errors.New("connection reset")),
			expected: "insert operation on book failed: write failed: connection reset",
		},
		{
			name:     "without wrapped error",
			err:      NewStoreError("book", "list", "scan failed", nil),
			expected: "list operation on book failed: scan failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	err := NewStoreError("book", "replace", "constraint violated", ErrInvalidEntity)

	assert.True(t, errors.Is(err, ErrInvalidEntity))
	assert.False(t, errors.Is(err, ErrDuplicate))

	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "replace", storeErr.Operation)
}
