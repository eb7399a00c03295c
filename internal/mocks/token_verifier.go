package mocks

import (
	"context"

	"github.com/phrazzld/books-api/internal/service/auth"
)

// MockTokenVerifier implements auth.TokenVerifier for testing.
type MockTokenVerifier struct {
	VerifyFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default response values
	Claims *auth.Claims
	Err    error

	// Tokens records every token passed to Verify.
	Tokens []string
}

// Verify implements auth.TokenVerifier
func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	m.Tokens = append(m.Tokens, token)
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return m.Claims, m.Err
}
