package auth

import (
	"context"
	"slices"
	"time"
)

// TokenVerifier checks bearer tokens issued by the external authorization
// server.
type TokenVerifier interface {
	// Verify validates the signature, algorithm, issuer, audience and time
	// claims of tokenString. It returns the verified claims, or one of
	// ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified identity attached to an authenticated request.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	Scopes    []string
	ExpiresAt time.Time
	ID        string
}

// HasScope reports whether the claims grant the given capability.
func (c *Claims) HasScope(scope string) bool {
	if c == nil || scope == "" {
		return false
	}
	return slices.Contains(c.Scopes, scope)
}
