package auth

import (
	"context"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/books-api/internal/config"
)

// NewJWKSKeyfunc returns a jwt.Keyfunc resolving signing keys from the
// issuer's JWKS endpoint. Keys are fetched once up front and refreshed in
// the background until ctx is cancelled; unknown key IDs trigger a
// rate-limited refresh.
func NewJWKSKeyfunc(ctx context.Context, cfg config.AuthConfig) (jwt.Keyfunc, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL()})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL(), err)
	}
	return k.Keyfunc, nil
}
