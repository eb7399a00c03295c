package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/logger"
)

// jwtVerifier is an implementation of TokenVerifier for asymmetrically
// signed JWTs. Keys are resolved through a jwt.Keyfunc, normally backed by
// the issuer's JWKS endpoint.
type jwtVerifier struct {
	keyfunc   jwt.Keyfunc
	alg       string
	issuer    string
	audience  string
	clockSkew time.Duration
	timeFunc  func() time.Time // Injectable for testing
}

// tokenClaims is the wire shape of the claims we read. Scope follows
// RFC 8693 (space-delimited string); permissions is the array form some
// authorization servers emit alongside it.
type tokenClaims struct {
	Scope       scopeClaim `json:"scope,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Ensure jwtVerifier implements TokenVerifier interface
var _ TokenVerifier = (*jwtVerifier)(nil)

// NewJWTVerifier creates a TokenVerifier pinned to the configured signing
// algorithm, issuer and audience.
func NewJWTVerifier(cfg config.AuthConfig, keyfunc jwt.Keyfunc) (TokenVerifier, error) {
	return newJWTVerifier(cfg, keyfunc, time.Now)
}

func newJWTVerifier(cfg config.AuthConfig, keyfunc jwt.Keyfunc, now func() time.Time) (*jwtVerifier, error) {
	if keyfunc == nil {
		return nil, fmt.Errorf("keyfunc cannot be nil")
	}
	if jwt.GetSigningMethod(cfg.SigningAlg) == nil {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.SigningAlg)
	}
	if strings.HasPrefix(cfg.SigningAlg, "HS") {
		return nil, fmt.Errorf("symmetric signing algorithm %q is not allowed", cfg.SigningAlg)
	}
	if cfg.IssuerBaseURL == "" || cfg.Audience == "" {
		return nil, fmt.Errorf("issuer and audience are required")
	}

	return &jwtVerifier{
		keyfunc:   keyfunc,
		alg:       cfg.SigningAlg,
		issuer:    cfg.IssuerBaseURL,
		audience:  cfg.Audience,
		clockSkew: cfg.ClockSkew,
		timeFunc:  now,
	}, nil
}

// Verify implements TokenVerifier.
func (v *jwtVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := v.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, v.keyfunc, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	scopes := append([]string(nil), claims.Scope...)
	scopes = append(scopes, claims.Permissions...)

	verified := &Claims{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
		Scopes:   scopes,
		ID:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		verified.ExpiresAt = claims.ExpiresAt.Time
	}

	log.Debug("token validated successfully",
		"subject", verified.Subject,
		"token_id", verified.ID,
		"scopes", strings.Join(verified.Scopes, " "))

	return verified, nil
}
