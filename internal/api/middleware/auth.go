package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/books-api/internal/api"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/service/auth"
)

type claimsKey struct{}

// AuthMiddleware gates routes behind a verified bearer token.
type AuthMiddleware struct {
	verifier auth.TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware with the given verifier.
func NewAuthMiddleware(verifier auth.TokenVerifier) *AuthMiddleware {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate verifies the bearer token from the Authorization header and
// attaches its claims to the request context. Requests without a valid
// token are rejected with 401 before reaching next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			api.HandleError(w, r, err)
			return
		}

		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			api.HandleError(w, r, err)
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(slog.String("subject", claims.Subject)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireScope rejects requests whose verified claims lack scope with 403.
// It must run after Authenticate; a request without claims gets 401.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				api.HandleError(w, r, auth.ErrMissingToken)
				return
			}
			if !claims.HasScope(scope) {
				api.HandleError(w, r, fmt.Errorf("%w: %s", auth.ErrInsufficientScope, scope))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a copy of ctx carrying the verified claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext extracts the verified claims from the context.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: unsupported authorization scheme", auth.ErrInvalidToken)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
