package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/mocks"
	"github.com/phrazzld/books-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okHandler records whether it ran and the claims it saw.
type okHandler struct {
	called bool
	claims *auth.Claims
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.claims, _ = ClaimsFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestNewAuthMiddleware_NilVerifierPanics(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewTestIssuer(t)
	authMiddleware := NewAuthMiddleware(issuer.Verifier(t))

	tests := []struct {
		name        string
		header      func(t *testing.T) string
		wantStatus  int
		wantMessage string
		wantSubject string
	}{
		{
			name:        "valid token",
			header:      func(t *testing.T) string { return issuer.AuthHeader(t, "user-1") },
			wantStatus:  http.StatusOK,
			wantSubject: "user-1",
		},
		{
			name:        "lowercase scheme",
			header:      func(t *testing.T) string { return "bearer " + issuer.Token(t, "user-2") },
			wantStatus:  http.StatusOK,
			wantSubject: "user-2",
		},
		{
			name:        "missing header",
			header:      func(t *testing.T) string { return "" },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "authorization header required",
		},
		{
			name:        "empty bearer",
			header:      func(t *testing.T) string { return "Bearer " },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "authorization header required",
		},
		{
			name:        "basic scheme",
			header:      func(t *testing.T) string { return "Basic dXNlcjpwYXNz" },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid token",
		},
		{
			name:        "garbage token",
			header:      func(t *testing.T) string { return "Bearer not.a.jwt" },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid token",
		},
		{
			name: "expired token",
			header: func(t *testing.T) string {
				return issuer.AuthHeader(t, "user-1", auth.WithClaim("exp", time.Now().Add(-time.Hour).Unix()))
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "token expired",
		},
		{
			name: "wrong audience",
			header: func(t *testing.T) string {
				return issuer.AuthHeader(t, "user-1", auth.WithClaim("aud", "https://other.example"))
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := &okHandler{}
			w := serve(authMiddleware.Authenticate(next), tc.header(t))

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				require.True(t, next.called)
				require.NotNil(t, next.claims)
				assert.Equal(t, tc.wantSubject, next.claims.Subject)
				return
			}
			assert.False(t, next.called, "handler must not run when authentication fails")
			assert.Equal(t, tc.wantMessage, errorMessage(t, w))
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}

func TestAuthenticate_VerifierFailure(t *testing.T) {
	verifier := &mocks.MockTokenVerifier{Err: errors.New("jwks endpoint unreachable")}
	next := &okHandler{}

	w := serve(NewAuthMiddleware(verifier).Authenticate(next), "Bearer abc")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, next.called)
	assert.Equal(t, []string{"abc"}, verifier.Tokens)
}

func TestRequireScope(t *testing.T) {
	issuer := auth.NewTestIssuer(t)
	authMiddleware := NewAuthMiddleware(issuer.Verifier(t))

	tests := []struct {
		name       string
		scopes     []string
		wantStatus int
	}{
		{name: "scope granted", scopes: []string{"read:books", auth.TestWriteScope}, wantStatus: http.StatusOK},
		{name: "scope absent", scopes: []string{"read:books"}, wantStatus: http.StatusForbidden},
		{name: "no scopes", scopes: nil, wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := &okHandler{}
			handler := authMiddleware.Authenticate(RequireScope(auth.TestWriteScope)(next))

			w := serve(handler, issuer.AuthHeader(t, "user-1", auth.WithScopes(tc.scopes...)))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantStatus == http.StatusOK, next.called)
			if tc.wantStatus == http.StatusForbidden {
				assert.Equal(t, "insufficient scope", errorMessage(t, w))
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), `error="insufficient_scope"`)
			}
		})
	}
}

func TestRequireScope_WithoutClaims(t *testing.T) {
	next := &okHandler{}
	w := serve(RequireScope("write:books")(next), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, next.called)
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	_, ok = ClaimsFromContext(WithClaims(context.Background(), nil))
	assert.False(t, ok)

	claims := &auth.Claims{Subject: "user-1"}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), claims))
	assert.True(t, ok)
	assert.Same(t, claims, got)
}
