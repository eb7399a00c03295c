package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/config"
	"github.com/stretchr/testify/require"
)

// Defaults used by TestIssuer.
const (
	TestIssuerURL  = "https://issuer.test/"
	TestAudience   = "http://localhost:3000/api/books"
	TestWriteScope = "write:books"
)

// TestIssuer plays the external authorization server in tests: it owns an
// RSA key pair, signs RS256 tokens and exposes the matching jwt.Keyfunc.
type TestIssuer struct {
	Key   *rsa.PrivateKey
	KeyID string
	Now   func() time.Time
}

// NewTestIssuer creates a TestIssuer with a fresh 2048-bit key.
func NewTestIssuer(t *testing.T) *TestIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate RSA key")
	return &TestIssuer{Key: key, KeyID: uuid.NewString(), Now: time.Now}
}

// AuthConfig returns an AuthConfig matching the tokens this issuer signs.
func (ti *TestIssuer) AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		IssuerBaseURL: TestIssuerURL,
		Audience:      TestAudience,
		SigningAlg:    "RS256",
		ClockSkew:     time.Minute,
		WriteScope:    TestWriteScope,
	}
}

// Keyfunc resolves the issuer's public key for tokens carrying its key ID.
func (ti *TestIssuer) Keyfunc(token *jwt.Token) (interface{}, error) {
	if kid, _ := token.Header["kid"].(string); kid != ti.KeyID {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return &ti.Key.PublicKey, nil
}

// Verifier returns a TokenVerifier trusting this issuer.
func (ti *TestIssuer) Verifier(t *testing.T) TokenVerifier {
	t.Helper()
	v, err := NewJWTVerifier(ti.AuthConfig(), ti.Keyfunc)
	require.NoError(t, err, "Failed to create verifier")
	return v
}

// TokenOption customizes the claims of a token signed by TestIssuer.
type TokenOption func(claims jwt.MapClaims)

// WithScopes sets the space-delimited scope claim.
func WithScopes(scopes ...string) TokenOption {
	return func(claims jwt.MapClaims) {
		claims["scope"] = strings.Join(scopes, " ")
	}
}

// WithClaim sets an arbitrary claim, or removes it when value is nil.
func WithClaim(name string, value interface{}) TokenOption {
	return func(claims jwt.MapClaims) {
		if value == nil {
			delete(claims, name)
			return
		}
		claims[name] = value
	}
}

// Token signs a valid RS256 token for subject, then applies opts.
func (ti *TestIssuer) Token(t *testing.T, subject string, opts ...TokenOption) string {
	t.Helper()
	now := ti.Now()
	claims := jwt.MapClaims{
		"iss": TestIssuerURL,
		"aud": TestAudience,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"jti": uuid.NewString(),
	}
	for _, opt := range opts {
		opt(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = ti.KeyID
	signed, err := token.SignedString(ti.Key)
	require.NoError(t, err, "Failed to sign token")
	return signed
}

// AuthHeader returns a Bearer Authorization header value for Token.
func (ti *TestIssuer) AuthHeader(t *testing.T, subject string, opts ...TokenOption) string {
	t.Helper()
	return "Bearer " + ti.Token(t, subject, opts...)
}
