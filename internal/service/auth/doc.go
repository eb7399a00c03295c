// Package auth verifies the bearer tokens that gate the write endpoints.
// Tokens are issued by an external OAuth2 authorization server; this package
// only checks them against the issuer's published keys and exposes the
// resulting claims, including the granted scopes.
package auth
