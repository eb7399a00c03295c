package auth

import "errors"

// Common authentication service errors
var (
	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidToken indicates the token format, signature, issuer or audience is invalid
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrInsufficientScope indicates a valid token lacks a required capability
	ErrInsufficientScope = errors.New("insufficient scope")
)
