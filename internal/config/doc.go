// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional config
// file. It provides type-safe access to the settings needed by the server,
// the store backends and the token verifier.
package config
