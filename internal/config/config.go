package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Store    StoreConfig    `mapstructure:"store"    validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	// RateLimit is the sustained requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

// StoreConfig selects the document store backing the book gateway.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres redis memory"`
}

// DatabaseConfig contains all PostgreSQL-related configuration settings.
// Only consulted when the store driver is postgres.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig contains Redis connection settings.
// Only consulted when the store driver is redis.
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AuthConfig contains the settings used to verify bearer tokens issued by
// the external authorization server.
type AuthConfig struct {
	IssuerBaseURL string        `mapstructure:"issuer_base_url" validate:"required,url"`
	Audience      string        `mapstructure:"audience"        validate:"required"`
	SigningAlg    string        `mapstructure:"signing_alg"     validate:"required,oneof=RS256 RS384 RS512 PS256 PS384 PS512 ES256 ES384 ES512"`
	ClockSkew     time.Duration `mapstructure:"clock_skew"      validate:"gte=0"`
	WriteScope    string        `mapstructure:"write_scope"     validate:"required"`
}

// JWKSURL returns the location of the issuer's published signing keys.
func (a AuthConfig) JWKSURL() string {
	base := a.IssuerBaseURL
	if len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/.well-known/jwks.json"
}
