package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. BOOKS_SERVER_PORT or BOOKS_AUTH_AUDIENCE.
const EnvPrefix = "BOOKS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files. A .env
// file in the working directory, when present, is loaded into the process
// environment first without overriding variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/books-api")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v)
}

// decode unmarshals and validates the settings held by v.
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags and the store-specific
// requirements.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(storeSettingsValidation, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// storeSettingsValidation requires the connection URL of the selected driver.
func storeSettingsValidation(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Database.URL == "" {
			sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_for_driver", "postgres")
		}
	case "redis":
		if cfg.Redis.URL == "" {
			sl.ReportError(cfg.Redis.URL, "Redis.URL", "URL", "required_for_driver", "redis")
		}
	}
}

// setDefaults registers every key so that AutomaticEnv overrides are
// visible to Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 20)

	v.SetDefault("store.driver", "postgres")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key_prefix", "books")

	v.SetDefault("auth.issuer_base_url", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.signing_alg", "RS256")
	v.SetDefault("auth.clock_skew", time.Minute)
	v.SetDefault("auth.write_scope", "write:books")
}
