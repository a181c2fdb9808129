package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied before any config source is read.
const (
	defaultPort                  = 8080
	defaultLogLevel              = "info"
	defaultTokenLifetimeMinutes  = 60
	defaultCacheTTLSeconds       = 300
	defaultCacheLRUSize          = 1024
	defaultRequestsPerWindow     = 60
	defaultAuthRequestsPerWindow = 5
	defaultWindowSeconds         = 60
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the TASKWELL_ prefix with underscores
// for nesting (e.g. TASKWELL_DATABASE_URL, TASKWELL_AUTH_JWT_SECRET).
// Returns a populated Config struct or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_seconds", defaultCacheTTLSeconds)
	v.SetDefault("cache.lru_size", defaultCacheLRUSize)
	v.SetDefault("rate_limit.requests_per_window", defaultRequestsPerWindow)
	v.SetDefault("rate_limit.auth_requests_per_window", defaultAuthRequestsPerWindow)
	v.SetDefault("rate_limit.window_seconds", defaultWindowSeconds)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars alone may be sufficient.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TASKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults must be bound explicitly for AutomaticEnv to
	// surface them through Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"cache.redis_addr",
		"rate_limit.redis_addr",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
