package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig controls the optional task read cache. When Enabled is false
// the service talks straight to the store with no behavioral difference.
// With Enabled true and a RedisAddr set, Redis backs the cache; without a
// RedisAddr an in-process expirable LRU is used instead.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RedisAddr  string `mapstructure:"redis_addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`
	LRUSize    int    `mapstructure:"lru_size"    validate:"omitempty,gt=0"`
}

// RateLimitConfig controls per-principal admission quotas. Separate, stricter
// quotas apply to the authentication endpoints.
type RateLimitConfig struct {
	RequestsPerWindow     int    `mapstructure:"requests_per_window"      validate:"omitempty,gt=0"`
	AuthRequestsPerWindow int    `mapstructure:"auth_requests_per_window" validate:"omitempty,gt=0"`
	WindowSeconds         int    `mapstructure:"window_seconds"           validate:"omitempty,gt=0"`
	RedisAddr             string `mapstructure:"redis_addr"`
}
