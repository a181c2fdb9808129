package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskwell/taskwell-api/internal/cache"
	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/events"
	"github.com/taskwell/taskwell-api/internal/notify"
	"github.com/taskwell/taskwell-api/internal/platform/postgres"
	"github.com/taskwell/taskwell-api/internal/ratelimit"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore
	taskCache cache.Cache

	// Service interfaces
	jwtService     auth.JWTService
	passwordHasher *auth.BcryptHasher
	taskService    service.TaskService

	// Admission control
	apiLimiter  ratelimit.Limiter
	authLimiter ratelimit.Limiter

	// Event system
	dispatcher *events.SyncDispatcher
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hashing
	app.passwordHasher = auth.NewBcryptHasher(0)

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// One Redis client serves both the cache and the limiter when either is
	// configured against Redis.
	app.redis, err = setupRedisClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Wrap the task store in the read cache when enabled.
	taskStore := app.taskStore
	app.taskCache = setupTaskCache(cfg, app.redis, logger)
	if app.taskCache != nil {
		taskStore, err = service.NewCachedTaskStore(app.taskStore, app.taskCache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize task cache: %w", err)
		}
	}

	// Initialize rate limiters
	app.apiLimiter, app.authLimiter = setupLimiters(cfg, app.redis)

	// Initialize event dispatcher and observers
	app.dispatcher = events.NewSyncDispatcher(logger)
	app.dispatcher.Register(notify.NewCompletionObserver(
		app.userStore,
		notify.NewLogNotifier(logger),
		logger,
	))

	// Initialize task service
	app.taskService, err = service.NewTaskService(taskStore, app.apiLimiter, app.dispatcher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRedisClient connects to Redis when the cache or the rate limiter is
// configured against it. Returns nil when neither needs Redis.
func setupRedisClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	addr := ""
	if cfg.Cache.Enabled && cfg.Cache.RedisAddr != "" {
		addr = cfg.Cache.RedisAddr
	}
	if cfg.RateLimit.RedisAddr != "" {
		addr = cfg.RateLimit.RedisAddr
	}
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("Redis connection established", "addr", addr)
	return client, nil
}

// setupTaskCache builds the cache backend selected by configuration, or nil
// when caching is disabled.
func setupTaskCache(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cfg.Cache.RedisAddr != "" && redisClient != nil {
		logger.Info("Task cache enabled", "backend", "redis", "ttl", ttl)
		return cache.NewRedisCache(redisClient, "taskwell", ttl)
	}

	logger.Info("Task cache enabled", "backend", "lru", "ttl", ttl, "size", cfg.Cache.LRUSize)
	return cache.NewLRUCache(cfg.Cache.LRUSize, ttl)
}

// setupLimiters builds the per-principal API limiter and the stricter
// per-client auth limiter from the shared rate limit configuration.
func setupLimiters(cfg *config.Config, redisClient *redis.Client) (ratelimit.Limiter, ratelimit.Limiter) {
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	if cfg.RateLimit.RedisAddr != "" && redisClient != nil {
		return ratelimit.NewRedisLimiter(redisClient, "ratelimit:api", cfg.RateLimit.RequestsPerWindow, window),
			ratelimit.NewRedisLimiter(redisClient, "ratelimit:auth", cfg.RateLimit.AuthRequestsPerWindow, window)
	}

	return ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerWindow, window),
		ratelimit.NewMemoryLimiter(cfg.RateLimit.AuthRequestsPerWindow, window)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if rc, ok := app.taskCache.(*cache.RedisCache); ok {
		stats := rc.GetStats()
		app.logger.Info("Task cache statistics",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"sets", stats.Sets,
			"deletes", stats.Deletes,
			"errors", stats.Errors)
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
