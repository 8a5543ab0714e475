package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/smart-todo-api/internal/cache"
	"github.com/phrazzld/smart-todo-api/internal/categorize"
	"github.com/phrazzld/smart-todo-api/internal/config"
	"github.com/phrazzld/smart-todo-api/internal/platform/postgres"
	"github.com/phrazzld/smart-todo-api/internal/platform/sqlite"
	"github.com/phrazzld/smart-todo-api/internal/service"
	"github.com/phrazzld/smart-todo-api/internal/store"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Storage handles; which ones are set depends on database.driver.
	pool   *pgxpool.Pool
	db     *sql.DB
	gormDB *gorm.DB
	redis  *redis.Client

	taskStore   store.TaskStore
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// On error everything opened so far is closed again.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.openTaskStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	if cfg.Cache.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = rdb
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		app.taskStore = cache.NewCachingTaskStore(app.taskStore, cache.NewTaskCache(rdb, ttl), logger)
		logger.Info("Redis task cache enabled", "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	strategyKey := cfg.Categorization.Strategy
	if !categorize.IsKnown(strategyKey) {
		logger.Warn("unknown categorization strategy, using default",
			"configured_strategy", strategyKey,
			"default_strategy", categorize.DefaultKey,
			"known_strategies", categorize.Keys())
	}
	app.taskService = service.NewTaskService(app.taskStore, categorize.New(strategyKey), logger)

	return app, nil
}

// openTaskStore opens the configured database and builds the matching store.
func (app *application) openTaskStore(ctx context.Context) error {
	switch app.config.Database.Driver {
	case "sqlite":
		gormDB, err := sqlite.Open(app.config.Database, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		app.gormDB = gormDB
		app.taskStore = sqlite.NewTaskStore(gormDB, app.logger)
		app.logger.Info("SQLite task store initialized")

	default:
		pool, err := postgres.NewPool(ctx, app.config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.pool = pool
		app.db = postgres.OpenDB(pool)
		app.taskStore = postgres.NewPostgresTaskStore(app.db, app.logger)
		app.logger.Info("PostgreSQL task store initialized",
			"pool_min_size", app.config.Database.PoolMinSize,
			"pool_max_size", app.config.Database.PoolMaxSize)
	}
	return nil
}

// cleanup releases every resource the application holds. It is safe to
// call on a partially initialized application.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database handle", "error", err)
		}
	}
	if app.pool != nil {
		app.pool.Close()
	}
	if app.gormDB != nil {
		if err := sqlite.Close(app.gormDB); err != nil {
			app.logger.Error("failed to close sqlite database", "error", err)
		}
	}
}
