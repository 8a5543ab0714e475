package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"         validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database"       validate:"required"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Categorization CategorizationConfig `mapstructure:"categorization"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	// CORSOrigins is a comma-separated list of allowed origins.
	CORSOrigins            string `mapstructure:"cors_origins"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a Postgres connection string, or a file path for sqlite.
	URL         string `mapstructure:"url"           validate:"required"`
	PoolMinSize int    `mapstructure:"pool_min_size" validate:"gte=0"`
	PoolMaxSize int    `mapstructure:"pool_max_size" validate:"gte=1,gtefield=PoolMinSize"`
}

// CacheConfig configures the optional Redis read-through cache.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL   string `mapstructure:"redis_url"   validate:"omitempty,url"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=1"`
}

// CategorizationConfig selects the categorization strategy by key.
// Unrecognized keys fall back to the keyword strategy.
type CategorizationConfig struct {
	Strategy string `mapstructure:"strategy"`
}
