package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TODO_DATABASE_URL or TODO_SERVER_PORT.
const EnvPrefix = "TODO"

// defaults registers every key so that environment variables are picked up
// by Unmarshal even when no config file mentions them.
var defaults = map[string]any{
	"server.port":                     8000,
	"server.log_level":                "info",
	"server.log_format":               "json",
	"server.cors_origins":             "http://localhost:5173",
	"server.shutdown_timeout_seconds": 10,
	"database.driver":                 "postgres",
	"database.url":                    "",
	"database.pool_min_size":          10,
	"database.pool_max_size":          20,
	"cache.redis_url":                 "",
	"cache.ttl_seconds":               60,
	"categorization.strategy":         "keyword",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the config file at path when path is
// not empty. Without a path it looks for config.yaml in the working
// directory and silently continues when none exists.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Origins splits CORSOrigins into trimmed, non-empty entries.
func (c ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
