// Package config loads the budgetd configuration from a YAML file.
//
// Environment references in the file (${DATABASE_URL} or $SENTRY_DSN)
// are expanded before parsing, so secrets stay out of the file itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/budgetd/internal/identity"
	"github.com/dmitrymomot/budgetd/pkg/db"
	"github.com/dmitrymomot/budgetd/pkg/logger"
)

// ErrMissingDatabaseURL is returned when the postgres store is selected
// without a database URL.
var ErrMissingDatabaseURL = errors.New("config: database.url is required for the postgres store")

// Store backend selection.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config is the root budgetd configuration.
type Config struct {
	Server   ServerConfig        `yaml:"server"`
	Database db.Config           `yaml:"database"`
	Redis    RedisConfig         `yaml:"redis"`
	Session  SessionConfig       `yaml:"session"`
	Sweep    SweepConfig         `yaml:"sweep"`
	Identity IdentityConfig      `yaml:"identity"`
	Sentry   logger.SentryConfig `yaml:"sentry"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds the Redis connection URL.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// SessionConfig holds session policy settings.
type SessionConfig struct {
	// Store selects the backend: postgres, redis, or memory.
	Store string `yaml:"store"`

	// TTL is the session lifetime.
	TTL time.Duration `yaml:"ttl"`

	// TokenLength is the bearer token length in characters.
	TokenLength int `yaml:"token_length"`

	// SlidingExpiration extends the expiration on each successful
	// validation. Disable for fixed-window sessions.
	SlidingExpiration bool `yaml:"sliding_expiration"`
}

// SweepConfig holds the expired-session sweep schedule.
type SweepConfig struct {
	// Schedule is a five-field cron expression. Default: every 6 hours.
	Schedule string `yaml:"schedule"`
}

// IdentityConfig holds the static user list used when no database
// backs the login endpoint. Ignored when the postgres store is active.
type IdentityConfig struct {
	Users []identity.StaticUser `yaml:"users"`
}

// Default returns a configuration with production defaults applied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: db.DefaultConfig(),
		Session: SessionConfig{
			Store:             StorePostgres,
			TTL:               14 * 24 * time.Hour,
			TokenLength:       255,
			SlidingExpiration: true,
		},
		Sweep: SweepConfig{
			Schedule: "0 */6 * * *",
		},
		Sentry: logger.SentryConfig{
			Environment: "production",
		},
	}
}

// Load reads a YAML file, expands environment references, and overlays
// it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Session.Store == StorePostgres && c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}
