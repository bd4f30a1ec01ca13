// Package config loads Quester settings from an optional YAML file and
// QUESTER_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Library Library `yaml:"library"`
	Logging Logging `yaml:"logging"`
	MCP     MCP     `yaml:"mcp"`
}

// Server configures the HTTP API.
type Server struct {
	Port        int  `yaml:"port" env:"QUESTER_PORT"`
	Metrics     bool `yaml:"metrics" env:"QUESTER_METRICS"`
	MaxBodySize int  `yaml:"max_body_size" env:"QUESTER_MAX_BODY_SIZE"`
}

// Store selects and configures the game store.
type Store struct {
	Driver        string        `yaml:"driver" env:"QUESTER_STORE"`
	Path          string        `yaml:"path" env:"QUESTER_STORE_PATH"`
	RedisAddr     string        `yaml:"redis_addr" env:"QUESTER_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"QUESTER_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"QUESTER_REDIS_DB"`
	Prefix        string        `yaml:"prefix" env:"QUESTER_REDIS_PREFIX"`
	TTL           time.Duration `yaml:"ttl" env:"QUESTER_STORE_TTL"`
	LockTTL       time.Duration `yaml:"lock_ttl" env:"QUESTER_LOCK_TTL"`
}

// Library points at a directory of game documents loaded at startup.
type Library struct {
	Dir string `yaml:"dir" env:"QUESTER_LIBRARY"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" env:"QUESTER_LOG_LEVEL"`
	Format string `yaml:"format" env:"QUESTER_LOG_FORMAT"`
}

// MCP sets the identity the MCP server acts as.
type MCP struct {
	User  string `yaml:"user" env:"QUESTER_MCP_USER"`
	Admin bool   `yaml:"admin" env:"QUESTER_MCP_ADMIN"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: Server{Port: 8080, Metrics: true, MaxBodySize: 4096},
		Store: Store{
			Driver:    DriverMemory,
			RedisAddr: "localhost:6379",
			Prefix:    "quester:game:",
			LockTTL:   30 * time.Second,
		},
		Logging: Logging{Level: "info", Format: "text"},
		MCP:     MCP{User: "mcp"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	case DriverFile, DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store driver %q requires a path", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be positive")
	}
	if c.Store.LockTTL <= 0 {
		return fmt.Errorf("lock ttl must be positive")
	}
	return nil
}
