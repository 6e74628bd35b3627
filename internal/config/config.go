// Package config provides process configuration read from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-level options. User preferences live in the
// persisted record, not here.
type Config struct {
	Storage        string        `env:"POMOPET_STORAGE"          envDefault:"yaml"`
	DataDir        string        `env:"POMOPET_DATA_DIR"`
	LogLevel       string        `env:"POMOPET_LOG_LEVEL"        envDefault:"info"`
	LogFormat      string        `env:"POMOPET_LOG_FORMAT"       envDefault:"text"`
	TickInterval   time.Duration `env:"POMOPET_TICK_INTERVAL"    envDefault:"1s"`
	LevelUpDisplay time.Duration `env:"POMOPET_LEVEL_UP_DISPLAY" envDefault:"3s"`
}

// Load reads an optional .env file, then parses and validates the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Storage {
	case "yaml", "sqlite":
	default:
		return fmt.Errorf("POMOPET_STORAGE must be yaml or sqlite, got %q", c.Storage)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("POMOPET_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("POMOPET_TICK_INTERVAL must be > 0")
	}
	if c.LevelUpDisplay <= 0 {
		return fmt.Errorf("POMOPET_LEVEL_UP_DISPLAY must be > 0")
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("POMOPET_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger described by the configuration.
func (c *Config) NewLogger() *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	options := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, options))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, options))
}
