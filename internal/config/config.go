// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package config loads and validates the application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables, with environment variables winning.
package config

import (
	"fmt"
	"time"

	"github.com/stratonov777/my-library/internal/auth"
	"github.com/stratonov777/my-library/internal/backup"
	"github.com/stratonov777/my-library/internal/logging"
	"github.com/stratonov777/my-library/internal/recommend"
	"github.com/stratonov777/my-library/internal/store"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Store     store.Config     `koanf:"store"`
	Logging   logging.Config   `koanf:"logging"`
	Auth      auth.Config      `koanf:"auth"`
	Recommend recommend.Config `koanf:"recommend"`
	Browse    BrowseConfig     `koanf:"browse"`
	Backup    backup.Config    `koanf:"backup"`
	Security  SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// StaticDir is the frontend bundle directory. Empty disables static
	// serving.
	StaticDir string `koanf:"static_dir"`
}

// BrowseConfig tunes the shelf browsing pipeline.
type BrowseConfig struct {
	// Lang is the BCP 47 tag used for collation when sorting titles and
	// filter options. Default: ru.
	Lang string `koanf:"lang"`
}

// SecurityConfig holds CORS and rate-limit settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Auth.Enabled {
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("auth.password_hash is required when auth is enabled")
		}
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
		}
	}

	if c.Recommend.Limit < 0 {
		return fmt.Errorf("recommend.limit must not be negative, got %d", c.Recommend.Limit)
	}
	if c.Backup.Enabled && c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir must not be empty when backups are enabled")
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}

	return nil
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
