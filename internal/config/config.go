// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// The only required setting is the MotherDuck token (MOTHERDUCK_TOKEN)
// unless a local database path is configured instead.
//
// Thread Safety: Config is immutable after Load() and safe for concurrent
// read access from multiple goroutines.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Wikidata WikidataConfig `koanf:"wikidata"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB / MotherDuck connection settings.
//
// By default the server connects to a hosted MotherDuck database using
// a DSN of the form "md:<database>?motherduck_token=<token>". Setting
// Path overrides this with a local DuckDB file (or ":memory:"), which
// is what the tests use.
//
// Environment Variables:
//   - MOTHERDUCK_TOKEN: MotherDuck service token (required unless Path is set)
//   - MOTHERDUCK_DATABASE: Database name (default: nyt_bestsellers)
//   - DUCKDB_PATH: Local database path override
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
type DatabaseConfig struct {
	Token     string `koanf:"token"`
	Database  string `koanf:"database"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads limits DuckDB worker threads. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds pagination and response limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting, CORS, and image proxy settings.
//
// ImageHosts is the allow-list of hosts the /api/image proxy will fetch
// from. Requests for any other host are rejected with 403.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	ImageHosts        []string      `koanf:"image_hosts"`
	// AdminToken guards the mutating /api/admin endpoints. Empty disables them.
	AdminToken string `koanf:"admin_token"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
	MaxSize int           `koanf:"max_size"`
}

// WikidataConfig holds SPARQL endpoint settings for series enrichment.
type WikidataConfig struct {
	Endpoint  string        `koanf:"endpoint"`
	UserAgent string        `koanf:"user_agent"`
	BatchSize int           `koanf:"batch_size"`
	Delay     time.Duration `koanf:"delay"`
	Timeout   time.Duration `koanf:"timeout"`
}

// LoggingConfig holds log level and format settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or inconsistent values.
// It does not check for a database token; connection config is validated
// lazily by the database package so that health endpoints can report a
// configuration error instead of the process refusing to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api default page size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api max page size %d is below default page size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	for _, host := range c.Security.ImageHosts {
		if strings.ContainsAny(host, "/:@ ") {
			return fmt.Errorf("image host %q must be a bare hostname", host)
		}
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when cache is enabled, got %s", c.Cache.TTL)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (expected json or console)", c.Logging.Format)
	}

	return nil
}

// HasDatabaseConfig reports whether enough configuration is present to
// open a database connection (either a local path or a MotherDuck token).
func (c *Config) HasDatabaseConfig() bool {
	return c.Database.Path != "" || c.Database.Token != ""
}
