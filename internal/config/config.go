// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package config loads Station Explorer configuration.
//
// Values are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then explicitly mapped environment variables.
// Configuration is passed by value into the components that need it; there is
// no process-wide configuration singleton.
package config

import "time"

// Backends for the ride-event source.
const (
	BackendDuckDB     = "duckdb"
	BackendClickHouse = "clickhouse"
	BackendSnapshot   = "snapshot"
)

// Station selection modes.
const (
	SelectionCascade = "cascade"
	SelectionPopular = "popular"
)

// Config is the full application configuration.
type Config struct {
	Source     SourceConfig     `koanf:"source"`
	Database   DatabaseConfig   `koanf:"database"`
	ClickHouse ClickHouseConfig `koanf:"clickhouse"`
	Snapshot   SnapshotConfig   `koanf:"snapshot"`
	Tables     TablesConfig     `koanf:"tables"`
	Query      QueryConfig      `koanf:"query"`
	Cache      CacheConfig      `koanf:"cache"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// SourceConfig selects where rides come from and how stations are picked.
type SourceConfig struct {
	Backend   string `koanf:"backend"`   // duckdb, clickhouse or snapshot
	Selection string `koanf:"selection"` // cascade (borough/neighborhood/station) or popular (flat top list)
}

// DatabaseConfig holds embedded DuckDB settings.
type DatabaseConfig struct {
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`        // 0 = use NumCPU
	SeedMockData bool   `koanf:"seed_mock_data"` // fill an empty database with a deterministic demo dataset
	ReadOnly     bool   `koanf:"read_only"`
}

// ClickHouseConfig holds remote ClickHouse warehouse settings.
type ClickHouseConfig struct {
	Addr         []string      `koanf:"addr"`
	Database     string        `koanf:"database"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	MaxOpenConns int           `koanf:"max_open_conns"`
}

// SnapshotConfig points at the CSV snapshot files.
type SnapshotConfig struct {
	RidesPath    string `koanf:"rides_path"`
	StationsPath string `koanf:"stations_path"`
}

// TablesConfig names the warehouse tables.
type TablesConfig struct {
	Rides    string `koanf:"rides"`
	Stations string `koanf:"stations"`
}

// QueryConfig bounds source queries and result sizes.
type QueryConfig struct {
	Timeout      time.Duration `koanf:"timeout"`
	TopLimit     int           `koanf:"top_limit"`     // destinations computed per station
	PopularLimit int           `koanf:"popular_limit"` // stations in the flat list
	TableRows    int           `koanf:"table_rows"`    // destinations shown on the dashboard
}

// CacheConfig holds the query cache freshness window.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
