// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tomtom215/stationexplorer/internal/logging"
)

// identifierPattern matches plain or schema-qualified SQL table names.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// maxLimit mirrors the engine's upper bound on limits.
const maxLimit = 1000

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateTables(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	switch c.Source.Selection {
	case SelectionCascade, SelectionPopular:
	default:
		return fmt.Errorf("STATION_SELECTION must be %q or %q, got %q", SelectionCascade, SelectionPopular, c.Source.Selection)
	}

	switch c.Source.Backend {
	case BackendDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when SOURCE_BACKEND=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
		}
	case BackendClickHouse:
		if len(c.ClickHouse.Addr) == 0 {
			return fmt.Errorf("CLICKHOUSE_ADDR is required when SOURCE_BACKEND=clickhouse")
		}
		if c.ClickHouse.Database == "" {
			return fmt.Errorf("CLICKHOUSE_DATABASE is required when SOURCE_BACKEND=clickhouse")
		}
		if c.ClickHouse.DialTimeout <= 0 {
			return fmt.Errorf("CLICKHOUSE_DIAL_TIMEOUT must be positive")
		}
	case BackendSnapshot:
		if c.Snapshot.RidesPath == "" {
			return fmt.Errorf("SNAPSHOT_RIDES_PATH is required when SOURCE_BACKEND=snapshot")
		}
		if c.Source.Selection == SelectionCascade && c.Snapshot.StationsPath == "" {
			return fmt.Errorf("SNAPSHOT_STATIONS_PATH is required for cascade selection")
		}
	default:
		return fmt.Errorf("SOURCE_BACKEND must be one of duckdb, clickhouse, snapshot; got %q", c.Source.Backend)
	}
	return nil
}

func (c *Config) validateTables() error {
	if !identifierPattern.MatchString(c.Tables.Rides) {
		return fmt.Errorf("RIDES_TABLE %q is not a valid table name", c.Tables.Rides)
	}
	if !identifierPattern.MatchString(c.Tables.Stations) {
		return fmt.Errorf("STATIONS_TABLE %q is not a valid table name", c.Tables.Stations)
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.Timeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if err := validateLimit("TOP_DESTINATIONS", c.Query.TopLimit); err != nil {
		return err
	}
	if err := validateLimit("POPULAR_STATIONS", c.Query.PopularLimit); err != nil {
		return err
	}
	if err := validateLimit("DASHBOARD_TABLE_ROWS", c.Query.TableRows); err != nil {
		return err
	}
	if c.Query.TableRows > c.Query.TopLimit {
		return fmt.Errorf("DASHBOARD_TABLE_ROWS (%d) cannot exceed TOP_DESTINATIONS (%d)", c.Query.TableRows, c.Query.TopLimit)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

func validateLimit(name string, v int) error {
	if v < 1 || v > maxLimit {
		return fmt.Errorf("%s must be between 1 and %d, got %d", name, maxLimit, v)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production; got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
