// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty
// directory so no stray config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Source.Backend != BackendDuckDB {
		t.Errorf("Source.Backend = %q, want duckdb", cfg.Source.Backend)
	}
	if cfg.Source.Selection != SelectionCascade {
		t.Errorf("Source.Selection = %q, want cascade", cfg.Source.Selection)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
	}
	if cfg.Query.TopLimit != 20 || cfg.Query.PopularLimit != 20 || cfg.Query.TableRows != 5 {
		t.Errorf("unexpected query limits %+v", cfg.Query)
	}
	if cfg.Tables.Rides != "rides" || cfg.Tables.Stations != "stations" {
		t.Errorf("unexpected table names %+v", cfg.Tables)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"SOURCE_BACKEND":  "source.backend",
		"DUCKDB_PATH":     "database.path",
		"CLICKHOUSE_ADDR": "clickhouse.addr",
		"CACHE_TTL":       "cache.ttl",
		"HTTP_PORT":       "server.port",
		"LOG_LEVEL":       "logging.level",
		"HOME":            "",
		"PATH":            "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("SOURCE_BACKEND", "clickhouse")
	t.Setenv("CLICKHOUSE_ADDR", "ch-1:9000, ch-2:9000")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Source.Backend != BackendClickHouse {
		t.Errorf("Source.Backend = %q", cfg.Source.Backend)
	}
	if !reflect.DeepEqual(cfg.ClickHouse.Addr, []string{"ch-1:9000", "ch-2:9000"}) {
		t.Errorf("ClickHouse.Addr = %v", cfg.ClickHouse.Addr)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
}

func TestLoadWithKoanfConfigFileAndEnvOverride(t *testing.T) {
	dir := isolate(t)
	content := `
source:
  backend: snapshot
  selection: popular
snapshot:
  rides_path: /srv/rides.csv
server:
  port: 8888
logging:
  level: warn
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Source.Backend != BackendSnapshot || cfg.Source.Selection != SelectionPopular {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Snapshot.RidesPath != "/srv/rides.csv" {
		t.Errorf("Snapshot.RidesPath = %q", cfg.Snapshot.RidesPath)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("env should override file: Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown backend", map[string]string{"SOURCE_BACKEND": "bigquery"}, "SOURCE_BACKEND"},
		{"bad selection", map[string]string{"STATION_SELECTION": "map"}, "STATION_SELECTION"},
		{"bad table name", map[string]string{"RIDES_TABLE": "rides; DROP TABLE x"}, "RIDES_TABLE"},
		{"zero limit", map[string]string{"TOP_DESTINATIONS": "0"}, "TOP_DESTINATIONS"},
		{"rows above limit", map[string]string{"TOP_DESTINATIONS": "3", "DASHBOARD_TABLE_ROWS": "5"}, "DASHBOARD_TABLE_ROWS"},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"snapshot without stations", map[string]string{"SOURCE_BACKEND": "snapshot", "SNAPSHOT_STATIONS_PATH": ""}, "SNAPSHOT_STATIONS_PATH"},
		{"bad environment", map[string]string{"ENVIRONMENT": "prod"}, "ENVIRONMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestTableNamePattern(t *testing.T) {
	for _, ok := range []string{"rides", "citibike.rides", "_rides_2023"} {
		if !identifierPattern.MatchString(ok) {
			t.Errorf("%q should be accepted", ok)
		}
	}
	for _, bad := range []string{"", "1rides", "rides`", "a.b.c", "rides--"} {
		if identifierPattern.MatchString(bad) {
			t.Errorf("%q should be rejected", bad)
		}
	}
}
