// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package database manages the embedded DuckDB ride store.
//
// It owns the connection, the ride and station tables, bulk loading and the
// deterministic demo seed. Analytical reads go through internal/warehouse,
// which takes the *sql.DB returned by Conn.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/logging"
)

const memoryPath = ":memory:"

// DB wraps the DuckDB connection pool.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	tables config.TablesConfig
}

// New opens (or creates) the DuckDB database described by cfg and, unless the
// database is read-only, ensures the ride and station tables exist.
func New(cfg *config.DatabaseConfig, tables config.TablesConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != memoryPath {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." && !cfg.ReadOnly {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	accessMode := "read_write"
	if cfg.ReadOnly && cfg.Path != memoryPath {
		accessMode = "read_only"
	}

	connStr := fmt.Sprintf("%s?access_mode=%s&threads=%d", cfg.Path, accessMode, numThreads)
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		tables: tables,
	}

	db.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if accessMode == "read_write" {
		if err := db.CreateSchema(ctx); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	logging.Info().
		Str("path", cfg.Path).
		Str("access_mode", accessMode).
		Int("threads", numThreads).
		Msg("DuckDB database opened")

	return db, nil
}

// configureConnectionPool sizes the pool for a read-heavy analytical workload.
// An in-memory database is private to a connection, so it is pinned to one.
func (db *DB) configureConnectionPool() {
	if db.cfg.Path == memoryPath {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		db.conn.SetConnMaxLifetime(0)
		return
	}
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Tables returns the configured table names.
func (db *DB) Tables() config.TablesConfig {
	return db.tables
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the write-ahead log into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// Close checkpoints a writable file database and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if !db.cfg.ReadOnly && db.cfg.Path != memoryPath {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// ensureContext applies a 30 second deadline when ctx has none.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 30*time.Second)
}
