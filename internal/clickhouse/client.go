// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package clickhouse connects to a remote ClickHouse ride warehouse.
//
// The connection is exposed as a *sql.DB so internal/warehouse can query it
// with the same Store it uses for DuckDB.
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/models"
)

// Client wraps a ClickHouse connection pool.
type Client struct {
	db     *sql.DB
	tables config.TablesConfig
}

// Open connects to the cluster and verifies the connection.
func Open(ctx context.Context, cfg *config.ClickHouseConfig, tables config.TablesConfig) (*Client, error) {
	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: cfg.Addr,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: cfg.DialTimeout,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	logging.Info().
		Strs("addr", cfg.Addr).
		Str("database", cfg.Database).
		Msg("Connected to ClickHouse")

	return &Client{db: db, tables: tables}, nil
}

// DB returns the underlying connection pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// CreateSchema creates the ride and station tables if they do not exist.
func (c *Client) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ride_id String,
			started_at DateTime64(6, 'UTC'),
			ended_at Nullable(DateTime64(6, 'UTC')),
			start_station_name Nullable(String),
			end_station_name Nullable(String)
		) ENGINE = MergeTree
		ORDER BY started_at`, c.tables.Rides),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			station_name String,
			borough String,
			neighborhood String
		) ENGINE = MergeTree
		ORDER BY station_name`, c.tables.Stations),
	}
	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create clickhouse schema: %w", err)
		}
	}
	return nil
}

// InsertRides sends rides as one batch.
func (c *Client) InsertRides(ctx context.Context, rides []models.RideEvent) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(ride_id, started_at, ended_at, start_station_name, end_station_name)`, c.tables.Rides)

	return c.batch(ctx, query, len(rides), func(stmt *sql.Stmt, i int) error {
		r := &rides[i]
		var ended, endStation any
		if r.EndedAt != nil {
			ended = r.EndedAt.UTC()
		}
		if r.EndStationName != nil {
			endStation = *r.EndStationName
		}
		_, err := stmt.ExecContext(ctx, r.RideID, r.StartedAt.UTC(), ended, r.StartStationName, endStation)
		return err
	})
}

// InsertStations sends the station directory as one batch.
func (c *Client) InsertStations(ctx context.Context, stations []models.Station) error {
	query := fmt.Sprintf(`INSERT INTO %s (station_name, borough, neighborhood)`, c.tables.Stations)

	return c.batch(ctx, query, len(stations), func(stmt *sql.Stmt, i int) error {
		s := stations[i]
		_, err := stmt.ExecContext(ctx, s.Name, s.Borough, s.Neighborhood)
		return err
	})
}

// batch appends n rows to a native ClickHouse batch; Commit sends it.
func (c *Client) batch(ctx context.Context, query string, n int, appendRow func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare batch: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if err := appendRow(stmt, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to append row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	logging.Debug().Int("rows", n).Msg("ClickHouse batch sent")
	return nil
}
