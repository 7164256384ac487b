// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the ride and station tables if they do not exist.
// Table names come from validated configuration, never from requests.
func (db *DB) CreateSchema(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ride_id VARCHAR PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			start_station_name VARCHAR,
			end_station_name VARCHAR
		)`, db.tables.Rides),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_start_station ON %s(start_station_name)`,
			db.tables.Rides, db.tables.Rides),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			station_name VARCHAR NOT NULL,
			borough VARCHAR NOT NULL,
			neighborhood VARCHAR NOT NULL
		)`, db.tables.Stations),
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
