// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/models"
)

// InsertRides loads rides in a single transaction. Either every ride is
// written or none is.
func (db *DB) InsertRides(ctx context.Context, rides []models.RideEvent) error {
	if len(rides) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(ride_id, started_at, ended_at, start_station_name, end_station_name)
		VALUES (?, ?, ?, ?, ?)`, db.tables.Rides)

	return db.inTx(ctx, query, func(stmt *sql.Stmt) error {
		for i := range rides {
			r := &rides[i]
			if _, err := stmt.ExecContext(ctx,
				r.RideID,
				r.StartedAt.UTC(),
				nullableTime(r),
				r.StartStationName,
				nullableString(r.EndStationName),
			); err != nil {
				return fmt.Errorf("failed to insert ride %s: %w", r.RideID, err)
			}
		}
		logging.Debug().Int("rides", len(rides)).Msg("Inserted rides")
		return nil
	})
}

// InsertStations loads the station directory in a single transaction.
func (db *DB) InsertStations(ctx context.Context, stations []models.Station) error {
	if len(stations) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (station_name, borough, neighborhood) VALUES (?, ?, ?)`,
		db.tables.Stations)

	return db.inTx(ctx, query, func(stmt *sql.Stmt) error {
		for _, s := range stations {
			if _, err := stmt.ExecContext(ctx, s.Name, s.Borough, s.Neighborhood); err != nil {
				return fmt.Errorf("failed to insert station %s: %w", s.Name, err)
			}
		}
		logging.Debug().Int("stations", len(stations)).Msg("Inserted stations")
		return nil
	})
}

// CountRides returns the number of rows in the rides table.
func (db *DB) CountRides(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", db.tables.Rides)
	if err := db.conn.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rides: %w", err)
	}
	return n, nil
}

// inTx prepares query inside a transaction and hands the statement to fn.
// The transaction commits only if fn succeeds.
func (db *DB) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) (err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	if err = fn(stmt); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullableTime returns the end time or an untyped nil so the driver binds NULL.
func nullableTime(r *models.RideEvent) any {
	if r.EndedAt == nil {
		return nil
	}
	return r.EndedAt.UTC()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
