// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/stationexplorer/internal/api"
	"github.com/tomtom215/stationexplorer/internal/cache"
	"github.com/tomtom215/stationexplorer/internal/clickhouse"
	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/database"
	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/snapshot"
	"github.com/tomtom215/stationexplorer/internal/stats"
	"github.com/tomtom215/stationexplorer/internal/warehouse"
)

// rideSource is the configured stats.Source together with its lifecycle.
type rideSource struct {
	source stats.Source
	pinger api.Pinger   // nil for the snapshot backend
	cache  *cache.Cache // nil when caching is disabled
	closer func()
}

func (s *rideSource) close() {
	if s.closer != nil {
		s.closer()
	}
}

// openSource connects the configured backend and, when enabled, puts the
// query cache in front of it.
func openSource(ctx context.Context, cfg *config.Config) (*rideSource, error) {
	var (
		src *rideSource
		err error
	)
	switch cfg.Source.Backend {
	case config.BackendDuckDB:
		src, err = openDuckDB(ctx, cfg)
	case config.BackendClickHouse:
		src, err = openClickHouse(ctx, cfg)
	case config.BackendSnapshot:
		src, err = openSnapshot(cfg)
	default:
		err = fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		c := cache.New(cfg.Cache.TTL, cache.WithName("source"))
		inner := src.closer
		src.closer = func() {
			c.Close()
			if inner != nil {
				inner()
			}
		}
		src.source = stats.NewCachedSource(src.source, c)
		src.cache = c
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Query cache enabled")
	}
	return src, nil
}

func openDuckDB(ctx context.Context, cfg *config.Config) (*rideSource, error) {
	db, err := database.New(&cfg.Database, cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}

	if cfg.Database.SeedMockData {
		if err := db.SeedMockData(ctx); err != nil {
			closeDB()
			return nil, fmt.Errorf("failed to seed mock data: %w", err)
		}
	}

	store, err := newStore(db.Conn(), cfg)
	if err != nil {
		closeDB()
		return nil, err
	}
	return &rideSource{source: store, pinger: store, closer: closeDB}, nil
}

func openClickHouse(ctx context.Context, cfg *config.Config) (*rideSource, error) {
	client, err := clickhouse.Open(ctx, &cfg.ClickHouse, cfg.Tables)
	if err != nil {
		return nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ClickHouse connection")
		}
	}

	if err := client.CreateSchema(ctx); err != nil {
		closeClient()
		return nil, err
	}

	store, err := newStore(client.DB(), cfg)
	if err != nil {
		closeClient()
		return nil, err
	}
	return &rideSource{source: store, pinger: store, closer: closeClient}, nil
}

// newStore wraps a SQL handle in the warehouse dialect of the configured backend.
func newStore(db *sql.DB, cfg *config.Config) (*warehouse.Store, error) {
	dialect, err := warehouse.DialectFor(cfg.Source.Backend)
	if err != nil {
		return nil, err
	}
	return warehouse.New(db, dialect, cfg.Tables, warehouse.WithTimeout(cfg.Query.Timeout)), nil
}

func openSnapshot(cfg *config.Config) (*rideSource, error) {
	table, err := snapshot.Open(cfg.Snapshot.RidesPath, cfg.Snapshot.StationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	logging.Info().Int("rides", table.Len()).Str("path", cfg.Snapshot.RidesPath).Msg("Snapshot loaded")
	return &rideSource{source: table}, nil
}
