// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package warehouse implements stats.Source over a SQL ride warehouse.
//
// One Store serves both the embedded DuckDB database and a remote ClickHouse
// cluster; a Dialect supplies the handful of expressions that differ. Every
// query runs through a circuit breaker, is timed into Prometheus and binds
// station names and limits as parameters.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/metrics"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

const defaultQueryTimeout = 30 * time.Second

// Store answers the stats.Source queries against a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	tables  config.TablesConfig
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds every query.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Store. Table names must already be validated identifiers.
func New(db *sql.DB, dialect Dialect, tables config.TablesConfig, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		tables:  tables,
		breaker: newBreaker("warehouse-" + dialect.Name()),
		timeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the dialect name.
func (s *Store) Backend() string {
	return s.dialect.Name()
}

// Ping checks the warehouse connection. It bypasses the breaker so health
// checks keep reporting while the circuit is open.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// run executes fn through the breaker with the query timeout applied and
// wraps any failure as a stats.DataAccessError.
func run[T any](ctx context.Context, s *Store, name string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, stats.NewDataAccessError(s.op(name), err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	metrics.RecordQuery(s.dialect.Name(), name, time.Since(start), err)
	recordBreakerResult(s.breaker.Name(), err)

	if err != nil {
		return zero, stats.NewDataAccessError(s.op(name), err)
	}
	typed, ok := result.(T)
	if !ok {
		return zero, stats.NewDataAccessError(s.op(name), fmt.Errorf("unexpected result type %T", result))
	}
	return typed, nil
}

func (s *Store) op(name string) string {
	return s.dialect.Name() + "." + name
}

// scanRows applies scan to each row and closes rows.
func scanRows(rows *sql.Rows, scan func(*sql.Rows) error) error {
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}
	return rows.Err()
}
