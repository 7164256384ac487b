// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"context"
	"time"

	"github.com/tomtom215/stationexplorer/internal/cache"
	"github.com/tomtom215/stationexplorer/internal/presenter"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

// Pinger checks that the ride data source is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStats reports query cache statistics for the health endpoint.
type CacheStats interface {
	GetStats() cache.Stats
	HitRate() float64
}

// HandlerConfig carries the values handlers need beyond their collaborators.
type HandlerConfig struct {
	Version      string
	Backend      string
	TopLimit     int // default destination limit
	PopularLimit int // default flat list size
}

// Handler serves the station explorer API.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness, readiness and health
//   - handlers_stats.go: per-station aggregations
//   - handlers_stations.go: period, station lists and the dashboard
type Handler struct {
	engine    *stats.Engine
	builder   *presenter.Builder
	pinger    Pinger
	cache     CacheStats
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler. pinger may be nil for sources that are
// always reachable, such as an in-memory snapshot.
func NewHandler(engine *stats.Engine, builder *presenter.Builder, pinger Pinger, cfg HandlerConfig) *Handler {
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = stats.DefaultTopLimit
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = stats.DefaultPopularLimit
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		engine:    engine,
		builder:   builder,
		pinger:    pinger,
		config:    cfg,
		startTime: time.Now(),
	}
}

// WithCache makes the health endpoint report the statistics of c.
func (h *Handler) WithCache(c CacheStats) *Handler {
	h.cache = c
	return h
}
