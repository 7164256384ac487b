// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/metrics"
)

// Pinger checks that the ride data source is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SourceMonitor pings the data source on an interval, publishes the result
// as the source_up gauge and logs connectivity changes.
type SourceMonitor struct {
	pinger   Pinger
	backend  string
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	// up is owned by the Serve goroutine.
	up *bool
}

// NewSourceMonitor creates a monitor that pings every interval.
func NewSourceMonitor(pinger Pinger, backend string, interval time.Duration) *SourceMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := 5 * time.Second
	if timeout > interval {
		timeout = interval
	}
	return &SourceMonitor{
		pinger:   pinger,
		backend:  backend,
		interval: interval,
		timeout:  timeout,
		logger:   logging.WithComponent("source-monitor").With().Str("backend", backend).Logger(),
	}
}

// Serve implements suture.Service.
func (m *SourceMonitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check pings once and reports whether the source answered.
func (m *SourceMonitor) check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.pinger.Ping(pingCtx)
	cancel()

	up := err == nil
	value := 0.0
	if up {
		value = 1
	}
	metrics.SourceUp.WithLabelValues(m.backend).Set(value)

	if m.up == nil || *m.up != up {
		if up {
			m.logger.Info().Msg("Ride data source reachable")
		} else if ctx.Err() == nil {
			m.logger.Warn().Err(err).Msg("Ride data source unreachable")
		}
	}
	m.up = &up
	return up
}

// String names the service in supervisor logs.
func (m *SourceMonitor) String() string {
	return "source-monitor-" + m.backend
}
