// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package main is the entry point of the Station Explorer server.
//
// Station Explorer answers "where do riders go from this station, how long do
// they ride and when?" for a bike share system. The server initializes in
// this order:
//
//  1. Configuration: defaults, optional config.yaml, then environment (Koanf v2)
//  2. Ride source: embedded DuckDB, remote ClickHouse or a CSV snapshot,
//     optionally behind a TTL query cache
//  3. Aggregation engine and dashboard builder
//  4. HTTP API under a suture supervisor tree, with a source monitor and
//     uptime gauge alongside
//
// # Configuration
//
// The backend is picked with SOURCE_BACKEND (duckdb, clickhouse, snapshot).
// A demo dataset is written to an empty DuckDB database when
// SEED_MOCK_DATA=true:
//
//	export SOURCE_BACKEND=duckdb
//	export DUCKDB_PATH=/data/rides.duckdb
//	export SEED_MOCK_DATA=true
//	./stationexplorer
//
// Against ClickHouse:
//
//	export SOURCE_BACKEND=clickhouse
//	export CLICKHOUSE_ADDR=clickhouse:9000
//	export CLICKHOUSE_DATABASE=citibike
//	./stationexplorer
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree; the HTTP server drains
// in-flight requests for up to SHUTDOWN_TIMEOUT before the source is
// closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/stationexplorer/internal/api"
	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/metrics"
	"github.com/tomtom215/stationexplorer/internal/presenter"
	"github.com/tomtom215/stationexplorer/internal/stats"
	"github.com/tomtom215/stationexplorer/internal/supervisor"
	"github.com/tomtom215/stationexplorer/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// sourceMonitorInterval is how often the data source is pinged.
const sourceMonitorInterval = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("backend", cfg.Source.Backend).
		Str("selection", cfg.Source.Selection).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Starting Station Explorer")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Station Explorer stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	startTime := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.close()

	metrics.AppInfo.WithLabelValues(version, runtime.Version(), cfg.Source.Backend).Set(1)

	engine := stats.NewEngine(src.source)
	builder := presenter.NewBuilder(engine, presenter.Options{
		Selection:    cfg.Source.Selection,
		TopLimit:     cfg.Query.TopLimit,
		PopularLimit: cfg.Query.PopularLimit,
		TableRows:    cfg.Query.TableRows,
	})

	handler := api.NewHandler(engine, builder, src.pinger, api.HandlerConfig{
		Version:      version,
		Backend:      cfg.Source.Backend,
		TopLimit:     cfg.Query.TopLimit,
		PopularLimit: cfg.Query.PopularLimit,
	})
	if src.cache != nil {
		handler.WithCache(src.cache)
	}
	router := api.NewRouter(handler, api.RouterOptions{
		Middleware:        api.ChiMiddlewareConfigFrom(cfg.Security),
		TrustProxyHeaders: len(cfg.Security.TrustedProxies) > 0,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Query.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if src.pinger != nil {
		tree.AddDataService(services.NewSourceMonitor(src.pinger, cfg.Source.Backend, sourceMonitorInterval))
	}
	tree.AddAPIService(services.NewUptimeService(startTime, 0))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	serveErr := <-errCh
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if serveErr != nil {
		return fmt.Errorf("supervisor tree: %w", serveErr)
	}
	return nil
}
