// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultClickHouseImage    = "clickhouse/clickhouse-server:24.8-alpine"
	DefaultClickHouseDatabase = "citibike"
	DefaultClickHouseUser     = "explorer"
	DefaultClickHousePassword = "explorer"

	clickHouseNativePort = "9000"
	clickHouseHTTPPort   = "8123"
)

// ClickHouseContainer is a running ClickHouse server.
type ClickHouseContainer struct {
	testcontainers.Container

	// Addr is host:port of the native protocol endpoint.
	Addr     string
	Database string
	Username string
	Password string
}

type clickHouseConfig struct {
	image        string
	startTimeout time.Duration
}

// ClickHouseOption configures NewClickHouseContainer.
type ClickHouseOption func(*clickHouseConfig)

// WithClickHouseImage overrides the server image.
func WithClickHouseImage(image string) ClickHouseOption {
	return func(c *clickHouseConfig) {
		c.image = image
	}
}

// WithClickHouseStartTimeout bounds how long to wait for the server.
func WithClickHouseStartTimeout(timeout time.Duration) ClickHouseOption {
	return func(c *clickHouseConfig) {
		c.startTimeout = timeout
	}
}

// NewClickHouseContainer starts a ClickHouse server with an empty database.
//
//	ch, err := testinfra.NewClickHouseContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, ch)
func NewClickHouseContainer(ctx context.Context, opts ...ClickHouseOption) (*ClickHouseContainer, error) {
	cfg := &clickHouseConfig{
		image:        DefaultClickHouseImage,
		startTimeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{clickHouseNativePort + "/tcp", clickHouseHTTPPort + "/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_DB":                        DefaultClickHouseDatabase,
			"CLICKHOUSE_USER":                      DefaultClickHouseUser,
			"CLICKHOUSE_PASSWORD":                  DefaultClickHousePassword,
			"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1",
			"TZ":                                   "UTC",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(clickHouseNativePort+"/tcp"),
			wait.ForHTTP("/ping").WithPort(clickHouseHTTPPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create clickhouse container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, clickHouseNativePort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &ClickHouseContainer{
		Container: container,
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
		Database:  DefaultClickHouseDatabase,
		Username:  DefaultClickHouseUser,
		Password:  DefaultClickHousePassword,
	}, nil
}
