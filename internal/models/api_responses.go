// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package models defines the ride, station and aggregate types shared by the
// aggregation engine, its data sources and the HTTP API.
package models

import "time"

// APIResponse is the envelope for every JSON response.
//
// Successful response:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":12}}
//
// Error response:
//
//	{"status":"error","data":null,"metadata":{...},"error":{"code":"VALIDATION_ERROR","message":"..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata. QueryTimeMS is omitted for cached responses.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code with a human-readable message.
//
// Codes in use: VALIDATION_ERROR, NOT_FOUND, DATA_ACCESS_ERROR, SERVICE_UNAVAILABLE,
// RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status          string       `json:"status"`
	Version         string       `json:"version"`
	Backend         string       `json:"backend"`
	SourceConnected bool         `json:"source_connected"`
	Uptime          float64      `json:"uptime_seconds"`
	Cache           *CacheHealth `json:"cache,omitempty"`
}

// CacheHealth summarizes the query cache. It is omitted when caching is off.
type CacheHealth struct {
	HitRatePercent float64 `json:"hit_rate_percent"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	Keys           int64   `json:"keys"`
}
