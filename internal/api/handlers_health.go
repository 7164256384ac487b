// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
)

const healthCheckTimeout = 5 * time.Second

// sourceConnected pings the source, treating a nil pinger as connected.
func (h *Handler) sourceConnected(ctx context.Context) bool {
	if h.pinger == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return h.pinger.Ping(ctx) == nil
}

func (h *Handler) healthStatus(ctx context.Context) models.HealthStatus {
	connected := h.sourceConnected(ctx)
	status := "healthy"
	if !connected {
		status = "degraded"
	}
	hs := models.HealthStatus{
		Status:          status,
		Version:         h.config.Version,
		Backend:         h.config.Backend,
		SourceConnected: connected,
		Uptime:          time.Since(h.startTime).Seconds(),
	}
	if h.cache != nil {
		st := h.cache.GetStats()
		hs.Cache = &models.CacheHealth{
			HitRatePercent: h.cache.HitRate(),
			Hits:           st.Hits,
			Misses:         st.Misses,
			Keys:           st.TotalKeys,
		}
	}
	return hs
}

// Health reports overall status. It always answers 200; a degraded source is
// reported in the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, r, h.healthStatus(r.Context()), time.Now())
}

// HealthLive answers 200 while the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, r, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady answers 503 until the data source answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.sourceConnected(r.Context()) {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Ride data source is not reachable", nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, r, map[string]string{"status": "ready"}, time.Now())
}
