// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package api serves the station analytics over HTTP using the Chi router.
//
// Every endpoint answers GET with the JSON envelope of models.APIResponse.
// Station names travel as query parameters so that names containing '/' or
// '&' need no path escaping.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/stationexplorer/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// RouterOptions configures the router.
type RouterOptions struct {
	Middleware *ChiMiddlewareConfig

	// TrustProxyHeaders enables X-Forwarded-For / X-Real-IP handling. Only
	// set it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Router sets up HTTP routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	opts          RouterOptions
}

// NewRouter creates a Router for handler.
func NewRouter(handler *Handler, opts RouterOptions) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(opts.Middleware),
		opts:          opts,
	}
}

// SetupChi builds the http.Handler serving every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if router.opts.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	h := router.handler

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/period", h.Period)
		r.Get("/dashboard", h.Dashboard)

		r.Route("/stations", func(r chi.Router) {
			r.Get("/popular", h.PopularStations)
			r.Get("/options", h.StationOptions)
			r.Get("/selection", h.StationSelection)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", h.StationStats)
			r.Get("/trips-per-day", h.TripsPerDay)
			r.Get("/trip-length", h.TripLength)
			r.Get("/destinations", h.Destinations)
			r.Get("/hourly", h.Hourly)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
