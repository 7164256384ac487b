// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/models"
)

// TripsPerDayResponse is the payload of /stats/trips-per-day.
type TripsPerDayResponse struct {
	Station        string  `json:"station"`
	AvgTripsPerDay float64 `json:"avg_trips_per_day"`
}

// TripLengthResponse is the payload of /stats/trip-length. The average is
// null when the station has no completed trips.
type TripLengthResponse struct {
	Station              string   `json:"station"`
	AvgTripLengthMinutes *float64 `json:"avg_trip_length_minutes"`
}

// DestinationsResponse is the payload of /stats/destinations.
type DestinationsResponse struct {
	Station      string               `json:"station"`
	Limit        int                  `json:"limit"`
	Destinations []models.Destination `json:"destinations"`
}

// HourlyResponse is the payload of /stats/hourly.
type HourlyResponse struct {
	Station    string              `json:"station"`
	HourlyRate []models.HourlyRate `json:"hourly_rate"`
}

// parseStation validates the station parameter, writing a 400 on failure.
func parseStation(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := StationRequest{Station: r.URL.Query().Get("station")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return "", false
	}
	return req.Station, true
}

// parseStationLimit validates station and limit, writing a 400 on failure.
func (h *Handler) parseStationLimit(w http.ResponseWriter, r *http.Request) (StationStatsRequest, bool) {
	req := StationStatsRequest{
		Station: r.URL.Query().Get("station"),
		Limit:   getIntParam(r, "limit", h.config.TopLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return req, false
	}
	return req, true
}

// StationStats returns every aggregation for one station.
func (h *Handler) StationStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.parseStationLimit(w, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithStation(r.Context(), req.Station)
	s, err := h.engine.StationStats(ctx, req.Station, req.Limit)
	if err != nil {
		respondSourceError(w, r.WithContext(ctx), err)
		return
	}
	respondSuccess(w, r, s, start)
}

// TripsPerDay returns the average rides per observed day.
func (h *Handler) TripsPerDay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	station, ok := parseStation(w, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithStation(r.Context(), station)
	avg, err := h.engine.AverageTripsPerDay(ctx, station)
	if err != nil {
		respondSourceError(w, r.WithContext(ctx), err)
		return
	}
	respondSuccess(w, r, TripsPerDayResponse{Station: station, AvgTripsPerDay: avg}, start)
}

// TripLength returns the mean completed-trip duration in minutes.
func (h *Handler) TripLength(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	station, ok := parseStation(w, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithStation(r.Context(), station)
	avg, err := h.engine.AverageTripLengthMinutes(ctx, station)
	if err != nil {
		respondSourceError(w, r.WithContext(ctx), err)
		return
	}
	respondSuccess(w, r, TripLengthResponse{Station: station, AvgTripLengthMinutes: avg}, start)
}

// Destinations returns the busiest end stations reached from a station.
func (h *Handler) Destinations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := h.parseStationLimit(w, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithStation(r.Context(), req.Station)
	dests, err := h.engine.TopDestinations(ctx, req.Station, req.Limit)
	if err != nil {
		respondSourceError(w, r.WithContext(ctx), err)
		return
	}
	respondSuccess(w, r, DestinationsResponse{Station: req.Station, Limit: req.Limit, Destinations: dests}, start)
}

// Hourly returns the 24-hour ride distribution of a station.
func (h *Handler) Hourly(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	station, ok := parseStation(w, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithStation(r.Context(), station)
	rates, err := h.engine.HourlyRate(ctx, station)
	if err != nil {
		respondSourceError(w, r.WithContext(ctx), err)
		return
	}
	respondSuccess(w, r, HourlyResponse{Station: station, HourlyRate: rates}, start)
}
