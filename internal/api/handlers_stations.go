// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/presenter"
	"github.com/tomtom215/stationexplorer/internal/stations"
)

// PeriodResponse is the payload of /period. Start and End are null for an
// empty dataset.
type PeriodResponse struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	Days  int        `json:"days"`
	Label string     `json:"label"`
}

// SelectionResponse is the payload of /stations/selection.
type SelectionResponse struct {
	Selectors []presenter.Selector `json:"selectors"`
	Station   string               `json:"station"`
}

// Period returns the first and last ride start in the dataset.
func (h *Handler) Period(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	period, err := h.engine.TimePeriod(r.Context())
	if err != nil {
		respondSourceError(w, r, err)
		return
	}

	resp := PeriodResponse{Label: presenter.PeriodLabel(period)}
	if !period.IsZero() {
		first, last := period.Start, period.End
		resp.Start, resp.End = &first, &last
		resp.Days = period.NumDays()
	}
	respondSuccess(w, r, resp, start)
}

// PopularStations lists start stations by ride count, busiest first.
func (h *Handler) PopularStations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := PopularRequest{Limit: getIntParam(r, "limit", h.config.PopularLimit)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	counts, err := h.engine.StationsByPopularity(r.Context(), req.Limit)
	if err != nil {
		respondSourceError(w, r, err)
		return
	}
	if counts == nil {
		counts = []models.StationCount{}
	}
	respondSuccess(w, r, counts, start)
}

// StationOptions returns the values selectable at the next cascade level.
// Unknown boroughs or neighborhoods yield an empty list.
func (h *Handler) StationOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := parseSelection(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	dir, err := h.engine.Directory(r.Context())
	if err != nil {
		respondSourceError(w, r, err)
		return
	}
	respondSuccess(w, r, stations.NextOptions(dir, req.Selection()), start)
}

// StationSelection resolves a partial selection the way the dashboard does.
func (h *Handler) StationSelection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := parseSelection(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	selectors, station, err := h.builder.Selection(r.Context(), req.Selection())
	if err != nil {
		respondSourceError(w, r, err)
		return
	}
	respondSuccess(w, r, SelectionResponse{Selectors: selectors, Station: station}, start)
}

// Dashboard renders the labeled dashboard view for a selection.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := parseSelection(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	d, err := h.builder.Build(r.Context(), req.Selection())
	if err != nil {
		respondSourceError(w, r, err)
		return
	}
	respondSuccess(w, r, d, start)
}
