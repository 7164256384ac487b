// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"net/http"

	"github.com/tomtom215/stationexplorer/internal/stations"
)

// StationRequest names the start station being analyzed.
type StationRequest struct {
	Station string `query:"station" validate:"required,stationname"`
}

// StationStatsRequest adds the destination limit (1-1000).
type StationStatsRequest struct {
	Station string `query:"station" validate:"required,stationname"`
	Limit   int    `query:"limit" validate:"gte=1,lte=1000"`
}

// PopularRequest is the size of the flat station list (1-1000).
type PopularRequest struct {
	Limit int `query:"limit" validate:"gte=1,lte=1000"`
}

// SelectionRequest is a possibly partial borough/neighborhood/station choice.
type SelectionRequest struct {
	Borough      string `query:"borough" validate:"omitempty,stationname"`
	Neighborhood string `query:"neighborhood" validate:"omitempty,stationname"`
	Station      string `query:"station" validate:"omitempty,stationname"`
}

// Selection converts the request to a stations.Selection.
func (s SelectionRequest) Selection() stations.Selection {
	return stations.Selection{
		Borough:      s.Borough,
		Neighborhood: s.Neighborhood,
		Station:      s.Station,
	}
}

func parseSelection(r *http.Request) SelectionRequest {
	q := r.URL.Query()
	return SelectionRequest{
		Borough:      q.Get("borough"),
		Neighborhood: q.Get("neighborhood"),
		Station:      q.Get("station"),
	}
}
