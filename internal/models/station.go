// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package models

import "time"

// Station is one entry of the station directory. Name is the join key against
// ride start and end station names.
type Station struct {
	Name         string `json:"station_name"`
	Borough      string `json:"borough"`
	Neighborhood string `json:"neighborhood"`
}

// TimePeriod spans the first and last ride start in the whole dataset.
// Both fields are zero when the dataset is empty.
type TimePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the period came from an empty dataset.
func (p TimePeriod) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// NumDays is the number of calendar days between the dates of Start and End.
func (p TimePeriod) NumDays() int {
	if p.IsZero() {
		return 0
	}
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
