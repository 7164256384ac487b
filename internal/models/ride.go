// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package models

import "time"

// RideEvent is one bicycle trip, completed or not.
//
// Timestamps are wall-clock values as recorded by the operator. They are never
// converted between time zones; hour-of-day and calendar date are read directly
// from the stored value.
//
// A ride is completed only when both EndStationName and EndedAt are present.
// Well-formed data carries both or neither, but a ride missing either one is
// treated as incomplete and excluded from duration, destination and hourly
// statistics.
type RideEvent struct {
	RideID           string     `json:"ride_id"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	StartStationName string     `json:"start_station_name"`
	EndStationName   *string    `json:"end_station_name,omitempty"`
}

// Completed reports whether the ride has both an end station and an end time.
func (r *RideEvent) Completed() bool {
	return r.EndStationName != nil && r.EndedAt != nil
}

// TripSeconds returns the elapsed whole seconds of a completed ride.
// The second result is false for incomplete rides.
func (r *RideEvent) TripSeconds() (int64, bool) {
	if !r.Completed() {
		return 0, false
	}
	return TripSeconds(r.StartedAt, *r.EndedAt), true
}

// TripDurationMinutes returns the trip duration in fractional minutes at
// whole-second precision. The second result is false for incomplete rides.
func (r *RideEvent) TripDurationMinutes() (float64, bool) {
	secs, ok := r.TripSeconds()
	if !ok {
		return 0, false
	}
	return float64(secs) / 60, true
}

// TripSeconds is the elapsed time between start and end truncated toward zero
// to whole seconds. Every backend computes durations this way.
func TripSeconds(start, end time.Time) int64 {
	return int64(end.Sub(start).Truncate(time.Second) / time.Second)
}
