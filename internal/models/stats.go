// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package models

import "time"

// HoursPerDay is the length of every hourly rate series.
const HoursPerDay = 24

// StationStats is the full set of aggregates computed for one start station.
//
// Fields:
//   - AvgTripsPerDay: mean rides per observed calendar date (all rides, completed or not)
//   - AvgTripLengthMinutes: mean completed-trip duration; nil when there are no completed trips
//   - TopDestinations: busiest end stations, trip count descending, name ascending on ties
//   - HourlyRate: exactly 24 entries, hours 0 through 23
type StationStats struct {
	Station              string        `json:"station"`
	AvgTripsPerDay       float64       `json:"avg_trips_per_day"`
	AvgTripLengthMinutes *float64      `json:"avg_trip_length_minutes"`
	TopDestinations      []Destination `json:"top_destinations"`
	HourlyRate           []HourlyRate  `json:"hourly_rate"`
}

// Destination is one end station reached from the analyzed start station.
// PctOfTotal is a fraction in [0, 1] of all completed trips from that start
// station, not of the truncated list.
type Destination struct {
	StationName          string  `json:"station_name"`
	TripCount            int64   `json:"trip_count"`
	PctOfTotal           float64 `json:"pct_of_total"`
	AvgTripLengthMinutes float64 `json:"avg_trip_length_minutes"`
}

// HourlyRate is the average number of completed rides per day that started in
// the given hour.
type HourlyRate struct {
	Hour        int     `json:"hour"`
	RidesPerDay float64 `json:"rides_per_day"`
}

// StationCount is a start station with its total ride count.
type StationCount struct {
	StationName string `json:"station_name"`
	Trips       int64  `json:"trips"`
}

// DailyCount is the number of rides that started at a station on one calendar
// date. Dates with no rides are absent rather than zero.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Trips int64     `json:"trips"`
}

// DurationTotals sums completed trips and their whole-second durations.
type DurationTotals struct {
	Trips        int64 `json:"trips"`
	TotalSeconds int64 `json:"total_seconds"`
}

// DestinationTotal is the completed trips from one start station to one end
// station, grouped.
type DestinationTotal struct {
	StationName  string `json:"station_name"`
	Trips        int64  `json:"trips"`
	TotalSeconds int64  `json:"total_seconds"`
}

// DestinationSet carries destination groups together with the trip count over
// every group of the start station, so shares stay correct when Groups has
// been truncated.
type DestinationSet struct {
	TotalTrips int64              `json:"total_trips"`
	Groups     []DestinationTotal `json:"groups"`
}

// HourCount is the number of completed trips starting in one hour of the day.
type HourCount struct {
	Hour  int   `json:"hour"`
	Trips int64 `json:"trips"`
}

// HourlyCounts holds per-hour completed-trip counts for a station along with
// the first and last start time of those trips. First and Last are zero when
// there are no completed trips.
type HourlyCounts struct {
	Counts []HourCount `json:"counts"`
	First  time.Time   `json:"first"`
	Last   time.Time   `json:"last"`
}
