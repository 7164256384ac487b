// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stats

import (
	"context"

	"github.com/tomtom215/stationexplorer/internal/models"
)

// Source is the read capability the engine aggregates over. It is the fixed
// query vocabulary every backend implements; each query is parameterized only
// by a station name and/or a limit, and implementations must bind the station
// name as a parameter rather than splicing it into query text.
//
// Sources return raw counts and whole-second duration sums. Means, shares,
// ordering, tie-breaks, truncation and gap filling belong to the Engine so
// that backends cannot drift from each other.
//
// A "completed trip" is a ride whose end station and end time are both present.
// Implementations must be safe for concurrent use.
type Source interface {
	// DailyCounts returns the number of rides (completed or not) starting at
	// station on each calendar date of started_at that has at least one ride.
	DailyCounts(ctx context.Context, station string) ([]models.DailyCount, error)

	// DurationTotals sums the completed trips starting at station and their
	// whole-second durations.
	DurationTotals(ctx context.Context, station string) (models.DurationTotals, error)

	// Destinations groups the completed trips starting at station by end
	// station. TotalTrips covers every group. Groups may be returned in any
	// order and may hold more than limit entries, but must include the top
	// limit groups ranked by trips descending then name ascending.
	Destinations(ctx context.Context, station string, limit int) (models.DestinationSet, error)

	// HourlyCounts counts completed trips starting at station per hour of
	// started_at, with the earliest and latest started_at among them. Hours
	// without trips may be omitted.
	HourlyCounts(ctx context.Context, station string) (models.HourlyCounts, error)

	// StartCounts counts rides per start station over the whole dataset, with
	// the same ranking and truncation contract as Destinations.
	StartCounts(ctx context.Context, limit int) ([]models.StationCount, error)

	// TimePeriod returns the earliest and latest started_at in the dataset.
	TimePeriod(ctx context.Context) (models.TimePeriod, error)

	// Directory returns the station directory.
	Directory(ctx context.Context) ([]models.Station, error)
}
