// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package stats is the aggregation engine. It derives per-station statistics
// (daily trip average, mean trip length, top destinations, hourly ride rate and
// system-wide station popularity) from any Source, applying one set of rules
// for every backend.
//
// Zero-result policy: a station without rides yields AvgTripsPerDay 0, a nil
// AvgTripLengthMinutes, an empty destination list and 24 zero hourly entries.
// Failed fetches are returned as *DataAccessError and never replaced by zeros.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/metrics"
	"github.com/tomtom215/stationexplorer/internal/models"
)

const (
	// DefaultTopLimit is the number of destinations returned when no limit is given.
	DefaultTopLimit = 20

	// DefaultPopularLimit is the length of the flat station list.
	DefaultPopularLimit = 20

	// MaxLimit bounds every limit parameter.
	MaxLimit = 1000
)

const day = 24 * time.Hour

// Engine computes station statistics from a Source.
type Engine struct {
	source Source
}

// NewEngine creates an engine reading from source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Source returns the source the engine reads from.
func (e *Engine) Source() Source {
	return e.source
}

// AverageTripsPerDay returns the mean number of rides starting at station per
// calendar date, over the dates that have at least one ride. Dates without
// rides are absent from the average, not counted as zero.
func (e *Engine) AverageTripsPerDay(ctx context.Context, station string) (float64, error) {
	defer observe("average_trips_per_day", time.Now())

	days, err := e.source.DailyCounts(ctx, station)
	if err != nil {
		return 0, NewDataAccessError("daily counts", err)
	}

	var total, observed int64
	for _, d := range days {
		if d.Trips <= 0 {
			continue
		}
		total += d.Trips
		observed++
	}
	if observed == 0 {
		return 0, nil
	}
	return float64(total) / float64(observed), nil
}

// AverageTripLengthMinutes returns the mean duration of completed trips
// starting at station. Incomplete rides are excluded entirely. The result is
// nil when the station has no completed trips.
func (e *Engine) AverageTripLengthMinutes(ctx context.Context, station string) (*float64, error) {
	defer observe("average_trip_length", time.Now())

	totals, err := e.source.DurationTotals(ctx, station)
	if err != nil {
		return nil, NewDataAccessError("duration totals", err)
	}
	if totals.Trips <= 0 {
		return nil, nil
	}
	avg := meanMinutes(totals.TotalSeconds, totals.Trips)
	return &avg, nil
}

// TopDestinations returns up to limit end stations reached by completed trips
// from station, ordered by trip count descending with ties broken by station
// name ascending. PctOfTotal is the share of all completed trips from station,
// so the shares sum to 1 unless the list was truncated.
func (e *Engine) TopDestinations(ctx context.Context, station string, limit int) ([]models.Destination, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	defer observe("top_destinations", time.Now())

	set, err := e.source.Destinations(ctx, station, limit)
	if err != nil {
		return nil, NewDataAccessError("destinations", err)
	}

	groups := make([]models.DestinationTotal, 0, len(set.Groups))
	var groupSum int64
	for _, g := range set.Groups {
		if g.Trips <= 0 {
			continue
		}
		groups = append(groups, g)
		groupSum += g.Trips
	}

	total := set.TotalTrips
	if total < groupSum {
		return nil, NewDataAccessError("destinations",
			fmt.Errorf("total trips %d is below the sum of returned groups %d", total, groupSum))
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Trips != groups[j].Trips {
			return groups[i].Trips > groups[j].Trips
		}
		return groups[i].StationName < groups[j].StationName
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}

	out := make([]models.Destination, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.Destination{
			StationName:          g.StationName,
			TripCount:            g.Trips,
			PctOfTotal:           float64(g.Trips) / float64(total),
			AvgTripLengthMinutes: meanMinutes(g.TotalSeconds, g.Trips),
		})
	}
	return out, nil
}

// HourlyRate returns 24 entries, hours 0 through 23, holding the average
// number of completed trips per day that started at station in each hour.
//
// The divisor is the number of whole days between the first and last
// completed trip of the station itself, not the dataset period. When those
// trips span less than one whole day the divisor is 1, so the rate equals the
// raw count.
func (e *Engine) HourlyRate(ctx context.Context, station string) ([]models.HourlyRate, error) {
	defer observe("hourly_rate", time.Now())

	counts, err := e.source.HourlyCounts(ctx, station)
	if err != nil {
		return nil, NewDataAccessError("hourly counts", err)
	}

	var perHour [models.HoursPerDay]int64
	var trips int64
	for _, c := range counts.Counts {
		if c.Hour < 0 || c.Hour >= models.HoursPerDay {
			return nil, NewDataAccessError("hourly counts", fmt.Errorf("hour %d out of range", c.Hour))
		}
		if c.Trips <= 0 {
			continue
		}
		perHour[c.Hour] += c.Trips
		trips += c.Trips
	}

	out := make([]models.HourlyRate, models.HoursPerDay)
	for h := range out {
		out[h].Hour = h
	}
	if trips == 0 {
		return out, nil
	}

	numDays := int64(counts.Last.Sub(counts.First) / day)
	if numDays < 1 {
		numDays = 1
	}
	for h := range out {
		out[h].RidesPerDay = float64(perHour[h]) / float64(numDays)
	}
	return out, nil
}

// StationsByPopularity returns up to limit start stations across the whole
// dataset, ordered by ride count descending then name ascending.
func (e *Engine) StationsByPopularity(ctx context.Context, limit int) ([]models.StationCount, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	defer observe("stations_by_popularity", time.Now())

	rows, err := e.source.StartCounts(ctx, limit)
	if err != nil {
		return nil, NewDataAccessError("start counts", err)
	}

	out := make([]models.StationCount, 0, len(rows))
	for _, r := range rows {
		if r.Trips > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trips != out[j].Trips {
			return out[i].Trips > out[j].Trips
		}
		return out[i].StationName < out[j].StationName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// StationStats computes every per-station aggregate. The four queries run
// concurrently; the first failure cancels the rest and is returned.
func (e *Engine) StationStats(ctx context.Context, station string, limit int) (*models.StationStats, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	start := time.Now()
	defer observe("station_stats", start)

	result := &models.StationStats{Station: station}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := e.AverageTripsPerDay(gctx, station)
		result.AvgTripsPerDay = v
		return err
	})
	g.Go(func() error {
		v, err := e.AverageTripLengthMinutes(gctx, station)
		result.AvgTripLengthMinutes = v
		return err
	})
	g.Go(func() error {
		v, err := e.TopDestinations(gctx, station, limit)
		result.TopDestinations = v
		return err
	})
	g.Go(func() error {
		v, err := e.HourlyRate(gctx, station)
		result.HourlyRate = v
		return err
	})

	if err := g.Wait(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("station", station).Msg("Station stats failed")
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("station", station).
		Dur("elapsed", time.Since(start)).
		Int("destinations", len(result.TopDestinations)).
		Msg("Computed station stats")
	return result, nil
}

// TimePeriod returns the span of the whole dataset.
func (e *Engine) TimePeriod(ctx context.Context) (models.TimePeriod, error) {
	p, err := e.source.TimePeriod(ctx)
	if err != nil {
		return models.TimePeriod{}, NewDataAccessError("time period", err)
	}
	return p, nil
}

// Directory returns the station directory.
func (e *Engine) Directory(ctx context.Context) ([]models.Station, error) {
	dir, err := e.source.Directory(ctx)
	if err != nil {
		return nil, NewDataAccessError("directory", err)
	}
	return dir, nil
}

func meanMinutes(totalSeconds, trips int64) float64 {
	return float64(totalSeconds) / float64(trips) / 60
}

func observe(operation string, start time.Time) {
	metrics.RecordAggregation(operation, time.Since(start))
}
