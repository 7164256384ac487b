// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package snapshot serves ride events from a local CSV snapshot held in
// memory. A Table is immutable once built and answers every stats.Source
// query by scanning the rides of one start station.
package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/metrics"
	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

// Table is an in-memory ride table indexed by start station. It is safe for
// concurrent reads without locking because nothing mutates it after NewTable.
type Table struct {
	rides     []models.RideEvent
	byStation map[string][]int
	directory []models.Station
	period    models.TimePeriod
}

var _ stats.Source = (*Table)(nil)

// NewTable builds a table from rides and an optional station directory. The
// slices are copied.
func NewTable(rides []models.RideEvent, directory []models.Station) *Table {
	t := &Table{
		rides:     append([]models.RideEvent(nil), rides...),
		byStation: make(map[string][]int),
		directory: append([]models.Station(nil), directory...),
	}
	for i := range t.rides {
		r := &t.rides[i]
		t.byStation[r.StartStationName] = append(t.byStation[r.StartStationName], i)

		if t.period.Start.IsZero() || r.StartedAt.Before(t.period.Start) {
			t.period.Start = r.StartedAt
		}
		if t.period.End.IsZero() || r.StartedAt.After(t.period.End) {
			t.period.End = r.StartedAt
		}
	}

	metrics.SnapshotRowsLoaded.WithLabelValues("rides").Set(float64(len(t.rides)))
	metrics.SnapshotRowsLoaded.WithLabelValues("stations").Set(float64(len(t.directory)))
	return t
}

// Open loads the CSV files and builds a table.
func Open(ridesPath, stationsPath string) (*Table, error) {
	start := time.Now()
	rides, dir, err := LoadFiles(ridesPath, stationsPath)
	if err != nil {
		return nil, err
	}
	t := NewTable(rides, dir)

	logging.Info().
		Str("rides_csv", ridesPath).
		Int("rides", len(rides)).
		Int("stations", len(dir)).
		Dur("elapsed", time.Since(start)).
		Msg("Loaded ride snapshot")
	return t, nil
}

// Len returns the number of rides.
func (t *Table) Len() int {
	return len(t.rides)
}

func (t *Table) each(station string, fn func(r *models.RideEvent)) {
	for _, i := range t.byStation[station] {
		fn(&t.rides[i])
	}
}

func (t *Table) run(ctx context.Context, query string, fn func()) error {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		fn()
	}
	metrics.RecordQuery("snapshot", query, time.Since(start), err)
	return err
}

// DailyCounts implements stats.Source.
func (t *Table) DailyCounts(ctx context.Context, station string) ([]models.DailyCount, error) {
	var out []models.DailyCount
	err := t.run(ctx, "daily_counts", func() {
		perDate := make(map[time.Time]int64)
		t.each(station, func(r *models.RideEvent) {
			y, m, d := r.StartedAt.Date()
			perDate[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]++
		})
		out = make([]models.DailyCount, 0, len(perDate))
		for date, n := range perDate {
			out = append(out, models.DailyCount{Date: date, Trips: n})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	})
	return out, err
}

// DurationTotals implements stats.Source.
func (t *Table) DurationTotals(ctx context.Context, station string) (models.DurationTotals, error) {
	var out models.DurationTotals
	err := t.run(ctx, "duration_totals", func() {
		t.each(station, func(r *models.RideEvent) {
			if secs, ok := r.TripSeconds(); ok {
				out.Trips++
				out.TotalSeconds += secs
			}
		})
	})
	return out, err
}

// Destinations implements stats.Source. Every group is returned; the engine
// ranks and truncates them.
func (t *Table) Destinations(ctx context.Context, station string, _ int) (models.DestinationSet, error) {
	var out models.DestinationSet
	err := t.run(ctx, "destinations", func() {
		groups := make(map[string]*models.DestinationTotal)
		t.each(station, func(r *models.RideEvent) {
			secs, ok := r.TripSeconds()
			if !ok {
				return
			}
			g, exists := groups[*r.EndStationName]
			if !exists {
				g = &models.DestinationTotal{StationName: *r.EndStationName}
				groups[*r.EndStationName] = g
			}
			g.Trips++
			g.TotalSeconds += secs
			out.TotalTrips++
		})
		out.Groups = make([]models.DestinationTotal, 0, len(groups))
		for _, g := range groups {
			out.Groups = append(out.Groups, *g)
		}
	})
	return out, err
}

// HourlyCounts implements stats.Source.
func (t *Table) HourlyCounts(ctx context.Context, station string) (models.HourlyCounts, error) {
	var out models.HourlyCounts
	err := t.run(ctx, "hourly_counts", func() {
		var perHour [models.HoursPerDay]int64
		t.each(station, func(r *models.RideEvent) {
			if !r.Completed() {
				return
			}
			perHour[r.StartedAt.Hour()]++
			if out.First.IsZero() || r.StartedAt.Before(out.First) {
				out.First = r.StartedAt
			}
			if out.Last.IsZero() || r.StartedAt.After(out.Last) {
				out.Last = r.StartedAt
			}
		})
		for h, n := range perHour {
			if n > 0 {
				out.Counts = append(out.Counts, models.HourCount{Hour: h, Trips: n})
			}
		}
	})
	return out, err
}

// StartCounts implements stats.Source. Every named station is returned; the
// engine ranks and truncates them.
func (t *Table) StartCounts(ctx context.Context, _ int) ([]models.StationCount, error) {
	var out []models.StationCount
	err := t.run(ctx, "start_counts", func() {
		out = make([]models.StationCount, 0, len(t.byStation))
		for name, idx := range t.byStation {
			if name == "" {
				continue
			}
			out = append(out, models.StationCount{StationName: name, Trips: int64(len(idx))})
		}
	})
	return out, err
}

// TimePeriod implements stats.Source.
func (t *Table) TimePeriod(ctx context.Context) (models.TimePeriod, error) {
	err := t.run(ctx, "time_period", func() {})
	return t.period, err
}

// Directory implements stats.Source. The returned slice is a copy.
func (t *Table) Directory(ctx context.Context) ([]models.Station, error) {
	var out []models.Station
	err := t.run(ctx, "directory", func() {
		out = append(make([]models.Station, 0, len(t.directory)), t.directory...)
	})
	return out, err
}
