// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stats

import (
	"context"

	"github.com/tomtom215/stationexplorer/internal/cache"
	"github.com/tomtom215/stationexplorer/internal/models"
)

// CachedSource memoizes every query of an underlying Source, keyed by query
// name and parameters. Results are served from the cache until its TTL lapses,
// so callers see data that is eventually consistent within that window.
// Errors are never cached.
type CachedSource struct {
	next  Source
	cache cache.Cacher
}

// NewCachedSource wraps next with c.
func NewCachedSource(next Source, c cache.Cacher) *CachedSource {
	return &CachedSource{next: next, cache: c}
}

var _ Source = (*CachedSource)(nil)

// cached looks key up in c and falls back to fetch on a miss.
func cached[T any](c cache.Cacher, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

func stationKey(query, station string) string {
	return cache.GenerateKey(query, map[string]interface{}{"station": station})
}

// DailyCounts implements Source.
func (s *CachedSource) DailyCounts(ctx context.Context, station string) ([]models.DailyCount, error) {
	return cached(s.cache, stationKey("DailyCounts", station), func() ([]models.DailyCount, error) {
		return s.next.DailyCounts(ctx, station)
	})
}

// DurationTotals implements Source.
func (s *CachedSource) DurationTotals(ctx context.Context, station string) (models.DurationTotals, error) {
	return cached(s.cache, stationKey("DurationTotals", station), func() (models.DurationTotals, error) {
		return s.next.DurationTotals(ctx, station)
	})
}

// Destinations implements Source.
func (s *CachedSource) Destinations(ctx context.Context, station string, limit int) (models.DestinationSet, error) {
	key := cache.GenerateKey("Destinations", map[string]interface{}{"station": station, "limit": limit})
	return cached(s.cache, key, func() (models.DestinationSet, error) {
		return s.next.Destinations(ctx, station, limit)
	})
}

// HourlyCounts implements Source.
func (s *CachedSource) HourlyCounts(ctx context.Context, station string) (models.HourlyCounts, error) {
	return cached(s.cache, stationKey("HourlyCounts", station), func() (models.HourlyCounts, error) {
		return s.next.HourlyCounts(ctx, station)
	})
}

// StartCounts implements Source.
func (s *CachedSource) StartCounts(ctx context.Context, limit int) ([]models.StationCount, error) {
	key := cache.GenerateKey("StartCounts", map[string]interface{}{"limit": limit})
	return cached(s.cache, key, func() ([]models.StationCount, error) {
		return s.next.StartCounts(ctx, limit)
	})
}

// TimePeriod implements Source.
func (s *CachedSource) TimePeriod(ctx context.Context) (models.TimePeriod, error) {
	return cached(s.cache, "TimePeriod", func() (models.TimePeriod, error) {
		return s.next.TimePeriod(ctx)
	})
}

// Directory implements Source.
func (s *CachedSource) Directory(ctx context.Context) ([]models.Station, error) {
	return cached(s.cache, "Directory", func() ([]models.Station, error) {
		return s.next.Directory(ctx)
	})
}
