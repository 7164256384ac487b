// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package cache provides the time-to-live cache that sits in front of the
// ride-event sources. An entry stays valid for a fixed duration from the moment
// it was stored, regardless of changes in the underlying data.
package cache

import "time"

// Cacher is the cache contract consumed by stats.CachedSource. The health
// endpoint reads its statistics.
//
//	var c Cacher = cache.New(15 * time.Minute)
//	c.Set("key", value)
//	if val, ok := c.Get("key"); ok {
//	    // use val
//	}
type Cacher interface {
	// Get returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// GetStats returns a snapshot of cache statistics.
	GetStats() Stats

	// HitRate returns the hit rate as a percentage.
	HitRate() float64
}

var _ Cacher = (*Cache)(nil)
