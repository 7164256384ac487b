// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/models"
)

// Demo dataset shape.
const (
	DefaultSeed     = 20240101
	DefaultSeedSize = 5000
	seedDays        = 30
)

var seedStations = []models.Station{
	{Name: "W 21 St & 6 Ave", Borough: "Manhattan", Neighborhood: "Chelsea"},
	{Name: "8 Ave & W 31 St", Borough: "Manhattan", Neighborhood: "Chelsea"},
	{Name: "W 22 St & 10 Ave", Borough: "Manhattan", Neighborhood: "Chelsea"},
	{Name: "Broadway & E 14 St", Borough: "Manhattan", Neighborhood: "Union Square"},
	{Name: "University Pl & E 14 St", Borough: "Manhattan", Neighborhood: "Union Square"},
	{Name: "E 17 St & Broadway", Borough: "Manhattan", Neighborhood: "Union Square"},
	{Name: "Central Park S & 6 Ave", Borough: "Manhattan", Neighborhood: "Midtown"},
	{Name: "W 41 St & 8 Ave", Borough: "Manhattan", Neighborhood: "Midtown"},
	{Name: "Pier 40 - Hudson River Park", Borough: "Manhattan", Neighborhood: "West Village"},
	{Name: "Christopher St & Greenwich St", Borough: "Manhattan", Neighborhood: "West Village"},
	{Name: "Kent Ave & N 7 St", Borough: "Brooklyn", Neighborhood: "Williamsburg"},
	{Name: "Wythe Ave & Metropolitan Ave", Borough: "Brooklyn", Neighborhood: "Williamsburg"},
	{Name: "Bedford Ave & Nassau Ave", Borough: "Brooklyn", Neighborhood: "Greenpoint"},
	{Name: "Manhattan Ave & Greenpoint Ave", Borough: "Brooklyn", Neighborhood: "Greenpoint"},
	{Name: "Smith St & Fulton St", Borough: "Brooklyn", Neighborhood: "Downtown Brooklyn"},
	{Name: "44 Dr & Jackson Ave", Borough: "Queens", Neighborhood: "Long Island City"},
	{Name: "Vernon Blvd & 50 Ave", Borough: "Queens", Neighborhood: "Long Island City"},
	{Name: "31 St & Broadway", Borough: "Queens", Neighborhood: "Astoria"},
	{Name: "E 149 St & Grand Concourse", Borough: "Bronx", Neighborhood: "Mott Haven"},
	{Name: "Willis Ave & E 138 St", Borough: "Bronx", Neighborhood: "Mott Haven"},
}

// MockStations returns the demo station directory.
func MockStations() []models.Station {
	out := make([]models.Station, len(seedStations))
	copy(out, seedStations)
	return out
}

// MockRides generates n rides over a 30 day window starting 2024-01-01.
// The same seed always produces the same rides. Roughly one ride in twelve
// is left incomplete (missing end station, end time or both), and durations
// carry millisecond fractions so truncation to whole seconds matters.
func MockRides(seed int64, n int) []models.RideEvent {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // demo data, not security sensitive
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Commute-shaped hour weights, heavier at 8-9 and 17-18.
	hourWeights := []int{1, 1, 1, 1, 1, 2, 4, 8, 12, 9, 6, 6, 7, 7, 6, 7, 9, 13, 11, 7, 5, 4, 3, 2}
	totalWeight := 0
	for _, w := range hourWeights {
		totalWeight += w
	}
	pickHour := func() int {
		r := rng.Intn(totalWeight)
		for h, w := range hourWeights {
			if r < w {
				return h
			}
			r -= w
		}
		return 23
	}

	rides := make([]models.RideEvent, 0, n)
	for i := 0; i < n; i++ {
		// Skew starts toward the first few stations so popularity is uneven.
		startIdx := rng.Intn(len(seedStations))
		if rng.Intn(3) == 0 {
			startIdx = rng.Intn(4)
		}
		started := base.
			Add(time.Duration(rng.Intn(seedDays)) * 24 * time.Hour).
			Add(time.Duration(pickHour()) * time.Hour).
			Add(time.Duration(rng.Intn(3600)) * time.Second).
			Add(time.Duration(rng.Intn(1000)) * time.Millisecond)

		ride := models.RideEvent{
			RideID:           fmt.Sprintf("R%06d", i+1),
			StartedAt:        started,
			StartStationName: seedStations[startIdx].Name,
		}

		ended := started.Add(time.Duration(120+rng.Intn(2400))*time.Second +
			time.Duration(rng.Intn(1000))*time.Millisecond)
		end := seedStations[rng.Intn(len(seedStations))].Name

		switch rng.Intn(12) {
		case 0:
			// neither end recorded
		case 1:
			ride.EndedAt = &ended
		case 2:
			ride.EndStationName = &end
		default:
			ride.EndedAt = &ended
			ride.EndStationName = &end
		}
		rides = append(rides, ride)
	}
	return rides
}

// SeedMockData fills an empty database with the demo dataset. A database that
// already holds rides is left untouched.
func (db *DB) SeedMockData(ctx context.Context) error {
	count, err := db.CountRides(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Info().Int64("rides", count).Msg("Database already populated, skipping mock data seed")
		return nil
	}

	logging.Info().Int("rides", DefaultSeedSize).Msg("Seeding database with mock data...")

	if err := db.InsertStations(ctx, MockStations()); err != nil {
		return fmt.Errorf("failed to seed stations: %w", err)
	}
	if err := db.InsertRides(ctx, MockRides(DefaultSeed, DefaultSeedSize)); err != nil {
		return fmt.Errorf("failed to seed rides: %w", err)
	}

	logging.Info().Msg("Mock data seeded")
	return nil
}
