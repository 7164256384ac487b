// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package snapshot

import (
	"context"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

var base = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

func ride(id, from string, start time.Time, minutes float64, to string) models.RideEvent {
	r := models.RideEvent{RideID: id, StartStationName: from, StartedAt: start}
	if to != "" {
		end := start.Add(time.Duration(minutes * float64(time.Minute)))
		r.EndedAt = &end
		r.EndStationName = &to
	}
	return r
}

func TestTopDestinationsThreeRideScenario(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{
		ride("1", "A", base.Add(8*time.Hour), 10, "B"),
		ride("2", "A", base.Add(9*time.Hour), 20, "B"),
		ride("3", "A", base.Add(10*time.Hour), 30, "C"),
	}, nil)

	got, err := stats.NewEngine(table).TopDestinations(context.Background(), "A", stats.DefaultTopLimit)
	if err != nil {
		t.Fatalf("TopDestinations() error = %v", err)
	}
	want := []models.Destination{
		{StationName: "B", TripCount: 2, PctOfTotal: 2.0 / 3.0, AvgTripLengthMinutes: 15},
		{StationName: "C", TripCount: 1, PctOfTotal: 1.0 / 3.0, AvgTripLengthMinutes: 30},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopDestinations() = %+v, want %+v", got, want)
	}
}

func TestHourlyRateTwoDaySpanScenario(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{
		ride("1", "A", base.Add(15*time.Minute), 5, "B"),
		ride("2", "A", base.Add(2*24*time.Hour+23*time.Hour+30*time.Minute), 5, "B"),
		// Incomplete rides never count towards the hourly rate or the span.
		ride("3", "A", base.Add(9*24*time.Hour+12*time.Hour), 0, ""),
	}, nil)

	got, err := stats.NewEngine(table).HourlyRate(context.Background(), "A")
	if err != nil {
		t.Fatalf("HourlyRate() error = %v", err)
	}
	if len(got) != models.HoursPerDay {
		t.Fatalf("got %d entries, want 24", len(got))
	}
	for h, r := range got {
		want := 0.0
		if h == 0 || h == 23 {
			want = 0.5
		}
		if r.Hour != h || r.RidesPerDay != want {
			t.Errorf("hour %d = %+v, want %v", h, r, want)
		}
	}
}

func TestZeroRideStationScenario(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{ride("1", "A", base, 5, "B")}, nil)
	got, err := stats.NewEngine(table).StationStats(context.Background(), "Nowhere", stats.DefaultTopLimit)
	if err != nil {
		t.Fatalf("StationStats() error = %v", err)
	}
	if got.AvgTripsPerDay != 0 || got.AvgTripLengthMinutes != nil || len(got.TopDestinations) != 0 {
		t.Errorf("unexpected zero-ride stats %+v", got)
	}
	for _, r := range got.HourlyRate {
		if r.RidesPerDay != 0 {
			t.Errorf("hour %d rate = %v, want 0", r.Hour, r.RidesPerDay)
		}
	}
}

func TestIncompleteRideDoesNotChangeTripLength(t *testing.T) {
	t.Parallel()

	complete := []models.RideEvent{
		ride("1", "A", base.Add(time.Hour), 12, "B"),
		ride("2", "A", base.Add(2*time.Hour), 7.5, "C"),
		ride("3", "B", base.Add(3*time.Hour), 40, "A"),
	}
	withIncomplete := append(append([]models.RideEvent(nil), complete...),
		ride("4", "A", base.Add(4*time.Hour), 0, ""),
		ride("5", "B", base.Add(5*time.Hour), 0, ""),
	)
	// End station present without an end time is still incomplete.
	dangling := "C"
	withIncomplete = append(withIncomplete, models.RideEvent{
		RideID: "6", StartStationName: "A", StartedAt: base.Add(6 * time.Hour), EndStationName: &dangling,
	})

	ctx := context.Background()
	for _, station := range []string{"A", "B"} {
		a, err := stats.NewEngine(NewTable(complete, nil)).AverageTripLengthMinutes(ctx, station)
		if err != nil {
			t.Fatal(err)
		}
		b, err := stats.NewEngine(NewTable(withIncomplete, nil)).AverageTripLengthMinutes(ctx, station)
		if err != nil {
			t.Fatal(err)
		}
		if a == nil || b == nil || *a != *b {
			t.Errorf("station %s: average changed from %v to %v when incomplete rides were added", station, a, b)
		}
	}
}

func TestAverageTripsPerDayCountsIncompleteRides(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{
		ride("1", "A", base.Add(time.Hour), 5, "B"),
		ride("2", "A", base.Add(2*time.Hour), 0, ""),
		ride("3", "A", base.Add(3*24*time.Hour), 5, "B"),
	}, nil)
	got, err := stats.NewEngine(table).AverageTripsPerDay(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.5 {
		t.Errorf("AverageTripsPerDay() = %v, want 1.5 (3 rides over 2 observed dates)", got)
	}
}

func TestSharesSumToOne(t *testing.T) {
	t.Parallel()

	var rides []models.RideEvent
	ends := []string{"B", "C", "D", "E", "F", "G", "H"}
	for i := 0; i < 70; i++ {
		rides = append(rides, ride(string(rune('a'+i%26))+string(rune('0'+i/26)), "A",
			base.Add(time.Duration(i)*time.Hour), float64(i%9+1), ends[(i*i)%len(ends)]))
	}
	engine := stats.NewEngine(NewTable(rides, nil))

	full, err := engine.TopDestinations(context.Background(), "A", stats.DefaultTopLimit)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, d := range full {
		sum += d.PctOfTotal
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("untruncated shares sum to %v, want 1", sum)
	}

	truncated, err := engine.TopDestinations(context.Background(), "A", 2)
	if err != nil {
		t.Fatal(err)
	}
	sum = 0
	for _, d := range truncated {
		sum += d.PctOfTotal
	}
	if sum > 1+1e-9 {
		t.Errorf("truncated shares sum to %v, want <= 1", sum)
	}
}

func TestStationStatsIdempotentAndConcurrent(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{
		ride("1", "A", base.Add(time.Hour), 11, "B"),
		ride("2", "A", base.Add(26*time.Hour), 13, "C"),
		ride("3", "A", base.Add(50*time.Hour), 17, "B"),
	}, nil)
	engine := stats.NewEngine(table)

	first, err := engine.StationStats(context.Background(), "A", stats.DefaultTopLimit)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]*models.StationStats, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = engine.StationStats(context.Background(), "A", stats.DefaultTopLimit)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if !reflect.DeepEqual(first, r) {
			t.Errorf("result %d differs: %+v vs %+v", i, r, first)
		}
	}
}

func TestStartCountsAndPeriod(t *testing.T) {
	t.Parallel()

	table := NewTable([]models.RideEvent{
		ride("1", "B", base.Add(5*time.Hour), 5, "A"),
		ride("2", "A", base.Add(time.Hour), 5, "B"),
		ride("3", "B", base.Add(48*time.Hour), 0, ""),
		ride("4", "", base.Add(2*time.Hour), 0, ""),
	}, []models.Station{{Name: "A", Borough: "Manhattan", Neighborhood: "Chelsea"}})
	engine := stats.NewEngine(table)

	popular, err := engine.StationsByPopularity(context.Background(), stats.DefaultPopularLimit)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.StationCount{{StationName: "B", Trips: 2}, {StationName: "A", Trips: 1}}
	if !reflect.DeepEqual(popular, want) {
		t.Errorf("StationsByPopularity() = %+v, want %+v", popular, want)
	}

	period, err := engine.TimePeriod(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !period.Start.Equal(base.Add(time.Hour)) || !period.End.Equal(base.Add(48*time.Hour)) {
		t.Errorf("TimePeriod() = %+v", period)
	}

	dir, err := engine.Directory(context.Background())
	if err != nil || len(dir) != 1 {
		t.Errorf("Directory() = %+v, %v", dir, err)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := stats.NewEngine(NewTable(nil, nil)).AverageTripsPerDay(ctx, "A")
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}
