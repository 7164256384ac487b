// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stats

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
)

// stubSource serves canned rows and counts every call.
type stubSource struct {
	daily        []models.DailyCount
	durations    models.DurationTotals
	destinations models.DestinationSet
	hourly       models.HourlyCounts
	starts       []models.StationCount
	period       models.TimePeriod
	directory    []models.Station
	err          error

	calls atomic.Int64
}

func (s *stubSource) DailyCounts(context.Context, string) ([]models.DailyCount, error) {
	s.calls.Add(1)
	return s.daily, s.err
}

func (s *stubSource) DurationTotals(context.Context, string) (models.DurationTotals, error) {
	s.calls.Add(1)
	return s.durations, s.err
}

func (s *stubSource) Destinations(context.Context, string, int) (models.DestinationSet, error) {
	s.calls.Add(1)
	return s.destinations, s.err
}

func (s *stubSource) HourlyCounts(context.Context, string) (models.HourlyCounts, error) {
	s.calls.Add(1)
	return s.hourly, s.err
}

func (s *stubSource) StartCounts(context.Context, int) ([]models.StationCount, error) {
	s.calls.Add(1)
	return s.starts, s.err
}

func (s *stubSource) TimePeriod(context.Context) (models.TimePeriod, error) {
	s.calls.Add(1)
	return s.period, s.err
}

func (s *stubSource) Directory(context.Context) ([]models.Station, error) {
	s.calls.Add(1)
	return s.directory, s.err
}

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestAverageTripsPerDayUsesObservedDays(t *testing.T) {
	t.Parallel()

	src := &stubSource{daily: []models.DailyCount{
		{Date: date(2023, 1, 1, 0, 0), Trips: 4},
		{Date: date(2023, 1, 5, 0, 0), Trips: 2},
	}}
	got, err := NewEngine(src).AverageTripsPerDay(context.Background(), "A")
	if err != nil {
		t.Fatalf("AverageTripsPerDay() error = %v", err)
	}
	if got != 3 {
		t.Errorf("AverageTripsPerDay() = %v, want 3 (mean over the two observed dates)", got)
	}
}

func TestZeroRideStation(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stubSource{})
	got, err := engine.StationStats(context.Background(), "Nowhere", DefaultTopLimit)
	if err != nil {
		t.Fatalf("StationStats() error = %v", err)
	}
	if got.AvgTripsPerDay != 0 {
		t.Errorf("AvgTripsPerDay = %v, want 0", got.AvgTripsPerDay)
	}
	if got.AvgTripLengthMinutes != nil {
		t.Errorf("AvgTripLengthMinutes = %v, want nil", *got.AvgTripLengthMinutes)
	}
	if got.TopDestinations == nil || len(got.TopDestinations) != 0 {
		t.Errorf("TopDestinations = %#v, want empty non-nil slice", got.TopDestinations)
	}
	if len(got.HourlyRate) != models.HoursPerDay {
		t.Fatalf("HourlyRate has %d entries, want 24", len(got.HourlyRate))
	}
	for h, r := range got.HourlyRate {
		if r.Hour != h || r.RidesPerDay != 0 {
			t.Errorf("HourlyRate[%d] = %+v, want {%d 0}", h, r, h)
		}
	}
}

func TestAverageTripLengthMinutes(t *testing.T) {
	t.Parallel()

	src := &stubSource{durations: models.DurationTotals{Trips: 3, TotalSeconds: 3600}}
	got, err := NewEngine(src).AverageTripLengthMinutes(context.Background(), "A")
	if err != nil {
		t.Fatalf("AverageTripLengthMinutes() error = %v", err)
	}
	if got == nil || *got != 20 {
		t.Errorf("AverageTripLengthMinutes() = %v, want 20", got)
	}
}

func TestTopDestinationsScenario(t *testing.T) {
	t.Parallel()

	src := &stubSource{destinations: models.DestinationSet{
		TotalTrips: 3,
		Groups: []models.DestinationTotal{
			{StationName: "C", Trips: 1, TotalSeconds: 1800},
			{StationName: "B", Trips: 2, TotalSeconds: 1800},
		},
	}}
	got, err := NewEngine(src).TopDestinations(context.Background(), "A", DefaultTopLimit)
	if err != nil {
		t.Fatalf("TopDestinations() error = %v", err)
	}

	want := []models.Destination{
		{StationName: "B", TripCount: 2, PctOfTotal: 2.0 / 3.0, AvgTripLengthMinutes: 15},
		{StationName: "C", TripCount: 1, PctOfTotal: 1.0 / 3.0, AvgTripLengthMinutes: 30},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d destinations, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("destination %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopDestinationsTieBreakAndTruncation(t *testing.T) {
	t.Parallel()

	src := &stubSource{destinations: models.DestinationSet{
		TotalTrips: 10,
		Groups: []models.DestinationTotal{
			{StationName: "Zeta", Trips: 3, TotalSeconds: 300},
			{StationName: "Alpha", Trips: 3, TotalSeconds: 300},
			{StationName: "Mid", Trips: 4, TotalSeconds: 400},
		},
	}}
	got, err := NewEngine(src).TopDestinations(context.Background(), "A", 2)
	if err != nil {
		t.Fatalf("TopDestinations() error = %v", err)
	}
	if len(got) != 2 || got[0].StationName != "Mid" || got[1].StationName != "Alpha" {
		t.Fatalf("unexpected order %+v", got)
	}

	var sum float64
	for _, d := range got {
		sum += d.PctOfTotal
	}
	if sum > 1+1e-12 {
		t.Errorf("shares sum to %v, want <= 1", sum)
	}
	if math.Abs(sum-0.7) > 1e-12 {
		t.Errorf("truncated shares sum to %v, want 0.7", sum)
	}
}

func TestTopDestinationsRejectsInconsistentTotal(t *testing.T) {
	t.Parallel()

	src := &stubSource{destinations: models.DestinationSet{
		TotalTrips: 1,
		Groups:     []models.DestinationTotal{{StationName: "B", Trips: 2, TotalSeconds: 60}},
	}}
	_, err := NewEngine(src).TopDestinations(context.Background(), "A", 5)
	if !errors.Is(err, ErrDataAccess) {
		t.Errorf("expected data access error, got %v", err)
	}
}

func TestHourlyRateScenario(t *testing.T) {
	t.Parallel()

	src := &stubSource{hourly: models.HourlyCounts{
		Counts: []models.HourCount{{Hour: 0, Trips: 1}, {Hour: 23, Trips: 1}},
		First:  date(2023, 1, 1, 0, 10),
		Last:   date(2023, 1, 3, 23, 40),
	}}
	got, err := NewEngine(src).HourlyRate(context.Background(), "A")
	if err != nil {
		t.Fatalf("HourlyRate() error = %v", err)
	}
	if len(got) != 24 {
		t.Fatalf("got %d entries, want 24", len(got))
	}
	for h, r := range got {
		want := 0.0
		if h == 0 || h == 23 {
			want = 0.5
		}
		if r.Hour != h || r.RidesPerDay != want {
			t.Errorf("hour %d = %+v, want rate %v", h, r, want)
		}
	}
}

func TestHourlyRateSubDaySpanUsesDivisorOne(t *testing.T) {
	t.Parallel()

	src := &stubSource{hourly: models.HourlyCounts{
		Counts: []models.HourCount{{Hour: 8, Trips: 3}},
		First:  date(2023, 1, 1, 8, 0),
		Last:   date(2023, 1, 1, 8, 50),
	}}
	got, err := NewEngine(src).HourlyRate(context.Background(), "A")
	if err != nil {
		t.Fatalf("HourlyRate() error = %v", err)
	}
	if got[8].RidesPerDay != 3 {
		t.Errorf("rate(8) = %v, want 3", got[8].RidesPerDay)
	}
}

func TestHourlyRateRejectsOutOfRangeHour(t *testing.T) {
	t.Parallel()

	src := &stubSource{hourly: models.HourlyCounts{Counts: []models.HourCount{{Hour: 24, Trips: 1}}}}
	if _, err := NewEngine(src).HourlyRate(context.Background(), "A"); !errors.Is(err, ErrDataAccess) {
		t.Errorf("expected data access error, got %v", err)
	}
}

func TestStationsByPopularity(t *testing.T) {
	t.Parallel()

	src := &stubSource{starts: []models.StationCount{
		{StationName: "b", Trips: 5},
		{StationName: "a", Trips: 5},
		{StationName: "c", Trips: 9},
		{StationName: "d", Trips: 1},
	}}
	got, err := NewEngine(src).StationsByPopularity(context.Background(), 3)
	if err != nil {
		t.Fatalf("StationsByPopularity() error = %v", err)
	}
	names := []string{got[0].StationName, got[1].StationName, got[2].StationName}
	if len(got) != 3 || names[0] != "c" || names[1] != "a" || names[2] != "b" {
		t.Errorf("unexpected ranking %+v", got)
	}
}

func TestLimitValidation(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stubSource{})
	for _, limit := range []int{0, -1, MaxLimit + 1} {
		if _, err := engine.TopDestinations(context.Background(), "A", limit); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("TopDestinations(limit=%d) error = %v, want ErrInvalidArgument", limit, err)
		}
		if _, err := engine.StationsByPopularity(context.Background(), limit); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("StationsByPopularity(limit=%d) error = %v, want ErrInvalidArgument", limit, err)
		}
	}
}

func TestDataAccessErrorsSurface(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	engine := NewEngine(&stubSource{err: cause})

	_, err := engine.StationStats(context.Background(), "A", DefaultTopLimit)
	if !errors.Is(err, ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("underlying cause should be preserved, got %v", err)
	}
	var dae *DataAccessError
	if !errors.As(err, &dae) || dae.Op == "" {
		t.Errorf("expected *DataAccessError with an operation, got %v", err)
	}

	if _, err := engine.AverageTripsPerDay(context.Background(), "A"); !errors.Is(err, cause) {
		t.Errorf("AverageTripsPerDay should surface the failure, got %v", err)
	}
	if _, err := engine.TimePeriod(context.Background()); !errors.Is(err, ErrDataAccess) {
		t.Errorf("TimePeriod should surface the failure, got %v", err)
	}
	if _, err := engine.Directory(context.Background()); !errors.Is(err, ErrDataAccess) {
		t.Errorf("Directory should surface the failure, got %v", err)
	}
}

func TestNewDataAccessErrorKeepsInnermostOp(t *testing.T) {
	t.Parallel()

	inner := NewDataAccessError("scan destinations", errors.New("bad row"))
	outer := NewDataAccessError("destinations", inner)
	var dae *DataAccessError
	if !errors.As(outer, &dae) || dae.Op != "scan destinations" {
		t.Errorf("expected innermost op, got %v", outer)
	}
	if NewDataAccessError("x", nil) != nil {
		t.Error("nil error should stay nil")
	}
}
