// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

// Ride CSV columns. Order in the file is free; the header decides.
var rideColumns = []string{"ride_id", "started_at", "ended_at", "start_station_name", "end_station_name"}

// Station CSV columns.
var stationColumns = []string{"station_name", "borough", "neighborhood"}

// timestampLayouts are tried in order. Zone information, when present, is
// dropped and the wall-clock value kept.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02 15:04",
}

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

// LoadRides parses a ride CSV with a header row. Empty ended_at and
// end_station_name cells are read as null. A malformed row fails the whole
// load with its line number.
func LoadRides(r io.Reader) ([]models.RideEvent, error) {
	cr := newReader(r)
	index, err := readHeader(cr, rideColumns)
	if err != nil {
		return nil, stats.NewDataAccessError("read rides header", err)
	}

	var rides []models.RideEvent
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats.NewDataAccessError("read rides", err)
		}
		line, _ := cr.FieldPos(0)

		ride, err := parseRide(record, index)
		if err != nil {
			return nil, stats.NewDataAccessError("parse rides", fmt.Errorf("line %d: %w", line, err))
		}
		rides = append(rides, ride)
	}
	return rides, nil
}

// LoadStations parses a station directory CSV with a header row.
func LoadStations(r io.Reader) ([]models.Station, error) {
	cr := newReader(r)
	index, err := readHeader(cr, stationColumns)
	if err != nil {
		return nil, stats.NewDataAccessError("read stations header", err)
	}

	var dir []models.Station
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats.NewDataAccessError("read stations", err)
		}
		line, _ := cr.FieldPos(0)

		s := models.Station{
			Name:         strings.TrimSpace(record[index["station_name"]]),
			Borough:      strings.TrimSpace(record[index["borough"]]),
			Neighborhood: strings.TrimSpace(record[index["neighborhood"]]),
		}
		if s.Name == "" {
			return nil, stats.NewDataAccessError("parse stations", fmt.Errorf("line %d: empty station_name", line))
		}
		dir = append(dir, s)
	}
	return dir, nil
}

// LoadFiles reads rides from ridesPath and, when stationsPath is not empty,
// the station directory from stationsPath.
func LoadFiles(ridesPath, stationsPath string) ([]models.RideEvent, []models.Station, error) {
	rides, err := loadFile(ridesPath, LoadRides)
	if err != nil {
		return nil, nil, err
	}
	if stationsPath == "" {
		return rides, nil, nil
	}
	dir, err := loadFile(stationsPath, LoadStations)
	if err != nil {
		return nil, nil, err
	}
	return rides, dir, nil
}

func loadFile[T any](path string, load func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, stats.NewDataAccessError("open snapshot", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true
	return cr
}

func readHeader(cr *csv.Reader, required []string) (map[string]int, error) {
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return index, nil
}

func parseRide(record []string, index map[string]int) (models.RideEvent, error) {
	ride := models.RideEvent{
		RideID:           strings.TrimSpace(record[index["ride_id"]]),
		StartStationName: strings.TrimSpace(record[index["start_station_name"]]),
	}
	if ride.RideID == "" {
		return ride, errors.New("empty ride_id")
	}

	started, err := parseTimestamp(record[index["started_at"]])
	if err != nil {
		return ride, fmt.Errorf("started_at: %w", err)
	}
	ride.StartedAt = started

	if raw := strings.TrimSpace(record[index["ended_at"]]); raw != "" {
		ended, err := parseTimestamp(raw)
		if err != nil {
			return ride, fmt.Errorf("ended_at: %w", err)
		}
		ride.EndedAt = &ended
	}
	if name := strings.TrimSpace(record[index["end_station_name"]]); name != "" {
		ride.EndStationName = &name
	}
	return ride, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return wallClock(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// wallClock keeps the clock reading of t and labels it UTC.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
