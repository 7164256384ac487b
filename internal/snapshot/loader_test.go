// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/stationexplorer/internal/stats"
)

const ridesCSV = `ride_id,started_at,ended_at,start_station_name,end_station_name
r1,2023-01-01 08:00:00,2023-01-01 08:10:00,A,B
r2,2023-01-01 09:00:00.250,2023-01-01 09:20:00.750,A,B
r3,2023-01-02T10:00:00Z,,A,
"r4",2023-01-02 11:00:00,2023-01-02 11:30:00,"Broadway & W 60 St, North",C
`

func TestLoadRides(t *testing.T) {
	t.Parallel()

	rides, err := LoadRides(strings.NewReader(ridesCSV))
	if err != nil {
		t.Fatalf("LoadRides() error = %v", err)
	}
	if len(rides) != 4 {
		t.Fatalf("got %d rides, want 4", len(rides))
	}

	if !rides[0].StartedAt.Equal(time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("r1 started_at = %v", rides[0].StartedAt)
	}
	if secs, ok := rides[1].TripSeconds(); !ok || secs != 1200 {
		t.Errorf("r2 trip seconds = %d, %v; want 1200, true", secs, ok)
	}
	if rides[2].Completed() || rides[2].EndedAt != nil || rides[2].EndStationName != nil {
		t.Errorf("r3 should be incomplete with null end fields: %+v", rides[2])
	}
	if rides[2].StartedAt.Hour() != 10 {
		t.Errorf("r3 hour = %d, want 10 (wall clock kept)", rides[2].StartedAt.Hour())
	}
	if rides[3].StartStationName != "Broadway & W 60 St, North" {
		t.Errorf("quoted station name = %q", rides[3].StartStationName)
	}
}

func TestLoadRidesColumnOrderFromHeader(t *testing.T) {
	t.Parallel()

	csv := "END_STATION_NAME,start_station_name,ride_id,ended_at,started_at\nB,A,r1,2023-01-01 08:10:00,2023-01-01 08:00:00\n"
	rides, err := LoadRides(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadRides() error = %v", err)
	}
	if rides[0].StartStationName != "A" || *rides[0].EndStationName != "B" {
		t.Errorf("columns mapped incorrectly: %+v", rides[0])
	}
}

func TestLoadRidesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{"empty", "", "empty file"},
		{"missing column", "ride_id,started_at\nr1,2023-01-01 08:00:00\n", "end"},
		{"bad timestamp", "ride_id,started_at,ended_at,start_station_name,end_station_name\nr1,2023-01-01 08:00:00,,A,\nr2,yesterday,,A,\n", "line 3"},
		{"empty ride id", "ride_id,started_at,ended_at,start_station_name,end_station_name\n,2023-01-01 08:00:00,,A,\n", "empty ride_id"},
		{"short row", "ride_id,started_at,ended_at,start_station_name,end_station_name\nr1,2023-01-01 08:00:00\n", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRides(strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, stats.ErrDataAccess) {
				t.Errorf("expected a data access error, got %T %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadStations(t *testing.T) {
	t.Parallel()

	csv := "\ufeffstation_name,borough,neighborhood\nPier 2,Brooklyn,Brooklyn Heights\nW 21 St & 6 Ave,Manhattan,Chelsea\n"
	dir, err := LoadStations(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadStations() error = %v", err)
	}
	if len(dir) != 2 || dir[1].Neighborhood != "Chelsea" {
		t.Errorf("unexpected directory %+v", dir)
	}

	if _, err := LoadStations(strings.NewReader("station_name,borough,neighborhood\n,Brooklyn,X\n")); err == nil {
		t.Error("empty station name should fail")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ridesPath := filepath.Join(dir, "rides.csv")
	stationsPath := filepath.Join(dir, "stations.csv")
	if err := os.WriteFile(ridesPath, []byte(ridesCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stationsPath, []byte("station_name,borough,neighborhood\nA,Manhattan,Chelsea\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := Open(ridesPath, stationsPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}

	if _, err := Open(filepath.Join(dir, "missing.csv"), ""); !errors.Is(err, stats.ErrDataAccess) {
		t.Errorf("missing file should be a data access error, got %v", err)
	}
}
