// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/presenter"
	"github.com/tomtom215/stationexplorer/internal/snapshot"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

var testDay = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

func testRide(id, from string, start time.Time, minutes int, to string) models.RideEvent {
	r := models.RideEvent{RideID: id, StartStationName: from, StartedAt: start}
	if to != "" {
		end := start.Add(time.Duration(minutes) * time.Minute)
		r.EndedAt = &end
		r.EndStationName = &to
	}
	return r
}

func testSource() stats.Source {
	dir := []models.Station{
		{Name: "W 21 St & 6 Ave", Borough: "Manhattan", Neighborhood: "Chelsea"},
		{Name: "8 Ave & W 31 St", Borough: "Manhattan", Neighborhood: "Chelsea"},
		{Name: "Broadway & E 14 St", Borough: "Manhattan", Neighborhood: "Union Square"},
		{Name: "Kent Ave & N 7 St", Borough: "Brooklyn", Neighborhood: "Williamsburg"},
	}
	rides := []models.RideEvent{
		testRide("1", "8 Ave & W 31 St", testDay.Add(8*time.Hour), 10, "Broadway & E 14 St"),
		testRide("2", "8 Ave & W 31 St", testDay.Add(9*time.Hour), 20, "Broadway & E 14 St"),
		testRide("3", "8 Ave & W 31 St", testDay.Add(34*time.Hour), 30, "W 21 St & 6 Ave"),
		testRide("4", "Kent Ave & N 7 St", testDay.Add(12*time.Hour), 5, "Kent Ave & N 7 St"),
		testRide("5", "Kent Ave & N 7 St", testDay.Add(13*time.Hour), 0, ""),
	}
	return snapshot.NewTable(rides, dir)
}

// stubPinger reports a fixed ping result.
type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestHandler(source stats.Source, pinger Pinger, selection string) *Handler {
	engine := stats.NewEngine(source)
	builder := presenter.NewBuilder(engine, presenter.Options{Selection: selection})
	return NewHandler(engine, builder, pinger, HandlerConfig{Version: "test", Backend: config.BackendSnapshot})
}

func newTestServer(t *testing.T, h *Handler) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, RouterOptions{Middleware: cfg}).SetupChi()
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doGet(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("GET %s: decode body %q: %v", target, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
