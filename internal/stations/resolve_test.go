// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stations

import (
	"reflect"
	"testing"

	"github.com/tomtom215/stationexplorer/internal/models"
)

func TestResolveDefaultsToFirstOptions(t *testing.T) {
	t.Parallel()

	c := Resolve(testDirectory(), Selection{})
	want := Selection{Borough: "Brooklyn", Neighborhood: "Brooklyn Heights", Station: "Clinton St & Joralemon St"}
	if c.Selection != want {
		t.Errorf("Resolve() = %+v, want %+v", c.Selection, want)
	}
	if !c.Complete() {
		t.Error("expected a complete selection")
	}
}

func TestResolveKeepsValidSelection(t *testing.T) {
	t.Parallel()

	sel := Selection{Borough: "Manhattan", Neighborhood: "Chelsea", Station: "W 21 St & 6 Ave"}
	c := Resolve(testDirectory(), sel)
	if c.Selection != sel {
		t.Errorf("Resolve() = %+v, want %+v", c.Selection, sel)
	}
	if !reflect.DeepEqual(c.Stations, []string{"8 Ave & W 31 St", "W 21 St & 6 Ave"}) {
		t.Errorf("Stations = %v", c.Stations)
	}
}

func TestResolveInvalidatesStaleDownstreamChoices(t *testing.T) {
	t.Parallel()

	// Borough switched to Brooklyn while the old Manhattan choices are still sent.
	c := Resolve(testDirectory(), Selection{Borough: "Brooklyn", Neighborhood: "Chelsea", Station: "W 21 St & 6 Ave"})
	want := Selection{Borough: "Brooklyn", Neighborhood: "Brooklyn Heights", Station: "Clinton St & Joralemon St"}
	if c.Selection != want {
		t.Errorf("Resolve() = %+v, want %+v", c.Selection, want)
	}
}

func TestResolveInvalidBoroughResetsEverything(t *testing.T) {
	t.Parallel()

	// Union Square exists in both boroughs, but the borough itself is invalid,
	// so the neighborhood must still be re-selected.
	c := Resolve(testDirectory(), Selection{Borough: "Queens", Neighborhood: "Union Square", Station: "Union Square Annex"})
	want := Selection{Borough: "Brooklyn", Neighborhood: "Brooklyn Heights", Station: "Clinton St & Joralemon St"}
	if c.Selection != want {
		t.Errorf("Resolve() = %+v, want %+v", c.Selection, want)
	}
}

func TestResolveNeverCrossesNeighborhoods(t *testing.T) {
	t.Parallel()

	dir := testDirectory()
	for _, b := range Boroughs(dir) {
		for _, n := range Neighborhoods(dir, b) {
			for _, s := range []string{"Pier 2", "Broadway & E 14 St", "Union Square Annex", ""} {
				c := Resolve(dir, Selection{Borough: b, Neighborhood: n, Station: s})
				found := false
				for _, st := range dir {
					if st.Name == c.Selection.Station && st.Borough == c.Selection.Borough && st.Neighborhood == c.Selection.Neighborhood {
						found = true
					}
				}
				if !found {
					t.Errorf("Resolve(%s/%s/%s) produced %+v outside the directory", b, n, s, c.Selection)
				}
			}
		}
	}
}

func TestResolveEmptyDirectory(t *testing.T) {
	t.Parallel()

	c := Resolve(nil, Selection{Borough: "Manhattan"})
	if c.Complete() || c.Selection != (Selection{}) {
		t.Errorf("empty directory should resolve to nothing, got %+v", c.Selection)
	}
}

func TestPopularAndResolveFlat(t *testing.T) {
	t.Parallel()

	list := Popular([]models.StationCount{{StationName: "Pier 2", Trips: 9}, {StationName: "Pier 40", Trips: 3}})
	if !reflect.DeepEqual(list, []string{"Pier 2", "Pier 40"}) {
		t.Fatalf("Popular() = %v", list)
	}
	if got := ResolveFlat(list, "Pier 40"); got != "Pier 40" {
		t.Errorf("ResolveFlat kept = %q", got)
	}
	if got := ResolveFlat(list, "elsewhere"); got != "Pier 2" {
		t.Errorf("ResolveFlat fallback = %q", got)
	}
	if got := ResolveFlat(nil, "x"); got != "" {
		t.Errorf("ResolveFlat on empty list = %q", got)
	}
}
