// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package stations

import (
	"github.com/tomtom215/stationexplorer/internal/models"
)

// Cascade is a fully resolved selection with the options offered at each level.
type Cascade struct {
	Selection     Selection `json:"selection"`
	Boroughs      []string  `json:"boroughs"`
	Neighborhoods []string  `json:"neighborhoods"`
	Stations      []string  `json:"stations"`
}

// Complete reports whether a station could be resolved.
func (c *Cascade) Complete() bool {
	return c.Selection.Station != ""
}

// Resolve validates sel top-down the way a chain of select boxes behaves. A
// missing or invalid choice at any level is replaced by the first option of
// that level, and every level below it is re-selected from its own first
// option, so a stale neighborhood or station never survives a borough change.
// The resolved station is always located in the resolved borough and
// neighborhood; it is empty only when the directory offers nothing to choose.
func Resolve(dir []models.Station, sel Selection) Cascade {
	var c Cascade

	c.Boroughs = Boroughs(dir)
	borough, kept := choose(c.Boroughs, sel.Borough)
	c.Selection.Borough = borough

	c.Neighborhoods = Neighborhoods(dir, borough)
	neighborhood := ""
	if kept {
		neighborhood, kept = choose(c.Neighborhoods, sel.Neighborhood)
	} else {
		neighborhood, _ = choose(c.Neighborhoods, "")
	}
	c.Selection.Neighborhood = neighborhood

	c.Stations = Names(dir, borough, neighborhood)
	station := ""
	if kept {
		station, _ = choose(c.Stations, sel.Station)
	} else {
		station, _ = choose(c.Stations, "")
	}
	c.Selection.Station = station

	return c
}

// choose returns want when it is one of options, otherwise the first option.
// The second result reports whether want was kept.
func choose(options []string, want string) (string, bool) {
	if want != "" {
		for _, o := range options {
			if o == want {
				return want, true
			}
		}
	}
	if len(options) == 0 {
		return "", false
	}
	return options[0], false
}

// Popular builds the flat station list from popularity counts, preserving
// their order.
func Popular(counts []models.StationCount) []string {
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.StationName)
	}
	return out
}

// ResolveFlat picks want from a flat list, or its first entry when want is
// absent from the list.
func ResolveFlat(options []string, want string) string {
	v, _ := choose(options, want)
	return v
}
