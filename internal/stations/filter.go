// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package stations implements the borough, neighborhood and station cascade
// used to pick a station from the directory. Every function is pure: the
// directory is passed in and never modified.
//
// Unknown boroughs or neighborhoods produce empty option lists rather than
// errors.
package stations

import (
	"sort"

	"github.com/tomtom215/stationexplorer/internal/models"
)

// Level names a step of the cascade.
type Level string

const (
	LevelBorough      Level = "borough"
	LevelNeighborhood Level = "neighborhood"
	LevelStation      Level = "station"
)

// Selection is a possibly partial choice. Empty fields are unselected.
type Selection struct {
	Borough      string `json:"borough"`
	Neighborhood string `json:"neighborhood"`
	Station      string `json:"station"`
}

// Options is the next level to choose from along with its values.
type Options struct {
	Level  Level    `json:"level"`
	Values []string `json:"values"`
}

// Boroughs returns the distinct boroughs in the directory, sorted.
func Boroughs(dir []models.Station) []string {
	return distinct(dir, func(s *models.Station) (string, bool) {
		return s.Borough, true
	})
}

// Neighborhoods returns the distinct neighborhoods within borough, sorted.
func Neighborhoods(dir []models.Station, borough string) []string {
	return distinct(dir, func(s *models.Station) (string, bool) {
		return s.Neighborhood, s.Borough == borough
	})
}

// Names returns the distinct station names located in both borough and
// neighborhood, sorted.
func Names(dir []models.Station, borough, neighborhood string) []string {
	return distinct(dir, func(s *models.Station) (string, bool) {
		return s.Name, s.Borough == borough && s.Neighborhood == neighborhood
	})
}

// NextOptions returns the values for the first unselected level of sel:
// boroughs when nothing is chosen, neighborhoods once a borough is chosen and
// stations once a neighborhood is chosen as well.
func NextOptions(dir []models.Station, sel Selection) Options {
	switch {
	case sel.Borough == "":
		return Options{Level: LevelBorough, Values: Boroughs(dir)}
	case sel.Neighborhood == "":
		return Options{Level: LevelNeighborhood, Values: Neighborhoods(dir, sel.Borough)}
	default:
		return Options{Level: LevelStation, Values: Names(dir, sel.Borough, sel.Neighborhood)}
	}
}

func distinct(dir []models.Station, pick func(*models.Station) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range dir {
		v, ok := pick(&dir[i])
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
