// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package presenter turns engine results into the station explorer dashboard:
// a title, the dataset period, the station selectors, two headline metrics, a
// top destinations table and an hourly ride chart. All strings are formatted
// here so every client renders the same text.
package presenter

import (
	"fmt"
	"math"

	"github.com/tomtom215/stationexplorer/internal/models"
)

// Fixed dashboard text.
const (
	Title              = "NYC Citibike Station Explorer"
	NoData             = "No data"
	LabelBorough       = "Select Borough"
	LabelNeighborhood  = "Select Neighborhood"
	LabelStation       = "Select Station"
	MetricTripsPerDay  = "Completed Trips"
	MetricTripLength   = "Average Trip Length"
	ChartTitle         = "Hourly Ride Distribution"
	ChartXAxis         = "Time of Day"
	ChartYAxis         = "# Trips (daily avg.)"
	DefaultTableRows   = 5
	dateLayout         = "2006-01-02"
	tableTitleTemplate = "Top Destinations for %s"
)

// TableColumns returns the headings of the destinations table. Each call
// returns a fresh slice.
func TableColumns() []string {
	return []string{"Station Name", "# Trips", "% of Total Trips", "Avg. Trip Length (minutes)"}
}

// Dashboard is the complete view model for one station.
type Dashboard struct {
	Title     string     `json:"title"`
	Period    string     `json:"period"`
	Selectors []Selector `json:"selectors"`
	Station   string     `json:"station"`
	Metrics   []Metric   `json:"metrics"`
	Table     Table      `json:"table"`
	Chart     Chart      `json:"chart"`
}

// Selector is one select box with its options and chosen value.
type Selector struct {
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// Metric is a labeled headline value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table holds formatted cells, one row per destination.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Chart is a bar chart of rides per hour.
type Chart struct {
	Title string `json:"title"`
	XAxis string `json:"x_axis"`
	YAxis string `json:"y_axis"`
	Bars  []Bar  `json:"bars"`
}

// Bar is one hour of the chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PeriodLabel formats the dataset span by calendar date.
func PeriodLabel(p models.TimePeriod) string {
	if p.IsZero() {
		return NoData
	}
	return fmt.Sprintf("Data for %s through %s", p.Start.Format(dateLayout), p.End.Format(dateLayout))
}

// TripsPerDayValue rounds half to even and drops the fraction. A station with
// no rides gets the neutral value.
func TripsPerDayValue(avg float64) string {
	if avg == 0 {
		return NoData
	}
	return fmt.Sprintf("%d per day (avg.)", int64(math.RoundToEven(avg)))
}

// TripLengthValue formats the mean trip length to one decimal.
func TripLengthValue(minutes *float64) string {
	if minutes == nil {
		return NoData
	}
	return fmt.Sprintf("%.1f minutes", *minutes)
}

// DestinationTable formats up to rows destinations.
func DestinationTable(station string, dests []models.Destination, rows int) Table {
	if rows <= 0 {
		rows = DefaultTableRows
	}
	if len(dests) > rows {
		dests = dests[:rows]
	}

	t := Table{
		Title:   fmt.Sprintf(tableTitleTemplate, station),
		Columns: TableColumns(),
		Rows:    make([][]string, 0, len(dests)),
	}
	for _, d := range dests {
		t.Rows = append(t.Rows, []string{
			d.StationName,
			fmt.Sprintf("%d", d.TripCount),
			fmt.Sprintf("%.1f%%", d.PctOfTotal*100),
			fmt.Sprintf("%.1f", d.AvgTripLengthMinutes),
		})
	}
	return t
}

// HourlyChart turns hourly rates into 24 bars labeled HH:00:00. Hours
// missing from rates are drawn as zero; hours outside 0-23 are ignored.
func HourlyChart(rates []models.HourlyRate) Chart {
	c := Chart{
		Title: ChartTitle,
		XAxis: ChartXAxis,
		YAxis: ChartYAxis,
		Bars:  make([]Bar, models.HoursPerDay),
	}
	for h := range c.Bars {
		c.Bars[h].Label = fmt.Sprintf("%02d:00:00", h)
	}
	for _, r := range rates {
		if r.Hour < 0 || r.Hour >= models.HoursPerDay {
			continue
		}
		c.Bars[r.Hour].Value = r.RidesPerDay
	}
	return c
}

// Metrics builds the two headline metrics.
func Metrics(s *models.StationStats) []Metric {
	return []Metric{
		{Label: MetricTripsPerDay, Value: TripsPerDayValue(s.AvgTripsPerDay)},
		{Label: MetricTripLength, Value: TripLengthValue(s.AvgTripLengthMinutes)},
	}
}
