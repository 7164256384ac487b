// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package presenter

import (
	"context"
	"fmt"

	"github.com/tomtom215/stationexplorer/internal/config"
	"github.com/tomtom215/stationexplorer/internal/logging"
	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/stations"
	"github.com/tomtom215/stationexplorer/internal/stats"
)

// Options configures a Builder.
type Options struct {
	// Selection is config.SelectionCascade or config.SelectionPopular.
	Selection    string
	TopLimit     int
	PopularLimit int
	TableRows    int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Selection:    config.SelectionCascade,
		TopLimit:     stats.DefaultTopLimit,
		PopularLimit: stats.DefaultPopularLimit,
		TableRows:    DefaultTableRows,
	}
}

// Builder assembles dashboards from an engine.
type Builder struct {
	engine *stats.Engine
	opts   Options
}

// NewBuilder creates a Builder. Zero option fields fall back to the defaults.
func NewBuilder(engine *stats.Engine, opts Options) *Builder {
	def := DefaultOptions()
	if opts.Selection == "" {
		opts.Selection = def.Selection
	}
	if opts.TopLimit <= 0 {
		opts.TopLimit = def.TopLimit
	}
	if opts.PopularLimit <= 0 {
		opts.PopularLimit = def.PopularLimit
	}
	if opts.TableRows <= 0 {
		opts.TableRows = def.TableRows
	}
	return &Builder{engine: engine, opts: opts}
}

// Build resolves sel against the current selection mode and renders the
// dashboard for the resolved station. Invalid choices never fail; they are
// replaced the way a select box would replace them.
func (b *Builder) Build(ctx context.Context, sel stations.Selection) (*Dashboard, error) {
	period, err := b.engine.TimePeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard period: %w", err)
	}

	selectors, station, err := b.selectors(ctx, sel)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Title:     Title,
		Period:    PeriodLabel(period),
		Selectors: selectors,
		Station:   station,
	}

	if station == "" {
		d.Metrics = Metrics(&models.StationStats{})
		d.Table = DestinationTable("", nil, b.opts.TableRows)
		d.Chart = HourlyChart(nil)
		return d, nil
	}

	ctx = logging.ContextWithStation(ctx, station)
	s, err := b.engine.StationStats(ctx, station, b.opts.TopLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	d.Metrics = Metrics(s)
	d.Table = DestinationTable(station, s.TopDestinations, b.opts.TableRows)
	d.Chart = HourlyChart(s.HourlyRate)
	return d, nil
}

// Selection resolves sel without computing any statistics.
func (b *Builder) Selection(ctx context.Context, sel stations.Selection) ([]Selector, string, error) {
	return b.selectors(ctx, sel)
}

func (b *Builder) selectors(ctx context.Context, sel stations.Selection) ([]Selector, string, error) {
	if b.opts.Selection == config.SelectionPopular {
		counts, err := b.engine.StationsByPopularity(ctx, b.opts.PopularLimit)
		if err != nil {
			return nil, "", fmt.Errorf("dashboard stations: %w", err)
		}
		options := stations.Popular(counts)
		station := stations.ResolveFlat(options, sel.Station)
		return []Selector{{Label: LabelStation, Options: options, Selected: station}}, station, nil
	}

	dir, err := b.engine.Directory(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("dashboard directory: %w", err)
	}
	c := stations.Resolve(dir, sel)
	return []Selector{
		{Label: LabelBorough, Options: c.Boroughs, Selected: c.Selection.Borough},
		{Label: LabelNeighborhood, Options: c.Neighborhoods, Selected: c.Selection.Neighborhood},
		{Label: LabelStation, Options: c.Stations, Selected: c.Selection.Station},
	}, c.Selection.Station, nil
}
