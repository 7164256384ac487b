// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/stationexplorer/internal/models"
	"github.com/tomtom215/stationexplorer/internal/warehouse/query"
)

// completedFrom selects completed trips starting at station.
func completedFrom(station string) (string, []interface{}) {
	return query.NewWhereBuilder().
		AddEquals("start_station_name", station).
		AddNotNull("end_station_name", "ended_at").
		BuildWithPrefix()
}

// DailyCounts counts every ride starting at station per calendar date.
func (s *Store) DailyCounts(ctx context.Context, station string) ([]models.DailyCount, error) {
	where, args := query.NewWhereBuilder().AddEquals("start_station_name", station).BuildWithPrefix()
	q := fmt.Sprintf(`SELECT %s AS ride_date, %s AS trips
		FROM %s %s
		GROUP BY ride_date
		ORDER BY ride_date`,
		s.dialect.Date("started_at"), s.dialect.Int64("COUNT(*)"), s.tables.Rides, where)

	return run(ctx, s, "daily_counts", func(ctx context.Context) ([]models.DailyCount, error) {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		out := []models.DailyCount{}
		err = scanRows(rows, func(rows *sql.Rows) error {
			var dc models.DailyCount
			if err := rows.Scan(&dc.Date, &dc.Trips); err != nil {
				return err
			}
			out = append(out, dc)
			return nil
		})
		return out, err
	})
}

// DurationTotals sums the completed trips from station and their durations.
func (s *Store) DurationTotals(ctx context.Context, station string) (models.DurationTotals, error) {
	where, args := completedFrom(station)
	q := fmt.Sprintf(`SELECT %s, %s
		FROM (SELECT %s AS secs FROM %s %s) AS trips`,
		s.dialect.Int64("COUNT(*)"), s.dialect.Int64("COALESCE(SUM(secs), 0)"),
		s.dialect.TripSeconds("started_at", "ended_at"), s.tables.Rides, where)

	return run(ctx, s, "duration_totals", func(ctx context.Context) (models.DurationTotals, error) {
		var t models.DurationTotals
		err := s.db.QueryRowContext(ctx, q, args...).Scan(&t.Trips, &t.TotalSeconds)
		return t, err
	})
}

// Destinations groups completed trips from station by end station. The
// window total is taken before LIMIT so shares stay relative to every trip.
func (s *Store) Destinations(ctx context.Context, station string, limit int) (models.DestinationSet, error) {
	where, args := completedFrom(station)
	args = append(args, limit)
	q := fmt.Sprintf(`SELECT end_station_name, trips, total_seconds, total_trips
		FROM (
			SELECT end_station_name,
				%s AS trips,
				%s AS total_seconds,
				%s AS total_trips
			FROM (SELECT end_station_name, %s AS secs FROM %s %s) AS completed
			GROUP BY end_station_name
		) AS grouped
		ORDER BY trips DESC, end_station_name ASC
		LIMIT ?`,
		s.dialect.Int64("COUNT(*)"),
		s.dialect.Int64("SUM(secs)"),
		s.dialect.Int64("SUM(COUNT(*)) OVER ()"),
		s.dialect.TripSeconds("started_at", "ended_at"), s.tables.Rides, where)

	return run(ctx, s, "destinations", func(ctx context.Context) (models.DestinationSet, error) {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return models.DestinationSet{}, err
		}
		set := models.DestinationSet{Groups: []models.DestinationTotal{}}
		err = scanRows(rows, func(rows *sql.Rows) error {
			var g models.DestinationTotal
			var name sql.NullString // Nullable(String) on ClickHouse
			if err := rows.Scan(&name, &g.Trips, &g.TotalSeconds, &set.TotalTrips); err != nil {
				return err
			}
			g.StationName = name.String
			set.Groups = append(set.Groups, g)
			return nil
		})
		return set, err
	})
}

// HourlyCounts counts completed trips from station per hour of day.
func (s *Store) HourlyCounts(ctx context.Context, station string) (models.HourlyCounts, error) {
	where, args := completedFrom(station)
	q := fmt.Sprintf(`SELECT %s AS hr, %s AS trips, MIN(started_at), MAX(started_at)
		FROM %s %s
		GROUP BY hr
		ORDER BY hr`,
		s.dialect.Hour("started_at"), s.dialect.Int64("COUNT(*)"), s.tables.Rides, where)

	return run(ctx, s, "hourly_counts", func(ctx context.Context) (models.HourlyCounts, error) {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return models.HourlyCounts{}, err
		}
		hc := models.HourlyCounts{Counts: []models.HourCount{}}
		err = scanRows(rows, func(rows *sql.Rows) error {
			var c models.HourCount
			var first, last time.Time
			if err := rows.Scan(&c.Hour, &c.Trips, &first, &last); err != nil {
				return err
			}
			if hc.First.IsZero() || first.Before(hc.First) {
				hc.First = first.UTC()
			}
			if last.After(hc.Last) {
				hc.Last = last.UTC()
			}
			hc.Counts = append(hc.Counts, c)
			return nil
		})
		return hc, err
	})
}

// StartCounts ranks start stations by ride count across the whole dataset.
func (s *Store) StartCounts(ctx context.Context, limit int) ([]models.StationCount, error) {
	where, args := query.NewWhereBuilder().AddNotEmpty("start_station_name").BuildWithPrefix()
	args = append(args, limit)
	q := fmt.Sprintf(`SELECT start_station_name, %s AS trips
		FROM %s %s
		GROUP BY start_station_name
		ORDER BY trips DESC, start_station_name ASC
		LIMIT ?`,
		s.dialect.Int64("COUNT(*)"), s.tables.Rides, where)

	return run(ctx, s, "start_counts", func(ctx context.Context) ([]models.StationCount, error) {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		out := []models.StationCount{}
		err = scanRows(rows, func(rows *sql.Rows) error {
			var c models.StationCount
			var name sql.NullString
			if err := rows.Scan(&name, &c.Trips); err != nil {
				return err
			}
			c.StationName = name.String
			out = append(out, c)
			return nil
		})
		return out, err
	})
}

// TimePeriod returns the first and last ride start. An empty table yields
// the zero period.
func (s *Store) TimePeriod(ctx context.Context) (models.TimePeriod, error) {
	q := fmt.Sprintf(`SELECT %s, MIN(started_at), MAX(started_at) FROM %s`,
		s.dialect.Int64("COUNT(*)"), s.tables.Rides)

	return run(ctx, s, "time_period", func(ctx context.Context) (models.TimePeriod, error) {
		var n int64
		var first, last sql.NullTime
		if err := s.db.QueryRowContext(ctx, q).Scan(&n, &first, &last); err != nil {
			return models.TimePeriod{}, err
		}
		if n == 0 || !first.Valid || !last.Valid {
			return models.TimePeriod{}, nil
		}
		return models.TimePeriod{Start: first.Time.UTC(), End: last.Time.UTC()}, nil
	})
}

// Directory lists the station table.
func (s *Store) Directory(ctx context.Context) ([]models.Station, error) {
	q := fmt.Sprintf(`SELECT station_name, borough, neighborhood FROM %s ORDER BY station_name`,
		s.tables.Stations)

	return run(ctx, s, "directory", func(ctx context.Context) ([]models.Station, error) {
		rows, err := s.db.QueryContext(ctx, q)
		if err != nil {
			return nil, err
		}
		out := []models.Station{}
		err = scanRows(rows, func(rows *sql.Rows) error {
			var st models.Station
			if err := rows.Scan(&st.Name, &st.Borough, &st.Neighborhood); err != nil {
				return err
			}
			out = append(out, st)
			return nil
		})
		return out, err
	})
}
