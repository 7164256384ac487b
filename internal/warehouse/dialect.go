// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package warehouse

import "fmt"

// Dialect supplies the engine-specific SQL expressions a Store needs. Both
// supported engines bind positional ? parameters.
type Dialect interface {
	// Name labels metrics and errors, e.g. "duckdb".
	Name() string

	// TripSeconds is the whole-second duration from start to end, truncated
	// toward zero, as a 64-bit integer.
	TripSeconds(start, end string) string

	// Hour is the 0-23 hour of day of a timestamp column.
	Hour(col string) string

	// Date is the calendar date of a timestamp column.
	Date(col string) string

	// Int64 casts an aggregate to a 64-bit signed integer.
	Int64(expr string) string
}

// DuckDB is the dialect of the embedded DuckDB store.
type DuckDB struct{}

func (DuckDB) Name() string { return "duckdb" }

// TripSeconds works on epoch microseconds; TIMESTAMP has microsecond precision.
func (DuckDB) TripSeconds(start, end string) string {
	return fmt.Sprintf("CAST(trunc((epoch_us(%s) - epoch_us(%s)) / 1000000.0) AS BIGINT)", end, start)
}

func (DuckDB) Hour(col string) string { return fmt.Sprintf("CAST(hour(%s) AS BIGINT)", col) }

func (DuckDB) Date(col string) string { return fmt.Sprintf("CAST(%s AS DATE)", col) }

// Int64 matters for SUM, which DuckDB widens to HUGEINT.
func (DuckDB) Int64(expr string) string { return fmt.Sprintf("CAST(%s AS BIGINT)", expr) }

// ClickHouse is the dialect of a remote ClickHouse warehouse whose timestamp
// columns are DateTime64(6, 'UTC').
type ClickHouse struct{}

func (ClickHouse) Name() string { return "clickhouse" }

// TripSeconds strips Nullable from the end column; callers filter out NULLs.
func (ClickHouse) TripSeconds(start, end string) string {
	return fmt.Sprintf("toInt64(trunc((toUnixTimestamp64Micro(assumeNotNull(%s)) - toUnixTimestamp64Micro(%s)) / 1000000))", end, start)
}

func (ClickHouse) Hour(col string) string { return fmt.Sprintf("toInt64(toHour(%s))", col) }

func (ClickHouse) Date(col string) string { return fmt.Sprintf("toDate(%s)", col) }

func (ClickHouse) Int64(expr string) string { return fmt.Sprintf("toInt64(%s)", expr) }

// DialectFor returns the dialect for a configured backend name.
func DialectFor(backend string) (Dialect, error) {
	switch backend {
	case "duckdb":
		return DuckDB{}, nil
	case "clickhouse":
		return ClickHouse{}, nil
	default:
		return nil, fmt.Errorf("no SQL dialect for backend %q", backend)
	}
}
