// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

// Package query builds the parameterized WHERE clauses shared by the
// warehouse dialects.
//
//	wb := query.NewWhereBuilder().
//		AddEquals("start_station_name", station).
//		AddNotNull("end_station_name", "ended_at")
//	where, args := wb.BuildWithPrefix()
//	// WHERE start_station_name = ? AND end_station_name IS NOT NULL AND ended_at IS NOT NULL
//
// Column names are always literals from the calling code. Values only ever
// travel as bound arguments.
package query

import (
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with positional ? arguments.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?" bound to value.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddNotNull adds an IS NOT NULL condition for every column.
func (wb *WhereBuilder) AddNotNull(columns ...string) *WhereBuilder {
	for _, c := range columns {
		wb.clauses = append(wb.clauses, c+" IS NOT NULL")
	}
	return wb
}

// AddNotEmpty requires column to be present and non-empty.
func (wb *WhereBuilder) AddNotEmpty(column string) *WhereBuilder {
	wb.AddNotNull(column)
	return wb.AddClause(column + " <> ''")
}

// Build returns the joined conditions, or "1=1" when there are none.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of conditions.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no conditions have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
