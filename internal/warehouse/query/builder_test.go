// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package query

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	clause, args := wb.Build()
	if clause != "1=1" {
		t.Errorf("Build() clause = %q, want 1=1", clause)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want none", args)
	}
}

func TestWhereBuilder_Combinations(t *testing.T) {
	tests := []struct {
		name       string
		build      func() *WhereBuilder
		wantClause string
		wantArgs   []interface{}
		wantCount  int
	}{
		{
			name:       "equals",
			build:      func() *WhereBuilder { return NewWhereBuilder().AddEquals("start_station_name", "A") },
			wantClause: "WHERE start_station_name = ?",
			wantArgs:   []interface{}{"A"},
			wantCount:  1,
		},
		{
			name: "completed trips from station",
			build: func() *WhereBuilder {
				return NewWhereBuilder().
					AddEquals("start_station_name", "A").
					AddNotNull("end_station_name", "ended_at")
			},
			wantClause: "WHERE start_station_name = ? AND end_station_name IS NOT NULL AND ended_at IS NOT NULL",
			wantArgs:   []interface{}{"A"},
			wantCount:  3,
		},
		{
			name:       "not empty",
			build:      func() *WhereBuilder { return NewWhereBuilder().AddNotEmpty("start_station_name") },
			wantClause: "WHERE start_station_name IS NOT NULL AND start_station_name <> ''",
			wantArgs:   []interface{}{},
			wantCount:  2,
		},
		{
			name: "raw clause with several args",
			build: func() *WhereBuilder {
				return NewWhereBuilder().AddClause("trips BETWEEN ? AND ?", 1, 10)
			},
			wantClause: "WHERE trips BETWEEN ? AND ?",
			wantArgs:   []interface{}{1, 10},
			wantCount:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := tt.build()
			clause, args := wb.BuildWithPrefix()
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
			if wb.Count() != tt.wantCount {
				t.Errorf("Count() = %d, want %d", wb.Count(), tt.wantCount)
			}
		})
	}
}

func TestWhereBuilder_ValuesNeverSpliced(t *testing.T) {
	station := "O'Brien St \"& 1 Ave; DROP TABLE rides"
	clause, args := NewWhereBuilder().AddEquals("start_station_name", station).Build()

	if clause != "start_station_name = ?" {
		t.Errorf("clause = %q, value leaked into query text", clause)
	}
	if len(args) != 1 || args[0] != station {
		t.Errorf("args = %v, want [%q]", args, station)
	}
}
