// Station Explorer - Bike Share Ridership Analytics by Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stationexplorer

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	Station string `query:"station" validate:"required,stationname"`
	Borough string `query:"borough" validate:"omitempty,stationname"`
	Limit   int    `query:"limit" validate:"gte=1,lte=1000"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantTag   string
	}{
		{name: "valid", req: testRequest{Station: "W 21 St & 6 Ave", Limit: 20}},
		{name: "quotes are fine", req: testRequest{Station: `O'Brien "Dock"`, Limit: 1}},
		{name: "missing station", req: testRequest{Limit: 20}, wantField: "station", wantTag: "required"},
		{name: "control character", req: testRequest{Station: "A\x00B", Limit: 20}, wantField: "station", wantTag: "stationname"},
		{name: "too long", req: testRequest{Station: strings.Repeat("x", MaxNameLength+1), Limit: 20}, wantField: "station", wantTag: "stationname"},
		{name: "bad borough", req: testRequest{Station: "A", Borough: "\n", Limit: 20}, wantField: "borough", wantTag: "stationname"},
		{name: "limit zero", req: testRequest{Station: "A", Limit: 0}, wantField: "limit", wantTag: "gte"},
		{name: "limit too large", req: testRequest{Station: "A", Limit: 1001}, wantField: "limit", wantTag: "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&testRequest{Station: "A", Limit: 5000})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != ErrorCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrorCode)
	}
	if apiErr.Message != "limit must be less than or equal to 1000" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "limit" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&testRequest{Limit: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "station: station is required") ||
		!strings.Contains(apiErr.Message, "limit: limit must be greater than or equal to 1") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details = %v", apiErr.Details)
	}
}
