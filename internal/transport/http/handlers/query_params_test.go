package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

func TestParsePositiveIntQuery(t *testing.T) {
	tests := []struct {
		name          string
		rawURL        string
		key           string
		wantValue     int
		wantPresent   bool
		wantErrFilled bool
	}{
		{name: "missing key", rawURL: "/v1/matches/closest?lat=1", key: "limit"},
		{name: "empty value", rawURL: "/v1/matches/closest?limit=", key: "limit", wantPresent: true},
		{name: "invalid value", rawURL: "/v1/matches/closest?limit=abc", key: "limit", wantPresent: true, wantErrFilled: true},
		{name: "zero value", rawURL: "/v1/matches/closest?limit=0", key: "limit", wantPresent: true, wantErrFilled: true},
		{name: "valid value", rawURL: "/v1/matches/closest?limit=3", key: "limit", wantValue: 3, wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.rawURL, nil)
			value, present, errMsg := parsePositiveIntQuery(req, tt.key)

			if value != tt.wantValue {
				t.Fatalf("value mismatch: got %d want %d", value, tt.wantValue)
			}
			if present != tt.wantPresent {
				t.Fatalf("present mismatch: got %v want %v", present, tt.wantPresent)
			}
			if (errMsg != "") != tt.wantErrFilled {
				t.Fatalf("errMsg mismatch: got %q wantFilled=%v", errMsg, tt.wantErrFilled)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantNil bool
		wantErr bool
	}{
		{name: "absent", rawURL: "/v1/matches/closest", wantNil: true},
		{name: "only lat", rawURL: "/v1/matches/closest?lat=19.4", wantNil: true, wantErr: true},
		{name: "not a number", rawURL: "/v1/matches/closest?lat=north&lng=1", wantNil: true, wantErr: true},
		{name: "out of range", rawURL: "/v1/matches/closest?lat=19.4&lng=-190", wantNil: true, wantErr: true},
		{name: "valid", rawURL: "/v1/matches/closest?lat=19.4326&lng=-99.1332"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.rawURL, nil)
			loc, errMsg := parseCoordinates(req)

			if (loc == nil) != tt.wantNil {
				t.Fatalf("nil mismatch: got %v", loc)
			}
			if (errMsg != "") != tt.wantErr {
				t.Fatalf("errMsg mismatch: got %q", errMsg)
			}
		})
	}
}

func TestRequireCoordinates(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/weather", nil)
	if _, errMsg := requireCoordinates(req); errMsg == "" {
		t.Fatal("expected error when coordinates are missing")
	}

	req = httptest.NewRequest("GET", "/v1/weather?lat=25.67&lng=-100.31", nil)
	loc, errMsg := requireCoordinates(req)
	if errMsg != "" || loc.Lat != 25.67 {
		t.Fatalf("unexpected result: %+v %q", loc, errMsg)
	}
}

func TestParseCategories(t *testing.T) {
	got := parseCategories(" atm, ,lodging,")
	want := []models.PlaceCategory{models.CategoryATM, models.CategoryLodging}
	if len(got) != len(want) {
		t.Fatalf("unexpected categories: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("category %d: got %q want %q", i, got[i], want[i])
		}
	}
	if parseCategories("") != nil {
		t.Fatal("empty input must give nil")
	}
}
