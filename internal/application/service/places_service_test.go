package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	googlemaps "github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/http/client"
	"go.uber.org/zap"
)

type placeSourceMock struct {
	mu       sync.Mutex
	results  map[models.PlaceCategory][]models.Place
	errs     map[models.PlaceCategory]error
	searches []ports.PlaceSearch
}

func (m *placeSourceMock) SearchNearby(_ context.Context, search ports.PlaceSearch) ([]models.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches = append(m.searches, search)
	if err := m.errs[search.Category]; err != nil {
		return nil, err
	}
	return m.results[search.Category], nil
}

type placeCacheMock struct {
	mu       sync.Mutex
	entries  map[models.PlaceCategory][]models.Place
	getErr   error
	setCalls int
	lastTTL  time.Duration
}

func (m *placeCacheMock) GetPlaces(_ context.Context, search ports.PlaceSearch) ([]models.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	if places, ok := m.entries[search.Category]; ok {
		return places, nil
	}
	return nil, derr.ErrCacheMiss
}

func (m *placeCacheMock) SetPlaces(_ context.Context, search ports.PlaceSearch, places []models.Place, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	m.lastTTL = ttl
	if m.entries == nil {
		m.entries = make(map[models.PlaceCategory][]models.Place)
	}
	m.entries[search.Category] = places
	return nil
}

var zocalo = models.Coordinates{Lat: 19.4326, Lng: -99.1332}

func TestNearby_DefaultsToAllCategoriesAndSorts(t *testing.T) {
	source := &placeSourceMock{results: map[models.PlaceCategory][]models.Place{
		models.CategoryRestaurant: {
			{ID: "far", Location: models.Coordinates{Lat: 19.45, Lng: -99.14}},
			{ID: "near", Location: models.Coordinates{Lat: 19.4327, Lng: -99.1333}},
		},
	}}
	svc := NewPlacesService(zap.NewNop(), source, nil, 0, 0)

	got, err := svc.Nearby(context.Background(), zocalo, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(source.searches) != len(models.AllCategories) {
		t.Fatalf("expected one search per category, got %d", len(source.searches))
	}
	for _, s := range source.searches {
		if s.RadiusM != DefaultRadiusM {
			t.Fatalf("expected default radius, got %d", s.RadiusM)
		}
	}

	restaurants := got.Results[models.CategoryRestaurant]
	if len(restaurants) != 2 || restaurants[0].ID != "near" || restaurants[0].DistanceKm == nil {
		t.Fatalf("expected sorted restaurants with distance, got %+v", restaurants)
	}
	if len(got.Results) != len(models.AllCategories) || len(got.Errors) != 0 {
		t.Fatalf("unexpected result shape: %d results, %d errors", len(got.Results), len(got.Errors))
	}
}

func TestNearby_PartialFailure(t *testing.T) {
	source := &placeSourceMock{errs: map[models.PlaceCategory]error{
		models.CategoryATM: errors.New("places search rejected: OVER_QUERY_LIMIT"),
	}}
	svc := NewPlacesService(zap.NewNop(), source, nil, 0, 0)

	got, err := svc.Nearby(context.Background(), zocalo, 800, []models.PlaceCategory{models.CategoryATM, models.CategoryLodging})
	if err != nil {
		t.Fatalf("partial failure must not fail the call: %v", err)
	}
	if _, ok := got.Errors[models.CategoryATM]; !ok {
		t.Fatalf("expected atm error, got %+v", got.Errors)
	}
	if _, ok := got.Results[models.CategoryLodging]; !ok {
		t.Fatalf("expected lodging results, got %+v", got.Results)
	}
	if _, ok := got.Results[models.CategoryATM]; ok {
		t.Fatal("failed category must not appear in results")
	}
}

func TestNearby_AllFailedKeepsCause(t *testing.T) {
	source := &placeSourceMock{errs: map[models.PlaceCategory]error{
		models.CategoryATM:     derr.ErrMissingCredentials,
		models.CategoryLodging: derr.ErrMissingCredentials,
	}}
	svc := NewPlacesService(zap.NewNop(), source, nil, 0, 0)

	_, err := svc.Nearby(context.Background(), zocalo, 0, []models.PlaceCategory{models.CategoryATM, models.CategoryLodging})
	if !errors.Is(err, derr.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestNearby_Validation(t *testing.T) {
	svc := NewPlacesService(zap.NewNop(), &placeSourceMock{}, nil, 0, 0)

	tests := []struct {
		name       string
		loc        models.Coordinates
		radius     int
		categories []models.PlaceCategory
		want       error
	}{
		{name: "latitude out of range", loc: models.Coordinates{Lat: -91}, want: derr.ErrInvalidCoordinates},
		{name: "negative radius", loc: zocalo, radius: -1, want: derr.ErrInvalidRadius},
		{name: "radius too large", loc: zocalo, radius: MaxRadiusM + 1, want: derr.ErrInvalidRadius},
		{name: "unknown category", loc: zocalo, categories: []models.PlaceCategory{"casino"}, want: derr.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tt.loc, tt.radius, tt.categories)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNearby_CacheHitSkipsSource(t *testing.T) {
	source := &placeSourceMock{}
	cache := &placeCacheMock{entries: map[models.PlaceCategory][]models.Place{
		models.CategoryRestaurant: {{ID: "cached", Location: zocalo}},
	}}
	svc := NewPlacesService(zap.NewNop(), source, cache, 15*time.Minute, 0)

	got, err := svc.Nearby(context.Background(), zocalo, 0, []models.PlaceCategory{models.CategoryRestaurant, models.CategoryATM})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(source.searches) != 1 || source.searches[0].Category != models.CategoryATM {
		t.Fatalf("expected only the atm miss to reach the source, got %+v", source.searches)
	}
	if cache.setCalls != 1 || cache.lastTTL != 15*time.Minute {
		t.Fatalf("unexpected cache writes: %d (ttl %v)", cache.setCalls, cache.lastTTL)
	}
	if got.Results[models.CategoryRestaurant][0].ID != "cached" {
		t.Fatalf("unexpected restaurants: %+v", got.Results[models.CategoryRestaurant])
	}
}

func TestNearby_CacheReadErrorFallsBack(t *testing.T) {
	source := &placeSourceMock{}
	cache := &placeCacheMock{getErr: errors.New("redis down")}
	svc := NewPlacesService(zap.NewNop(), source, cache, time.Minute, 0)

	if _, err := svc.Nearby(context.Background(), zocalo, 0, []models.PlaceCategory{models.CategoryATM}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(source.searches) != 1 {
		t.Fatalf("expected source fallback, got %d searches", len(source.searches))
	}
}

func TestNormalizeCategories_DeduplicatesAndNormalizes(t *testing.T) {
	got, err := normalizeCategories([]models.PlaceCategory{"ATM", "atm", " lodging "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != models.CategoryATM || got[1] != models.CategoryLodging {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestNearby_TransportFailureKeepsKeyOutOfErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") == string(models.CategoryATM) {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatalf("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	source := googlemaps.NewClient(srv.URL, "SECRET-KEY-123", "es", time.Second, nil)
	svc := NewPlacesService(zap.NewNop(), source, nil, 0, 0)

	got, err := svc.Nearby(context.Background(), zocalo, 800, []models.PlaceCategory{models.CategoryATM, models.CategoryLodging})
	if err != nil {
		t.Fatalf("partial failure must not fail the call: %v", err)
	}

	atmErr := got.Errors[models.CategoryATM]
	if !errors.Is(atmErr, derr.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for atm, got %v", atmErr)
	}
	if strings.Contains(atmErr.Error(), "SECRET-KEY-123") {
		t.Fatalf("api key leaked into category error: %v", atmErr)
	}
}
