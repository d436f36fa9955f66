package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

func parsePositiveIntQuery(r *http.Request, key string) (value int, present bool, errMsg string) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, r.URL.Query().Has(key), ""
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, true, key + " must be a positive integer"
	}

	return parsed, true, ""
}

// parseCoordinates reads lat and lng. Both must be given together; when
// neither is given the result is nil.
func parseCoordinates(r *http.Request) (*models.Coordinates, string) {
	q := r.URL.Query()
	rawLat := strings.TrimSpace(q.Get("lat"))
	rawLng := strings.TrimSpace(q.Get("lng"))

	if rawLat == "" && rawLng == "" {
		return nil, ""
	}
	if rawLat == "" || rawLng == "" {
		return nil, "lat and lng must be provided together"
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, "lat must be a number"
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, "lng must be a number"
	}

	loc := models.Coordinates{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return nil, "invalid coordinates"
	}
	return &loc, ""
}

func requireCoordinates(r *http.Request) (models.Coordinates, string) {
	loc, errMsg := parseCoordinates(r)
	if errMsg != "" {
		return models.Coordinates{}, errMsg
	}
	if loc == nil {
		return models.Coordinates{}, "lat and lng query parameters are required"
	}
	return *loc, ""
}

func parseCategories(raw string) []models.PlaceCategory {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]models.PlaceCategory, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, models.PlaceCategory(p))
	}
	return out
}
