package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ozzus/fan-companion/internal/application/service"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"go.uber.org/zap"
)

type locationService interface {
	Resolve(ctx context.Context, loc models.Coordinates) (models.Location, error)
}

type weatherService interface {
	Current(ctx context.Context, loc models.Coordinates) (models.Weather, error)
}

type overviewService interface {
	Overview(ctx context.Context, loc models.Coordinates, limit int) (service.Overview, error)
}

// GeoHandler serves the position-based lookups: reverse geocoding, weather
// and the combined overview.
type GeoHandler struct {
	log       *zap.Logger
	locations locationService
	weather   weatherService
	overview  overviewService
	timeout   time.Duration
}

func NewGeoHandler(log *zap.Logger, locations locationService, weather weatherService, overview overviewService, timeout time.Duration) *GeoHandler {
	return &GeoHandler{log: log, locations: locations, weather: weather, overview: overview, timeout: timeout}
}

func (h *GeoHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, errMsg := requireCoordinates(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	location, err := h.locations.Resolve(ctx, loc)
	if err != nil {
		h.log.Error("reverse geocode failed", zap.Error(err))
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, mapLocation(location))
}

func (h *GeoHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, errMsg := requireCoordinates(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	weather, err := h.weather.Current(ctx, loc)
	if err != nil {
		h.log.Error("current weather failed", zap.Error(err))
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, mapWeather(weather))
}

func (h *GeoHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, errMsg := requireCoordinates(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	limit, _, errMsg := parsePositiveIntQuery(r, "limit")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ov, err := h.overview.Overview(ctx, loc, limit)
	if err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	resp := overviewResponse{
		LocationError: partError(ov.LocationErr),
		WeatherError:  partError(ov.WeatherErr),
		Matches:       mapMatches(ov.Matches),
		MatchesError:  partError(ov.MatchesErr),
	}
	if ov.LocationErr == nil {
		location := mapLocation(ov.Location)
		resp.Location = &location
	}
	if ov.WeatherErr == nil {
		weather := mapWeather(ov.Weather)
		resp.Weather = &weather
	}

	writeJSON(w, http.StatusOK, resp)
}
