package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"go.uber.org/zap"
)

type placesService interface {
	Nearby(ctx context.Context, loc models.Coordinates, radiusM int, categories []models.PlaceCategory) (models.NearbyPlaces, error)
}

type PlacesHandler struct {
	log     *zap.Logger
	service placesService
	timeout time.Duration
}

func NewPlacesHandler(log *zap.Logger, service placesService, timeout time.Duration) *PlacesHandler {
	return &PlacesHandler{log: log, service: service, timeout: timeout}
}

func (h *PlacesHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, errMsg := requireCoordinates(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	radius, _, errMsg := parsePositiveIntQuery(r, "radius")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	categories := parseCategories(r.URL.Query().Get("categories"))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.service.Nearby(ctx, loc, radius, categories)
	if err != nil {
		status, msg := mapError(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("nearby places failed", zap.Error(err))
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, mapPlaces(result))
}
