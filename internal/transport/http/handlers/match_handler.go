package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"go.uber.org/zap"
)

type matchService interface {
	ClosestMatches(ctx context.Context, loc *models.Coordinates, limit int) ([]models.MatchWithDistance, error)
	GetMatch(ctx context.Context, id models.MatchID) (models.MatchWithDistance, error)
}

type MatchHandler struct {
	log     *zap.Logger
	service matchService
	timeout time.Duration
}

func NewMatchHandler(log *zap.Logger, service matchService, timeout time.Duration) *MatchHandler {
	return &MatchHandler{log: log, service: service, timeout: timeout}
}

func (h *MatchHandler) GetClosestMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc, errMsg := parseCoordinates(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	limit, _, errMsg := parsePositiveIntQuery(r, "limit")
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	matches, err := h.service.ClosestMatches(ctx, loc, limit)
	if err != nil {
		h.log.Error("closest matches failed", zap.Error(err), zap.Int("limit", limit))
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": mapMatches(matches),
	})
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	matchID, parseErr := parseMatchIDFromPath(r.URL.Path)
	if parseErr != "" {
		writeError(w, http.StatusBadRequest, parseErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	match, err := h.service.GetMatch(ctx, matchID)
	if err != nil {
		status, msg := mapError(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("get match failed", zap.Error(err), zap.String("match_id", string(matchID)))
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, mapMatch(match))
}

func parseMatchIDFromPath(path string) (models.MatchID, string) {
	const prefix = "/v1/matches/"
	if !strings.HasPrefix(path, prefix) {
		return "", "invalid path, expected /v1/matches/{id}"
	}

	idPart := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if idPart == "" || strings.Contains(idPart, "/") {
		return "", "invalid path, expected /v1/matches/{id}"
	}

	return models.MatchID(idPart), ""
}
