package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"go.uber.org/zap"
)

type voiceCalls interface {
	Start(ctx context.Context) (models.CallSnapshot, error)
	Hangup(ctx context.Context) (models.CallSnapshot, error)
	Snapshot() models.CallSnapshot
}

type VoiceHandler struct {
	log          *zap.Logger
	calls        voiceCalls
	logs         ports.VoiceLogStore
	startTimeout time.Duration
	timeout      time.Duration
}

func NewVoiceHandler(log *zap.Logger, calls voiceCalls, logs ports.VoiceLogStore, startTimeout, timeout time.Duration) *VoiceHandler {
	return &VoiceHandler{log: log, calls: calls, logs: logs, startTimeout: startTimeout, timeout: timeout}
}

// Call serves GET (snapshot), POST (start) and DELETE (hang up).
func (h *VoiceHandler) Call(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, mapCall(h.calls.Snapshot()))
	case http.MethodPost:
		ctx, cancel := context.WithTimeout(r.Context(), h.startTimeout)
		defer cancel()

		snap, err := h.calls.Start(ctx)
		if err != nil {
			h.writeCallError(w, snap, err)
			return
		}
		writeJSON(w, http.StatusOK, mapCall(snap))
	case http.MethodDelete:
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		snap, err := h.calls.Hangup(ctx)
		if err != nil {
			h.writeCallError(w, snap, err)
			return
		}
		writeJSON(w, http.StatusOK, mapCall(snap))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *VoiceHandler) writeCallError(w http.ResponseWriter, snap models.CallSnapshot, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("voice call request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]interface{}{
		"error": msg,
		"call":  mapCall(snap),
	})
}

// Logs serves GET (newest first) and DELETE (clear).
func (h *VoiceHandler) Logs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		entries, err := h.logs.List(ctx)
		if err != nil {
			h.log.Error("voice log list failed", zap.Error(err))
			status, msg := mapError(err)
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"entries": newestFirst(entries),
		})
	case http.MethodDelete:
		if err := h.logs.Clear(ctx); err != nil {
			h.log.Error("voice log clear failed", zap.Error(err))
			status, msg := mapError(err)
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func newestFirst(entries []models.VoiceLogEntry) []models.VoiceLogEntry {
	out := make([]models.VoiceLogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
