package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid_coordinates", err: derr.ErrInvalidCoordinates, status: http.StatusBadRequest},
		{name: "invalid_radius", err: derr.ErrInvalidRadius, status: http.StatusBadRequest},
		{name: "invalid_category", err: fmt.Errorf("%w: %q", derr.ErrInvalidCategory, "casino"), status: http.StatusBadRequest},
		{name: "not_found", err: fmt.Errorf("service.GetMatch: %w", derr.ErrMatchNotFound), status: http.StatusNotFound},
		{name: "missing_credentials", err: derr.ErrMissingCredentials, status: http.StatusServiceUnavailable},
		{name: "call_in_progress", err: derr.ErrCallInProgress, status: http.StatusConflict},
		{name: "no_active_call", err: derr.ErrNoActiveCall, status: http.StatusConflict},
		{name: "unavailable", err: derr.ErrSourceUnavailable, status: http.StatusBadGateway},
		{name: "places_status", err: derr.ErrPlacesStatus, status: http.StatusBadGateway},
		{name: "upstream", err: &derr.UpstreamError{StatusCode: 401, Message: "voice agent responded 401"}, status: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := mapError(tt.err)
			if got != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, got)
			}
			if msg == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestMapError_UpstreamMessageIsExposed(t *testing.T) {
	err := fmt.Errorf("voice.Start: %w", &derr.UpstreamError{StatusCode: 401, Message: "voice agent responded 401: bad key"})
	if _, msg := mapError(err); msg != "voice agent responded 401: bad key" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestPartError(t *testing.T) {
	if partError(nil) != "" {
		t.Fatal("nil error must give an empty message")
	}
	if got := partError(errors.New("dial tcp 10.0.0.1:443: secret detail")); got != "internal error" {
		t.Fatalf("internal details must not leak, got %q", got)
	}
}
