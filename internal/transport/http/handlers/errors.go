package handlers

import (
	"context"
	"errors"
	"net/http"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
)

// mapError turns a service error into an HTTP status and a message that is
// safe to show to clients.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, derr.ErrInvalidCoordinates):
		return http.StatusBadRequest, "invalid coordinates"
	case errors.Is(err, derr.ErrInvalidRadius):
		return http.StatusBadRequest, "radius must be between 1 and 50000 meters"
	case errors.Is(err, derr.ErrInvalidCategory):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, derr.ErrMatchNotFound):
		return http.StatusNotFound, "match not found"
	case errors.Is(err, derr.ErrMissingCredentials):
		return http.StatusServiceUnavailable, "upstream credentials are not configured"
	case errors.Is(err, derr.ErrCallInProgress):
		return http.StatusConflict, "a voice call is already in progress"
	case errors.Is(err, derr.ErrNoActiveCall):
		return http.StatusConflict, "there is no active voice call"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline exceeded"
	case errors.Is(err, derr.ErrSourceUnavailable), errors.Is(err, derr.ErrPlacesStatus):
		return http.StatusBadGateway, "upstream source unavailable"
	default:
		var upstream *derr.UpstreamError
		if errors.As(err, &upstream) {
			return http.StatusBadGateway, upstream.Message
		}
		return http.StatusInternalServerError, "internal error"
	}
}

// partError is the message attached to a failed part of an aggregate
// response.
func partError(err error) string {
	if err == nil {
		return ""
	}
	_, msg := mapError(err)
	return msg
}
