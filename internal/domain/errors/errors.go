package errors

import "errors"

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrCacheMiss          = errors.New("cache miss")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRadius      = errors.New("invalid radius")
	ErrInvalidCategory    = errors.New("invalid place category")
	ErrPlacesStatus       = errors.New("places search rejected")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrCallInProgress     = errors.New("voice call already in progress")
	ErrNoActiveCall       = errors.New("no active voice call")
)

// UpstreamError is a non-2xx answer from a third-party API. Message is the
// user-facing description; Body keeps the raw payload for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
