package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/dto"
	"github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/mappers"
	"golang.org/x/time/rate"
)

type Client struct {
	baseURL    string
	apiKey     string
	language   string
	limiter    *rate.Limiter
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, language string, timeout time.Duration, limiter *rate.Limiter) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://maps.googleapis.com"
	}
	if strings.TrimSpace(language) == "" {
		language = "es"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	// A finite limit with zero burst rejects every Wait.
	if limiter.Limit() != rate.Inf && limiter.Burst() < 1 {
		limiter.SetBurst(1)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		language:   language,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SearchNearby(ctx context.Context, search ports.PlaceSearch) ([]models.Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is empty: %w", derr.ErrMissingCredentials)
	}

	q := url.Values{}
	q.Set("location", formatLatLng(search.Location))
	q.Set("radius", strconv.Itoa(search.RadiusM))
	q.Set("type", string(search.Category))
	q.Set("language", c.language)
	q.Set("key", c.apiKey)

	var payload dto.NearbySearchResponse
	if err := c.getJSON(ctx, "/maps/api/place/nearbysearch/json", q, &payload); err != nil {
		return nil, fmt.Errorf("nearby search %s: %w", search.Category, err)
	}

	switch payload.Status {
	case dto.StatusOK:
		return mappers.ToDomainPlaces(payload.Results, search.Category), nil
	case dto.StatusZeroResults:
		return []models.Place{}, nil
	default:
		return nil, placesStatusError(payload.Status, payload.ErrorMessage)
	}
}

func (c *Client) ReverseGeocode(ctx context.Context, loc models.Coordinates) (models.Location, error) {
	if c.apiKey == "" {
		return models.Location{}, fmt.Errorf("google maps api key is empty: %w", derr.ErrMissingCredentials)
	}

	q := url.Values{}
	q.Set("latlng", formatLatLng(loc))
	q.Set("language", c.language)
	q.Set("key", c.apiKey)

	var payload dto.GeocodeResponse
	if err := c.getJSON(ctx, "/maps/api/geocode/json", q, &payload); err != nil {
		return models.Location{}, fmt.Errorf("could not resolve location: %w", err)
	}

	switch payload.Status {
	case dto.StatusOK, dto.StatusZeroResults, "":
		return mappers.ToDomainLocation(payload), nil
	default:
		return models.Location{}, fmt.Errorf("could not resolve location: geocode status %s", payload.Status)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse google maps base url: %w", err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full request URL, api key included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("google maps request: %w", err)
		}
		return fmt.Errorf("%w: google maps request: %w", derr.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: google maps status: %s", derr.ErrSourceUnavailable, resp.Status)
		}
		return fmt.Errorf("google maps status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode google maps response: %w", err)
	}

	return nil
}

func placesStatusError(status, message string) error {
	if status == "OVER_QUERY_LIMIT" || status == "UNKNOWN_ERROR" {
		return fmt.Errorf("%w: %w: %s", derr.ErrPlacesStatus, derr.ErrSourceUnavailable, status)
	}
	if message != "" {
		return fmt.Errorf("%w: %s: %s", derr.ErrPlacesStatus, status, message)
	}
	return fmt.Errorf("%w: %s", derr.ErrPlacesStatus, status)
}

func formatLatLng(loc models.Coordinates) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
}
