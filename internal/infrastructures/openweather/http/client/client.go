package openweather

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
	"github.com/ozzus/fan-companion/internal/infrastructures/openweather/dto"
	"github.com/ozzus/fan-companion/internal/infrastructures/openweather/mappers"
)

type Client struct {
	baseURL    string
	apiKey     string
	units      string
	language   string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, units, language string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.openweathermap.org"
	}
	if strings.TrimSpace(units) == "" {
		units = "metric"
	}
	if strings.TrimSpace(language) == "" {
		language = "es"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		units:      units,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CurrentWeather(ctx context.Context, loc models.Coordinates) (models.Weather, error) {
	if c.apiKey == "" {
		return models.Weather{}, fmt.Errorf("openweather api key is empty: %w", derr.ErrMissingCredentials)
	}

	u, err := url.Parse(c.baseURL + "/data/2.5/weather")
	if err != nil {
		return models.Weather{}, fmt.Errorf("parse openweather base url: %w", err)
	}

	q := u.Query()
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	q.Set("lang", c.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Weather{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full request URL, appid included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return models.Weather{}, fmt.Errorf("openweather request: %w", err)
		}
		return models.Weather{}, fmt.Errorf("%w: openweather request: %w", derr.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return models.Weather{}, fmt.Errorf("%w: could not fetch current weather: %s", derr.ErrSourceUnavailable, resp.Status)
		}

		var apiErr dto.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return models.Weather{}, fmt.Errorf("could not fetch current weather: %s: %s", resp.Status, apiErr.Message)
		}
		return models.Weather{}, fmt.Errorf("could not fetch current weather: %s", resp.Status)
	}

	var payload dto.CurrentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Weather{}, fmt.Errorf("decode openweather response: %w", err)
	}

	return mappers.ToDomainWeather(payload), nil
}
