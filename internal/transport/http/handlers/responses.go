package handlers

import (
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type matchResponse struct {
	ID           string              `json:"id"`
	HomeTeam     string              `json:"home_team"`
	AwayTeam     string              `json:"away_team"`
	Stadium      string              `json:"stadium,omitempty"`
	City         string              `json:"city,omitempty"`
	State        string              `json:"state,omitempty"`
	Location     coordinatesResponse `json:"location"`
	KickoffUTC   string              `json:"kickoff_utc,omitempty"`
	KickoffLocal string              `json:"kickoff_local,omitempty"`
	DistanceKm   *float64            `json:"distance_km,omitempty"`
}

type placeResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Location         coordinatesResponse `json:"location"`
	Vicinity         string              `json:"vicinity,omitempty"`
	Rating           *float64            `json:"rating,omitempty"`
	UserRatingsTotal *int                `json:"user_ratings_total,omitempty"`
	Icon             string              `json:"icon,omitempty"`
	Types            []string            `json:"types,omitempty"`
	DistanceKm       *float64            `json:"distance_km,omitempty"`
}

type placesResponse struct {
	Results map[string][]placeResponse `json:"results"`
	Errors  map[string]string          `json:"errors"`
}

type locationResponse struct {
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

type weatherResponse struct {
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	Description  string   `json:"description,omitempty"`
	Icon         string   `json:"icon,omitempty"`
}

type overviewResponse struct {
	Location      *locationResponse `json:"location,omitempty"`
	LocationError string            `json:"location_error,omitempty"`
	Weather       *weatherResponse  `json:"weather,omitempty"`
	WeatherError  string            `json:"weather_error,omitempty"`
	Matches       []matchResponse   `json:"matches"`
	MatchesError  string            `json:"matches_error,omitempty"`
}

type callResponse struct {
	ID             string `json:"id,omitempty"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
}

func mapMatch(in models.MatchWithDistance) matchResponse {
	out := matchResponse{
		ID:           string(in.ID),
		HomeTeam:     in.HomeTeam,
		AwayTeam:     in.AwayTeam,
		Stadium:      in.Stadium,
		City:         in.City,
		State:        in.State,
		Location:     coordinatesResponse{Lat: in.Location.Lat, Lng: in.Location.Lng},
		KickoffLocal: in.KickoffLabel,
		DistanceKm:   in.DistanceKm,
	}
	if !in.KickoffUTC.IsZero() {
		out.KickoffUTC = in.KickoffUTC.UTC().Format(time.RFC3339)
	}
	return out
}

func mapMatches(in []models.MatchWithDistance) []matchResponse {
	out := make([]matchResponse, 0, len(in))
	for _, m := range in {
		out = append(out, mapMatch(m))
	}
	return out
}

func mapPlace(in models.Place) placeResponse {
	return placeResponse{
		ID:               in.ID,
		Name:             in.Name,
		Location:         coordinatesResponse{Lat: in.Location.Lat, Lng: in.Location.Lng},
		Vicinity:         in.Vicinity,
		Rating:           in.Rating,
		UserRatingsTotal: in.UserRatingsTotal,
		Icon:             in.Icon,
		Types:            in.Types,
		DistanceKm:       in.DistanceKm,
	}
}

func mapPlaces(in models.NearbyPlaces) placesResponse {
	out := placesResponse{
		Results: make(map[string][]placeResponse, len(in.Results)),
		Errors:  make(map[string]string, len(in.Errors)),
	}
	for category, places := range in.Results {
		items := make([]placeResponse, 0, len(places))
		for _, p := range places {
			items = append(items, mapPlace(p))
		}
		out.Results[string(category)] = items
	}
	for category, err := range in.Errors {
		out.Errors[string(category)] = partError(err)
	}
	return out
}

func mapLocation(in models.Location) locationResponse {
	return locationResponse{City: in.City, State: in.State, Country: in.Country, Formatted: in.Formatted}
}

func mapWeather(in models.Weather) weatherResponse {
	return weatherResponse{TemperatureC: in.TemperatureC, Description: in.Description, Icon: in.Icon}
}

func mapCall(in models.CallSnapshot) callResponse {
	out := callResponse{
		ID:             in.ID,
		Status:         string(in.Status),
		Error:          in.Error,
		ConversationID: in.ConversationID,
	}
	if !in.StartedAt.IsZero() {
		out.StartedAt = in.StartedAt.UTC().Format(time.RFC3339)
	}
	return out
}
