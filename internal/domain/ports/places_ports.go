package ports

import (
	"context"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

type PlaceSearch struct {
	Location models.Coordinates
	RadiusM  int
	Category models.PlaceCategory
}

type PlaceSource interface {
	SearchNearby(ctx context.Context, search PlaceSearch) ([]models.Place, error)
}

type PlaceCache interface {
	GetPlaces(ctx context.Context, search PlaceSearch) ([]models.Place, error)
	SetPlaces(ctx context.Context, search PlaceSearch, places []models.Place, ttl time.Duration) error
}

type LocationSource interface {
	ReverseGeocode(ctx context.Context, loc models.Coordinates) (models.Location, error)
}

type LocationCache interface {
	GetLocation(ctx context.Context, loc models.Coordinates) (models.Location, error)
	SetLocation(ctx context.Context, loc models.Coordinates, location models.Location, ttl time.Duration) error
}

type WeatherSource interface {
	CurrentWeather(ctx context.Context, loc models.Coordinates) (models.Weather, error)
}

type WeatherCache interface {
	GetWeather(ctx context.Context, loc models.Coordinates) (models.Weather, error)
	SetWeather(ctx context.Context, loc models.Coordinates, weather models.Weather, ttl time.Duration) error
}
