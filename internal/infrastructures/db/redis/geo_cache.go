package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/redis/go-redis/v9"
)

// GeoCache stores coordinate-keyed upstream answers: nearby places, reverse
// geocoding and current weather. Coordinates are rounded to three decimals
// (about 110 m) so nearby requests share entries.
type GeoCache struct {
	redis *redis.Client
}

func NewGeoCache(redisClient *redis.Client) *GeoCache {
	return &GeoCache{redis: redisClient}
}

func (c *GeoCache) GetPlaces(ctx context.Context, search ports.PlaceSearch) ([]models.Place, error) {
	var places []models.Place
	if err := c.get(ctx, placesKey(search), &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *GeoCache) SetPlaces(ctx context.Context, search ports.PlaceSearch, places []models.Place, ttl time.Duration) error {
	if places == nil {
		places = []models.Place{}
	}
	return c.set(ctx, placesKey(search), places, ttl)
}

func (c *GeoCache) GetLocation(ctx context.Context, loc models.Coordinates) (models.Location, error) {
	var location models.Location
	if err := c.get(ctx, coordKey("geocode", loc), &location); err != nil {
		return models.Location{}, err
	}
	return location, nil
}

func (c *GeoCache) SetLocation(ctx context.Context, loc models.Coordinates, location models.Location, ttl time.Duration) error {
	return c.set(ctx, coordKey("geocode", loc), location, ttl)
}

func (c *GeoCache) GetWeather(ctx context.Context, loc models.Coordinates) (models.Weather, error) {
	var weather models.Weather
	if err := c.get(ctx, coordKey("weather", loc), &weather); err != nil {
		return models.Weather{}, err
	}
	return weather, nil
}

func (c *GeoCache) SetWeather(ctx context.Context, loc models.Coordinates, weather models.Weather, ttl time.Duration) error {
	return c.set(ctx, coordKey("weather", loc), weather, ttl)
}

func (c *GeoCache) get(ctx context.Context, key string, out any) error {
	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return derr.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("unmarshal cached %s: %w", key, err)
	}

	return nil
}

func (c *GeoCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s for cache: %w", key, err)
	}

	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func placesKey(search ports.PlaceSearch) string {
	return fmt.Sprintf("%s:%d:%s", coordKey("places", search.Location), search.RadiusM, search.Category)
}

func coordKey(prefix string, loc models.Coordinates) string {
	return fmt.Sprintf("%s:%.3f:%.3f", prefix, loc.Lat, loc.Lng)
}
