package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type WeatherService struct {
	log      *zap.Logger
	source   ports.WeatherSource
	cache    ports.WeatherCache
	cacheTTL time.Duration
}

func NewWeatherService(log *zap.Logger, source ports.WeatherSource, cache ports.WeatherCache, cacheTTL time.Duration) *WeatherService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WeatherService{log: log, source: source, cache: cache, cacheTTL: cacheTTL}
}

func (s *WeatherService) Current(ctx context.Context, loc models.Coordinates) (models.Weather, error) {
	const op = "service.CurrentWeather"
	ctx, span := otel.Tracer("fan-companion/service").Start(ctx, op)
	defer span.End()

	if !loc.Valid() {
		span.SetStatus(otelcodes.Error, "invalid coordinates")
		return models.Weather{}, derr.ErrInvalidCoordinates
	}

	logger := s.log.With(zap.String("op", op))

	if s.cache != nil {
		cached, err := s.cache.GetWeather(ctx, loc)
		if err == nil {
			span.AddEvent("weather.cache.hit")
			return cached, nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	weather, err := s.source.CurrentWeather(ctx, loc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "weather fetch failed")
		return models.Weather{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.SetWeather(ctx, loc, weather, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	return weather, nil
}
