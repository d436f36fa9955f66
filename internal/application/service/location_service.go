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

type LocationService struct {
	log      *zap.Logger
	source   ports.LocationSource
	cache    ports.LocationCache
	cacheTTL time.Duration
}

func NewLocationService(log *zap.Logger, source ports.LocationSource, cache ports.LocationCache, cacheTTL time.Duration) *LocationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocationService{log: log, source: source, cache: cache, cacheTTL: cacheTTL}
}

func (s *LocationService) Resolve(ctx context.Context, loc models.Coordinates) (models.Location, error) {
	const op = "service.ResolveLocation"
	ctx, span := otel.Tracer("fan-companion/service").Start(ctx, op)
	defer span.End()

	if !loc.Valid() {
		span.SetStatus(otelcodes.Error, "invalid coordinates")
		return models.Location{}, derr.ErrInvalidCoordinates
	}

	logger := s.log.With(zap.String("op", op))

	if s.cache != nil {
		cached, err := s.cache.GetLocation(ctx, loc)
		if err == nil {
			span.AddEvent("geocode.cache.hit")
			return cached, nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	location, err := s.source.ReverseGeocode(ctx, loc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "reverse geocode failed")
		return models.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	// Empty answers are not cached so a later lookup can still resolve.
	if s.cache != nil && !location.Empty() {
		if err := s.cache.SetLocation(ctx, loc, location, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	return location, nil
}
