package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/ozzus/fan-companion/internal/geo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRadiusM = 1500
	MaxRadiusM     = 50000
)

type PlacesService struct {
	log           *zap.Logger
	source        ports.PlaceSource
	cache         ports.PlaceCache
	cacheTTL      time.Duration
	defaultRadius int
}

func NewPlacesService(log *zap.Logger, source ports.PlaceSource, cache ports.PlaceCache, cacheTTL time.Duration, defaultRadius int) *PlacesService {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultRadius <= 0 || defaultRadius > MaxRadiusM {
		defaultRadius = DefaultRadiusM
	}

	return &PlacesService{
		log:           log,
		source:        source,
		cache:         cache,
		cacheTTL:      cacheTTL,
		defaultRadius: defaultRadius,
	}
}

// Nearby searches every requested category around loc concurrently. A failed
// category is reported in Errors; the call fails only when all of them do.
func (s *PlacesService) Nearby(ctx context.Context, loc models.Coordinates, radiusM int, categories []models.PlaceCategory) (models.NearbyPlaces, error) {
	const op = "service.Nearby"
	tracer := otel.Tracer("fan-companion/service")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	logger := s.log.With(
		zap.String("op", op),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lng", loc.Lng),
	)

	if !loc.Valid() {
		span.SetStatus(otelcodes.Error, "invalid coordinates")
		return models.NearbyPlaces{}, derr.ErrInvalidCoordinates
	}
	if radiusM == 0 {
		radiusM = s.defaultRadius
	}
	if radiusM < 1 || radiusM > MaxRadiusM {
		span.SetStatus(otelcodes.Error, "invalid radius")
		return models.NearbyPlaces{}, derr.ErrInvalidRadius
	}
	categories, err := normalizeCategories(categories)
	if err != nil {
		span.SetStatus(otelcodes.Error, "invalid category")
		return models.NearbyPlaces{}, err
	}

	span.SetAttributes(
		attribute.Int("places.radius_m", radiusM),
		attribute.Int("places.categories", len(categories)),
	)

	result := models.NearbyPlaces{
		Results: make(map[models.PlaceCategory][]models.Place, len(categories)),
		Errors:  make(map[models.PlaceCategory]error),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		search := ports.PlaceSearch{Location: loc, RadiusM: radiusM, Category: category}
		g.Go(func() error {
			places, err := s.search(gctx, logger, search)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.Warn("nearby search failed", zap.String("category", string(category)), zap.Error(err))
				span.AddEvent("places.category_error", trace.WithAttributes(attribute.String("places.category", string(category))))
				span.RecordError(err)
				result.Errors[category] = err
				return nil
			}
			result.Results[category] = geo.SortPlacesByDistance(places, loc)
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Results) == 0 {
		span.SetStatus(otelcodes.Error, "all categories failed")
		for _, c := range categories {
			if err := result.Errors[c]; err != nil {
				return models.NearbyPlaces{}, fmt.Errorf("%s: all categories failed: %s: %w", op, c, err)
			}
		}
		return models.NearbyPlaces{}, fmt.Errorf("%s: %w", op, derr.ErrSourceUnavailable)
	}

	span.SetStatus(otelcodes.Ok, "ok")
	logger.Info("nearby places loaded",
		zap.Int("categories_ok", len(result.Results)),
		zap.Int("categories_failed", len(result.Errors)),
	)
	return result, nil
}

func (s *PlacesService) search(ctx context.Context, logger *zap.Logger, search ports.PlaceSearch) ([]models.Place, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPlaces(ctx, search)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	places, err := s.source.SearchNearby(ctx, search)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlaces(ctx, search, places, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	return places, nil
}

func normalizeCategories(in []models.PlaceCategory) ([]models.PlaceCategory, error) {
	if len(in) == 0 {
		return append([]models.PlaceCategory(nil), models.AllCategories...), nil
	}

	seen := make(map[models.PlaceCategory]struct{}, len(in))
	out := make([]models.PlaceCategory, 0, len(in))
	for _, raw := range in {
		c, ok := models.ParsePlaceCategory(string(raw))
		if !ok {
			return nil, fmt.Errorf("%w: %q", derr.ErrInvalidCategory, raw)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out, nil
}
