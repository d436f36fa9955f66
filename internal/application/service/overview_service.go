package service

import (
	"context"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type locationResolver interface {
	Resolve(ctx context.Context, loc models.Coordinates) (models.Location, error)
}

type weatherReader interface {
	Current(ctx context.Context, loc models.Coordinates) (models.Weather, error)
}

type closestMatchesReader interface {
	ClosestMatches(ctx context.Context, loc *models.Coordinates, limit int) ([]models.MatchWithDistance, error)
}

// Overview is the landing view for a position. Each part carries its own
// error so one failing upstream does not hide the others.
type Overview struct {
	Location    models.Location
	LocationErr error
	Weather     models.Weather
	WeatherErr  error
	Matches     []models.MatchWithDistance
	MatchesErr  error
}

type OverviewService struct {
	log       *zap.Logger
	locations locationResolver
	weather   weatherReader
	matches   closestMatchesReader
}

func NewOverviewService(log *zap.Logger, locations locationResolver, weather weatherReader, matches closestMatchesReader) *OverviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OverviewService{log: log, locations: locations, weather: weather, matches: matches}
}

func (s *OverviewService) Overview(ctx context.Context, loc models.Coordinates, limit int) (Overview, error) {
	const op = "service.Overview"
	ctx, span := otel.Tracer("fan-companion/service").Start(ctx, op)
	defer span.End()

	if !loc.Valid() {
		return Overview{}, derr.ErrInvalidCoordinates
	}

	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out.Location, out.LocationErr = s.locations.Resolve(gctx, loc)
		return nil
	})
	g.Go(func() error {
		out.Weather, out.WeatherErr = s.weather.Current(gctx, loc)
		return nil
	})
	g.Go(func() error {
		out.Matches, out.MatchesErr = s.matches.ClosestMatches(gctx, &loc, limit)
		return nil
	})
	_ = g.Wait()

	logger := s.log.With(zap.String("op", op))
	for part, err := range map[string]error{"location": out.LocationErr, "weather": out.WeatherErr, "matches": out.MatchesErr} {
		if err != nil {
			logger.Warn("overview part failed", zap.String("part", part), zap.Error(err))
			span.RecordError(err)
		}
	}

	return out, nil
}
