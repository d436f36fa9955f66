package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodsign/monday"
	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/ozzus/fan-companion/internal/geo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const kickoffLayout = "Monday 2 de January, 15:04"

type MatchService struct {
	log          *zap.Logger
	repo         ports.MatchRepository
	cache        ports.MatchCache
	cacheTTL     time.Duration
	displayTZ    *time.Location
	locale       monday.Locale
	defaultLimit int
}

func NewMatchService(
	log *zap.Logger,
	repo ports.MatchRepository,
	cache ports.MatchCache,
	cacheTTL time.Duration,
	displayTZ *time.Location,
	locale string,
	defaultLimit int,
) *MatchService {
	if log == nil {
		log = zap.NewNop()
	}
	if displayTZ == nil {
		displayTZ = time.UTC
	}
	if locale == "" {
		locale = string(monday.LocaleEsES)
	}
	if defaultLimit <= 0 {
		defaultLimit = geo.DefaultMatchLimit
	}

	return &MatchService{
		log:          log,
		repo:         repo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		displayTZ:    displayTZ,
		locale:       monday.Locale(locale),
		defaultLimit: defaultLimit,
	}
}

// ClosestMatches returns the matches nearest to loc. A nil loc keeps schedule
// order.
func (s *MatchService) ClosestMatches(ctx context.Context, loc *models.Coordinates, limit int) ([]models.MatchWithDistance, error) {
	const op = "service.ClosestMatches"
	ctx, span := otel.Tracer("fan-companion/service").Start(ctx, op)
	defer span.End()

	if loc != nil && !loc.Valid() {
		span.SetStatus(otelcodes.Error, "invalid coordinates")
		return nil, derr.ErrInvalidCoordinates
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	span.SetAttributes(
		attribute.Bool("matches.has_location", loc != nil),
		attribute.Int("matches.limit", limit),
	)

	catalog, err := s.catalog(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "load catalog")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := geo.ClosestMatches(catalog, loc, limit)
	for i := range result {
		result[i].KickoffLabel = s.kickoffLabel(result[i].KickoffUTC)
	}

	span.SetAttributes(attribute.Int("matches.count", len(result)))
	return result, nil
}

func (s *MatchService) GetMatch(ctx context.Context, id models.MatchID) (models.MatchWithDistance, error) {
	const op = "service.GetMatch"

	logger := s.log.With(
		zap.String("op", op),
		zap.String("match_id", string(id)),
	)

	if s.cache != nil {
		catalog, err := s.cache.GetCatalog(ctx)
		if err == nil {
			for _, m := range catalog {
				if m.ID == id {
					logger.Debug("match loaded from redis cache")
					return s.withLabel(m), nil
				}
			}
		} else if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	match, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, derr.ErrMatchNotFound) {
			return models.MatchWithDistance{}, err
		}
		return models.MatchWithDistance{}, fmt.Errorf("%s: get match from repo: %w", op, err)
	}

	return s.withLabel(match), nil
}

func (s *MatchService) catalog(ctx context.Context) ([]models.Match, error) {
	logger := s.log.With(zap.String("op", "service.catalog"))

	if s.cache != nil {
		matches, err := s.cache.GetCatalog(ctx)
		if err == nil {
			logger.Debug("match catalog loaded from redis cache", zap.Int("matches", len(matches)))
			return matches, nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
		}
	}

	matches, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches from repo: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, matches, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	logger.Debug("match catalog loaded from db", zap.Int("matches", len(matches)))
	return matches, nil
}

func (s *MatchService) withLabel(m models.Match) models.MatchWithDistance {
	return models.MatchWithDistance{Match: m, KickoffLabel: s.kickoffLabel(m.KickoffUTC)}
}

func (s *MatchService) kickoffLabel(kickoff time.Time) string {
	if kickoff.IsZero() {
		return ""
	}
	return monday.Format(kickoff.In(s.displayTZ), kickoffLayout, s.locale)
}
