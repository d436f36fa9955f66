package ports

import (
	"context"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

type MatchRepository interface {
	ListAll(ctx context.Context) ([]models.Match, error)
	GetByID(ctx context.Context, id models.MatchID) (models.Match, error)
	Upsert(ctx context.Context, match models.Match) error
}

type MatchCache interface {
	GetCatalog(ctx context.Context) ([]models.Match, error)
	SetCatalog(ctx context.Context, matches []models.Match, ttl time.Duration) error
}
