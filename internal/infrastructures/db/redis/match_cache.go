package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const matchCatalogKey = "matches:catalog"

type MatchCache struct {
	redis *redis.Client
}

func NewMatchCache(redis *redis.Client) *MatchCache {
	return &MatchCache{redis: redis}
}

func (c *MatchCache) GetCatalog(ctx context.Context) ([]models.Match, error) {
	data, err := c.redis.Get(ctx, matchCatalogKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, derr.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get match catalog: %w", err)
	}

	var matches []models.Match
	if err := json.Unmarshal([]byte(data), &matches); err != nil {
		return nil, fmt.Errorf("unmarshal cached match catalog: %w", err)
	}

	return matches, nil
}

func (c *MatchCache) SetCatalog(ctx context.Context, matches []models.Match, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	normalized := make([]models.Match, len(matches))
	for i, m := range matches {
		m.KickoffUTC = m.KickoffUTC.UTC()
		normalized[i] = m
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("marshal match catalog for cache: %w", err)
	}

	if err := c.redis.Set(ctx, matchCatalogKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set match catalog: %w", err)
	}

	return nil
}

// Invalidate drops the cached catalog after the schedule is reseeded.
func (c *MatchCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Del(ctx, matchCatalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete match catalog: %w", err)
	}
	return nil
}
