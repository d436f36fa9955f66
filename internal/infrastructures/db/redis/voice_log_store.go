package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultVoiceLogKey      = "voice:logs"
	DefaultVoiceLogCapacity = 200
)

// VoiceLogStore is a capped redis list. New entries go to the tail and the
// head is trimmed so that at most capacity entries survive.
type VoiceLogStore struct {
	redis    *redis.Client
	key      string
	capacity int
	now      func() time.Time
}

func NewVoiceLogStore(redis *redis.Client, key string, capacity int) *VoiceLogStore {
	if key == "" {
		key = DefaultVoiceLogKey
	}
	if capacity <= 0 {
		capacity = DefaultVoiceLogCapacity
	}
	return &VoiceLogStore{redis: redis, key: key, capacity: capacity, now: time.Now}
}

func (s *VoiceLogStore) Append(ctx context.Context, entry models.VoiceLogEntry) (models.VoiceLogEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Level == "" {
		entry.Level = models.LogLevelInfo
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return models.VoiceLogEntry{}, fmt.Errorf("marshal voice log entry: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, s.key, data)
	pipe.LTrim(ctx, s.key, int64(-s.capacity), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.VoiceLogEntry{}, fmt.Errorf("redis append voice log: %w", err)
	}

	return entry, nil
}

// List returns entries oldest first. Items that do not decode into a
// complete entry are skipped.
func (s *VoiceLogStore) List(ctx context.Context) ([]models.VoiceLogEntry, error) {
	raw, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list voice log: %w", err)
	}

	out := make([]models.VoiceLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.VoiceLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		if !entry.Valid() {
			continue
		}
		out = append(out, entry)
	}

	return out, nil
}

func (s *VoiceLogStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear voice log: %w", err)
	}
	return nil
}
