package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

const DefaultLogCapacity = 200

// VoiceLogStore keeps the most recent entries in process memory.
type VoiceLogStore struct {
	mu       sync.Mutex
	capacity int
	entries  []models.VoiceLogEntry
	now      func() time.Time
}

func NewVoiceLogStore(capacity int) *VoiceLogStore {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &VoiceLogStore{
		capacity: capacity,
		entries:  make([]models.VoiceLogEntry, 0, capacity),
		now:      time.Now,
	}
}

func (s *VoiceLogStore) Append(_ context.Context, entry models.VoiceLogEntry) (models.VoiceLogEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Level == "" {
		entry.Level = models.LogLevelInfo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == s.capacity {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, entry)

	return entry, nil
}

func (s *VoiceLogStore) List(_ context.Context) ([]models.VoiceLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.VoiceLogEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *VoiceLogStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = s.entries[:0]
	s.mu.Unlock()
	return nil
}
