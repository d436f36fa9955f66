// Package fixtures loads the match schedule shipped with the service.
package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/ozzus/fan-companion/internal/infrastructures/fixtures/dto"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func LoadSchedule(path string) ([]models.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule %s: %w", path, err)
	}
	defer f.Close()

	return ParseSchedule(f)
}

func ParseSchedule(r io.Reader) ([]models.Match, error) {
	var file dto.ScheduleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	seen := make(map[models.MatchID]struct{}, len(file.Matches))
	matches := make([]models.Match, 0, len(file.Matches))
	for _, rec := range file.Matches {
		match, err := ToDomainMatch(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[match.ID]; dup {
			return nil, fmt.Errorf("duplicate match id %s", match.ID)
		}
		seen[match.ID] = struct{}{}
		matches = append(matches, match)
	}

	return matches, nil
}

// Seed upserts every match of the schedule file into repo.
func Seed(ctx context.Context, log *zap.Logger, repo ports.MatchRepository, path string) (int, error) {
	const op = "fixtures.Seed"

	matches, err := LoadSchedule(path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range matches {
		if err := repo.Upsert(ctx, m); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("match schedule seeded", zap.String("path", path), zap.Int("matches", len(matches)))
	return len(matches), nil
}
