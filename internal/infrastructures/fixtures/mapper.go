package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/fixtures/dto"
)

func ToDomainMatch(rec dto.MatchRecord) (models.Match, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return models.Match{}, fmt.Errorf("match record without id")
	}

	kickoff, err := parseKickoff(strings.TrimSpace(rec.Date))
	if err != nil {
		return models.Match{}, fmt.Errorf("match %s: parse kickoff datetime: %w", id, err)
	}

	loc := models.Coordinates{Lat: rec.Lat, Lng: rec.Lng}
	if !loc.Valid() {
		return models.Match{}, fmt.Errorf("match %s: invalid coordinates %v,%v", id, rec.Lat, rec.Lng)
	}

	return models.Match{
		ID:         models.MatchID(id),
		HomeTeam:   strings.TrimSpace(rec.HomeTeam),
		AwayTeam:   strings.TrimSpace(rec.AwayTeam),
		Stadium:    strings.TrimSpace(rec.Stadium),
		City:       strings.TrimSpace(rec.City),
		State:      strings.TrimSpace(rec.State),
		Location:   loc,
		KickoffUTC: kickoff.UTC(),
	}, nil
}

// parseKickoff accepts RFC 3339 and a few zone-less layouts, which are read
// as UTC.
func parseKickoff(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}
