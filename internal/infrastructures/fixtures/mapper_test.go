package fixtures

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/fixtures/dto"
	"go.uber.org/zap"
)

func TestToDomainMatch_TrimsAndNormalizesKickoff(t *testing.T) {
	got, err := ToDomainMatch(dto.MatchRecord{
		ID:       " M1 ",
		HomeTeam: "México ",
		AwayTeam: " Sudáfrica",
		Date:     "2026-06-11T13:00:00-06:00",
		Stadium:  "Estadio Azteca",
		City:     "Ciudad de México",
		State:    "CDMX",
		Lat:      19.3029,
		Lng:      -99.1505,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "M1" || got.HomeTeam != "México" || got.AwayTeam != "Sudáfrica" {
		t.Fatalf("unexpected match: %+v", got)
	}
	want := time.Date(2026, 6, 11, 19, 0, 0, 0, time.UTC)
	if !got.KickoffUTC.Equal(want) || got.KickoffUTC.Location() != time.UTC {
		t.Fatalf("unexpected kickoff: %v", got.KickoffUTC)
	}
}

func TestToDomainMatch_ZonelessDateIsUTC(t *testing.T) {
	got, err := ToDomainMatch(dto.MatchRecord{ID: "M2", Date: "2026-06-18 02:00", Lat: 20.68, Lng: -103.46})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.KickoffUTC.Equal(time.Date(2026, 6, 18, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %v", got.KickoffUTC)
	}
}

func TestToDomainMatch_Rejects(t *testing.T) {
	tests := []struct {
		name string
		rec  dto.MatchRecord
	}{
		{name: "missing id", rec: dto.MatchRecord{Date: "2026-06-11T19:00:00Z"}},
		{name: "invalid date", rec: dto.MatchRecord{ID: "M1", Date: "11/06/2026"}},
		{name: "invalid latitude", rec: dto.MatchRecord{ID: "M1", Date: "2026-06-11T19:00:00Z", Lat: 123}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToDomainMatch(tt.rec); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

const scheduleYAML = `
matches:
  - id: M1
    home_team: México
    away_team: Sudáfrica
    date: "2026-06-11T19:00:00Z"
    stadium: Estadio Azteca
    city: Ciudad de México
    state: CDMX
    lat: 19.3029
    lng: -99.1505
  - id: M2
    home_team: Corea del Sur
    away_team: Chequia
    date: "2026-06-12T02:00:00Z"
    stadium: Estadio Akron
    city: Guadalajara
    state: Jalisco
    lat: 20.6818
    lng: -103.4626
`

func TestParseSchedule(t *testing.T) {
	matches, err := ParseSchedule(strings.NewReader(scheduleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[1].City != "Guadalajara" || matches[1].Location.Lng != -103.4626 {
		t.Fatalf("unexpected second match: %+v", matches[1])
	}
}

func TestParseSchedule_DuplicateID(t *testing.T) {
	doubled := scheduleYAML + scheduleYAML[strings.Index(scheduleYAML, "  - id: M2"):]
	if _, err := ParseSchedule(strings.NewReader(doubled)); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestParseSchedule_UnknownField(t *testing.T) {
	if _, err := ParseSchedule(strings.NewReader("matches:\n  - id: M1\n    venue: x\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

type upsertRepoMock struct {
	upserted []models.Match
	err      error
}

func (m *upsertRepoMock) ListAll(context.Context) ([]models.Match, error) { return m.upserted, nil }

func (m *upsertRepoMock) GetByID(context.Context, models.MatchID) (models.Match, error) {
	return models.Match{}, nil
}

func (m *upsertRepoMock) Upsert(_ context.Context, match models.Match) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, match)
	return nil
}

func TestSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte(scheduleYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo := &upsertRepoMock{}
	n, err := Seed(context.Background(), zap.NewNop(), repo, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(repo.upserted) != 2 || repo.upserted[0].ID != "M1" {
		t.Fatalf("unexpected seed result: n=%d upserted=%+v", n, repo.upserted)
	}

	repo = &upsertRepoMock{err: errors.New("db down")}
	if _, err := Seed(context.Background(), zap.NewNop(), repo, path); err == nil {
		t.Fatal("expected upsert error to propagate")
	}
}

func TestSeed_MissingFile(t *testing.T) {
	if _, err := Seed(context.Background(), zap.NewNop(), &upsertRepoMock{}, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestShippedSchedule(t *testing.T) {
	matches, err := LoadSchedule(filepath.Join("..", "..", "..", "data", "schedule.yaml"))
	if err != nil {
		t.Fatalf("shipped schedule does not load: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("shipped schedule is empty")
	}
}
