package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Repository, error) {
	poolCfg, err := buildPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: pool}, nil
}

func buildPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	return poolCfg, nil
}

// Migrate applies the embedded schema migrations.
func (r *Repository) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(r.db)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) Close() {
	r.db.Close()
}

const selectMatch = `
	SELECT
		match_id,
		home_team,
		away_team,
		stadium,
		city,
		state,
		lat,
		lng,
		kickoff_utc
	FROM matches
`

func (r *Repository) GetByID(ctx context.Context, id models.MatchID) (models.Match, error) {
	row := r.db.QueryRow(ctx, selectMatch+`WHERE match_id = $1`, string(id))

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Match{}, derr.ErrMatchNotFound
		}
		return models.Match{}, fmt.Errorf("query match by id: %w", err)
	}

	return match, nil
}

// ListAll returns the whole catalog ordered by kickoff.
func (r *Repository) ListAll(ctx context.Context) ([]models.Match, error) {
	rows, err := r.db.Query(ctx, selectMatch+`ORDER BY kickoff_utc ASC, match_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0, 104)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return matches, nil
}

func (r *Repository) Upsert(ctx context.Context, match models.Match) error {
	const query = `
		INSERT INTO matches (
			match_id,
			home_team,
			away_team,
			stadium,
			city,
			state,
			lat,
			lng,
			kickoff_utc,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (match_id) DO UPDATE SET
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			stadium = EXCLUDED.stadium,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			kickoff_utc = EXCLUDED.kickoff_utc,
			updated_at = now()
	`

	_, err := r.db.Exec(ctx, query,
		string(match.ID),
		match.HomeTeam,
		match.AwayTeam,
		match.Stadium,
		match.City,
		match.State,
		match.Location.Lat,
		match.Location.Lng,
		match.KickoffUTC.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", match.ID, err)
	}

	return nil
}

func scanMatch(row pgx.Row) (models.Match, error) {
	var (
		id    string
		match models.Match
	)

	err := row.Scan(
		&id,
		&match.HomeTeam,
		&match.AwayTeam,
		&match.Stadium,
		&match.City,
		&match.State,
		&match.Location.Lat,
		&match.Location.Lng,
		&match.KickoffUTC,
	)
	if err != nil {
		return models.Match{}, err
	}

	match.ID = models.MatchID(id)
	match.KickoffUTC = match.KickoffUTC.UTC()
	return match, nil
}
