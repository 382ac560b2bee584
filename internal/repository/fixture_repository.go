package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/formcast/internal/database"
	"github.com/yourusername/formcast/internal/models"
)

const (
	fixtureColumns = `id, date, competition_id, season, home_team_id, away_team_id,
		       goals_home, goals_away, half_time_home, half_time_away`
	errScanFixture = "failed to scan fixture: %w"
)

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// GetByID retrieves a fixture by ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id int64) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`

	fixture, err := scanFixture(r.db.Q(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %d: %w", id, err)
	}
	return fixture, nil
}

// GetByCompetition retrieves every fixture of a competition season
func (r *PostgresFixtureRepository) GetByCompetition(ctx context.Context, competitionID int64, season int) ([]models.Fixture, error) {
	query := `
		SELECT ` + fixtureColumns + `
		FROM fixtures
		WHERE competition_id = $1 AND season = $2
		ORDER BY date ASC NULLS FIRST, id ASC
	`

	rows, err := r.db.Q(ctx).Query(ctx, query, competitionID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures by competition: %w", err)
	}
	return collectFixtures(rows)
}

// GetHistory retrieves played fixtures of a competition before the cutoff across seasons
func (r *PostgresFixtureRepository) GetHistory(ctx context.Context, competitionID int64, before time.Time) ([]models.Fixture, error) {
	query := `
		SELECT ` + fixtureColumns + `
		FROM fixtures
		WHERE competition_id = $1 AND date < $2
		  AND goals_home IS NOT NULL AND goals_away IS NOT NULL
		ORDER BY date ASC, id ASC
	`

	rows, err := r.db.Q(ctx).Query(ctx, query, competitionID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture history: %w", err)
	}
	return collectFixtures(rows)
}

func collectFixtures(rows pgx.Rows) ([]models.Fixture, error) {
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, *fixture)
	}
	return fixtures, rows.Err()
}

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	f := &models.Fixture{}
	err := row.Scan(
		&f.ID, &f.Date, &f.CompetitionID, &f.Season, &f.HomeTeamID, &f.AwayTeamID,
		&f.GoalsHome, &f.GoalsAway, &f.HalfTimeHome, &f.HalfTimeAway,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
