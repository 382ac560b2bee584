package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/formcast/internal/database"
	"github.com/yourusername/formcast/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// GetByFixtureIDs retrieves every odds snapshot of the given fixtures
func (o *PostgresOddsRepository) GetByFixtureIDs(ctx context.Context, fixtureIDs []int64) ([]models.OddsSnapshot, error) {
	if len(fixtureIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT fixture_id, market_name, label, bookmaker_id, price, snapshot_at
		FROM odds_snapshots
		WHERE fixture_id = ANY($1)
		ORDER BY fixture_id ASC, snapshot_at ASC
	`

	rows, err := o.db.Q(ctx).Query(ctx, query, fixtureIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds by fixtures: %w", err)
	}
	defer rows.Close()

	var snapshots []models.OddsSnapshot
	for rows.Next() {
		var s models.OddsSnapshot
		if err := rows.Scan(&s.FixtureID, &s.MarketName, &s.Label, &s.BookmakerID, &s.Price, &s.SnapshotAt); err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
