package repository

import (
	"context"
	"time"

	"github.com/yourusername/formcast/internal/models"
)

// FixtureRepository defines the interface for fixture data access.
// Every list is ordered by date then id.
type FixtureRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Fixture, error)
	GetByCompetition(ctx context.Context, competitionID int64, season int) ([]models.Fixture, error)
	// GetHistory returns played fixtures of the competition kicking off strictly before the cutoff
	GetHistory(ctx context.Context, competitionID int64, before time.Time) ([]models.Fixture, error)
}

// OddsRepository defines the interface for historical odds access
type OddsRepository interface {
	GetByFixtureIDs(ctx context.Context, fixtureIDs []int64) ([]models.OddsSnapshot, error)
}

// SettingsRepository stores tuned settings per team or league scope
type SettingsRepository interface {
	Get(ctx context.Context, scope models.SettingsScope) (*models.StoredSettings, error)
	Put(ctx context.Context, stored models.StoredSettings) error
}
