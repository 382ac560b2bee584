// Package repository provides fixture, odds and settings storage.
package repository

import (
	"fmt"

	"github.com/yourusername/formcast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Fixtures FixtureRepository
	Odds     OddsRepository
	Settings SettingsRepository
}

// NewRepositories creates PostgreSQL backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Fixtures: NewPostgresFixtureRepository(db),
		Odds:     NewPostgresOddsRepository(db),
		Settings: NewPostgresSettingsRepository(db),
	}, nil
}

// NewMemoryRepositories creates in-memory repositories seeded with the given data
func NewMemoryRepositories(store *MemoryStore) *Repositories {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Repositories{
		Fixtures: store,
		Odds:     store,
		Settings: store,
	}
}
