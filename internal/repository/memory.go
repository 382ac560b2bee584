package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/formcast/internal/models"
)

// MemoryStore implements every repository interface in memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	fixtures map[int64]models.Fixture
	odds     map[int64][]models.OddsSnapshot
	settings map[models.SettingsScope]models.StoredSettings
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fixtures: make(map[int64]models.Fixture),
		odds:     make(map[int64][]models.OddsSnapshot),
		settings: make(map[models.SettingsScope]models.StoredSettings),
	}
}

// AddFixtures stores fixtures, replacing any with the same id
func (m *MemoryStore) AddFixtures(fixtures ...models.Fixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fixtures {
		m.fixtures[f.ID] = f
	}
}

// AddOdds stores odds snapshots
func (m *MemoryStore) AddOdds(snapshots ...models.OddsSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snapshots {
		m.odds[s.FixtureID] = append(m.odds[s.FixtureID], s)
	}
}

// Competitions returns every competition id with at least one fixture
func (m *MemoryStore) Competitions() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, f := range m.fixtures {
		if !seen[f.CompetitionID] {
			seen[f.CompetitionID] = true
			ids = append(ids, f.CompetitionID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GetByID retrieves a fixture by ID
func (m *MemoryStore) GetByID(_ context.Context, id int64) (*models.Fixture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fixtures[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &f, nil
}

// GetByCompetition retrieves every fixture of a competition season. A zero season matches all seasons.
func (m *MemoryStore) GetByCompetition(_ context.Context, competitionID int64, season int) ([]models.Fixture, error) {
	return m.filter(func(f models.Fixture) bool {
		return f.CompetitionID == competitionID && (season == 0 || f.Season == season)
	}), nil
}

// GetHistory retrieves played fixtures of a competition before the cutoff
func (m *MemoryStore) GetHistory(_ context.Context, competitionID int64, before time.Time) ([]models.Fixture, error) {
	return m.filter(func(f models.Fixture) bool {
		return f.CompetitionID == competitionID && f.IsPlayed() && f.Kickoff().Before(before)
	}), nil
}

// GetByFixtureIDs retrieves odds snapshots of the given fixtures
func (m *MemoryStore) GetByFixtureIDs(_ context.Context, fixtureIDs []int64) ([]models.OddsSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.OddsSnapshot
	for _, id := range fixtureIDs {
		out = append(out, m.odds[id]...)
	}
	return out, nil
}

// Get retrieves the stored settings of a scope
func (m *MemoryStore) Get(_ context.Context, scope models.SettingsScope) (*models.StoredSettings, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.settings[scope]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &stored, nil
}

// Put inserts or replaces the stored settings of a scope
func (m *MemoryStore) Put(_ context.Context, stored models.StoredSettings) error {
	if err := stored.Scope.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[stored.Scope] = stored
	return nil
}

// AllSettings returns every stored settings value ordered by scope
func (m *MemoryStore) AllSettings() []models.StoredSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.StoredSettings, 0, len(m.settings))
	for _, s := range m.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Scope, out[j].Scope
		if a.CompetitionID != b.CompetitionID {
			return a.CompetitionID < b.CompetitionID
		}
		if a.Kind != b.Kind {
			return a.Kind == models.ScopeLeague
		}
		return a.TeamID < b.TeamID
	})
	return out
}

func (m *MemoryStore) filter(keep func(models.Fixture) bool) []models.Fixture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Fixture
	for _, f := range m.fixtures {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Kickoff(), out[j].Kickoff()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
