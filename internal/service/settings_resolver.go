// Package service wires repositories, the engine and the optimizer into use cases.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/repository"
)

// Settings sources
const (
	SourceTeam    = "team"
	SourceLeague  = "league"
	SourceDefault = "default"
)

// SettingsResolver resolves the settings of a team: team, then league, then configured defaults.
// Stored settings that did not meet the qualification criteria are skipped.
type SettingsResolver struct {
	repo     repository.SettingsRepository
	defaults models.AlgoSettings
}

// NewSettingsResolver creates a settings resolver
func NewSettingsResolver(repo repository.SettingsRepository, defaults models.AlgoSettings) *SettingsResolver {
	return &SettingsResolver{repo: repo, defaults: models.NormalizeSettings(defaults)}
}

// Resolve returns the settings to use for a team and where they came from.
// A zero team id resolves league settings only.
func (r *SettingsResolver) Resolve(ctx context.Context, competitionID, teamID int64) (models.AlgoSettings, string, error) {
	if teamID != 0 {
		settings, ok, err := r.lookup(ctx, models.TeamScope(competitionID, teamID))
		if err != nil {
			return models.AlgoSettings{}, "", err
		}
		if ok {
			return settings, SourceTeam, nil
		}
	}

	settings, ok, err := r.lookup(ctx, models.LeagueScope(competitionID))
	if err != nil {
		return models.AlgoSettings{}, "", err
	}
	if ok {
		return settings, SourceLeague, nil
	}
	return r.defaults, SourceDefault, nil
}

// Defaults returns the configured default settings
func (r *SettingsResolver) Defaults() models.AlgoSettings {
	return r.defaults
}

func (r *SettingsResolver) lookup(ctx context.Context, scope models.SettingsScope) (models.AlgoSettings, bool, error) {
	if r.repo == nil {
		return models.AlgoSettings{}, false, nil
	}
	stored, err := r.repo.Get(ctx, scope)
	if errors.Is(err, models.ErrNotFound) {
		return models.AlgoSettings{}, false, nil
	}
	if err != nil {
		return models.AlgoSettings{}, false, fmt.Errorf("failed to get settings for %s: %w", scope, err)
	}
	if !stored.MeetsCriteria {
		return models.AlgoSettings{}, false, nil
	}
	return models.NormalizeSettings(stored.Settings), true, nil
}
