package models

import "fmt"

// ScopeKind distinguishes team and league settings
type ScopeKind string

const (
	ScopeTeam   ScopeKind = "team"
	ScopeLeague ScopeKind = "league"
)

// SettingsScope identifies who a settings value applies to
type SettingsScope struct {
	Kind          ScopeKind `json:"kind"`
	CompetitionID int64     `json:"competition_id"`
	TeamID        int64     `json:"team_id,omitempty"`
}

// TeamScope returns the scope of one team inside a competition
func TeamScope(competitionID, teamID int64) SettingsScope {
	return SettingsScope{Kind: ScopeTeam, CompetitionID: competitionID, TeamID: teamID}
}

// LeagueScope returns the scope of a whole competition
func LeagueScope(competitionID int64) SettingsScope {
	return SettingsScope{Kind: ScopeLeague, CompetitionID: competitionID}
}

// Validate checks that the scope is well formed
func (s SettingsScope) Validate() error {
	switch s.Kind {
	case ScopeTeam:
		if s.TeamID == 0 {
			return fmt.Errorf("%w: team scope without team id", ErrInvalidScope)
		}
	case ScopeLeague:
		if s.TeamID != 0 {
			return fmt.Errorf("%w: league scope with team id", ErrInvalidScope)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidScope, s.Kind)
	}
	return nil
}

// String returns a printable representation of the scope
func (s SettingsScope) String() string {
	if s.Kind == ScopeTeam {
		return fmt.Sprintf("team:%d:%d", s.CompetitionID, s.TeamID)
	}
	return fmt.Sprintf("league:%d", s.CompetitionID)
}
