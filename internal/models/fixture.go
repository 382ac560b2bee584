package models

import (
	"time"
)

// Outcome is the full-time 1X2 result of a fixture
type Outcome string

const (
	OutcomeHomeWin Outcome = "1"
	OutcomeDraw    Outcome = "X"
	OutcomeAwayWin Outcome = "2"
)

// Venue identifies which side of a fixture a team played on
type Venue int

const (
	VenueHome Venue = iota
	VenueAway
)

// String returns the venue name
func (v Venue) String() string {
	if v == VenueAway {
		return "away"
	}
	return "home"
}

// Fixture represents a single football match. It is treated as an immutable value.
type Fixture struct {
	ID            int64      `db:"id" json:"id"`
	Date          *time.Time `db:"date" json:"date"`
	CompetitionID int64      `db:"competition_id" json:"competition_id"`
	Season        int        `db:"season" json:"season"`
	HomeTeamID    int64      `db:"home_team_id" json:"home_team_id"`
	AwayTeamID    int64      `db:"away_team_id" json:"away_team_id"`
	GoalsHome     *int       `db:"goals_home" json:"goals_home"`
	GoalsAway     *int       `db:"goals_away" json:"goals_away"`
	HalfTimeHome  *int       `db:"half_time_home" json:"half_time_home,omitempty"`
	HalfTimeAway  *int       `db:"half_time_away" json:"half_time_away,omitempty"`
}

// IsPlayed reports whether the fixture carries a date and a full-time score
func (f Fixture) IsPlayed() bool {
	return f.Date != nil && f.GoalsHome != nil && f.GoalsAway != nil
}

// Kickoff returns the fixture date or the zero time when unknown
func (f Fixture) Kickoff() time.Time {
	if f.Date == nil {
		return time.Time{}
	}
	return *f.Date
}

// Score returns the full-time score, zero when not played
func (f Fixture) Score() (int, int) {
	if f.GoalsHome == nil || f.GoalsAway == nil {
		return 0, 0
	}
	return *f.GoalsHome, *f.GoalsAway
}

// TotalGoals returns the number of goals scored in the fixture
func (f Fixture) TotalGoals() int {
	home, away := f.Score()
	return home + away
}

// Outcome returns the 1X2 result of a played fixture
func (f Fixture) Outcome() Outcome {
	home, away := f.Score()
	return OutcomeFromScore(home, away)
}

// Involves reports whether the team plays in this fixture
func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// VenueOf returns the side the team played on
func (f Fixture) VenueOf(teamID int64) Venue {
	if f.AwayTeamID == teamID {
		return VenueAway
	}
	return VenueHome
}

// OutcomeFromScore maps a scoreline to its 1X2 outcome
func OutcomeFromScore(goalsHome, goalsAway int) Outcome {
	switch {
	case goalsHome > goalsAway:
		return OutcomeHomeWin
	case goalsHome < goalsAway:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}
