package form

import "github.com/yourusername/formcast/internal/models"

// League averages used until a competition has enough matches
const (
	FallbackHomeAverage = 1.35
	FallbackAwayAverage = 1.15
)

// Baseline accumulates a competition's goals. MatchCount only grows.
type Baseline struct {
	HomeGoalsSum int `json:"home_goals_sum"`
	AwayGoalsSum int `json:"away_goals_sum"`
	MatchCount   int `json:"match_count"`
}

// Averages returns per-match home and away goal averages, or the fallback
// constants while MatchCount is below minLeagueMatches
func (b Baseline) Averages(minLeagueMatches int) (home, away float64) {
	home, away = FallbackHomeAverage, FallbackAwayAverage
	if b.MatchCount == 0 || b.MatchCount < minLeagueMatches {
		return home, away
	}
	if avg := float64(b.HomeGoalsSum) / float64(b.MatchCount); avg > 0 {
		home = avg
	}
	if avg := float64(b.AwayGoalsSum) / float64(b.MatchCount); avg > 0 {
		away = avg
	}
	return home, away
}

// BaselineTracker keeps one Baseline per competition
type BaselineTracker struct {
	leagues map[int64]*Baseline
}

// NewBaselineTracker creates an empty tracker
func NewBaselineTracker() *BaselineTracker {
	return &BaselineTracker{leagues: make(map[int64]*Baseline)}
}

// Record adds a played fixture to its competition's running totals
func (t *BaselineTracker) Record(fixture models.Fixture) {
	if !fixture.IsPlayed() {
		return
	}
	b, ok := t.leagues[fixture.CompetitionID]
	if !ok {
		b = &Baseline{}
		t.leagues[fixture.CompetitionID] = b
	}
	home, away := fixture.Score()
	b.HomeGoalsSum += home
	b.AwayGoalsSum += away
	b.MatchCount++
}

// Baseline returns a snapshot of a competition's totals
func (t *BaselineTracker) Baseline(competitionID int64) Baseline {
	if b, ok := t.leagues[competitionID]; ok {
		return *b
	}
	return Baseline{}
}
