package form

import (
	"testing"
	"time"

	"github.com/yourusername/formcast/internal/models"
)

func played(id, competition, home, away int64, gh, ga int) models.Fixture {
	date := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, int(id))
	return models.Fixture{
		ID:            id,
		Date:          &date,
		CompetitionID: competition,
		HomeTeamID:    home,
		AwayTeamID:    away,
		GoalsHome:     &gh,
		GoalsAway:     &ga,
	}
}

func TestBaselineFallsBackBelowMinimum(t *testing.T) {
	tracker := NewBaselineTracker()
	for i := int64(1); i <= 3; i++ {
		tracker.Record(played(i, 7, 1, 2, 4, 4))
	}
	b := tracker.Baseline(7)
	if b.MatchCount != 3 {
		t.Fatalf("expected 3 matches, got %d", b.MatchCount)
	}
	home, away := b.Averages(10)
	if home != FallbackHomeAverage || away != FallbackAwayAverage {
		t.Fatalf("expected fallback constants, got %f/%f", home, away)
	}
}

func TestBaselineEmpiricalAverages(t *testing.T) {
	tracker := NewBaselineTracker()
	tracker.Record(played(1, 7, 1, 2, 2, 1))
	tracker.Record(played(2, 7, 3, 4, 0, 1))
	home, away := tracker.Baseline(7).Averages(2)
	if home != 1.0 || away != 1.0 {
		t.Fatalf("expected 1.0/1.0, got %f/%f", home, away)
	}
}

func TestBaselineZeroSideFallsBack(t *testing.T) {
	tracker := NewBaselineTracker()
	tracker.Record(played(1, 7, 1, 2, 2, 0))
	home, away := tracker.Baseline(7).Averages(0)
	if home != 2.0 || away != FallbackAwayAverage {
		t.Fatalf("expected 2.0/fallback, got %f/%f", home, away)
	}
}

func TestBaselineEmptyCompetition(t *testing.T) {
	home, away := NewBaselineTracker().Baseline(99).Averages(0)
	if home != FallbackHomeAverage || away != FallbackAwayAverage {
		t.Fatalf("expected fallback constants, got %f/%f", home, away)
	}
}

func TestStateRecordSkipsUnplayed(t *testing.T) {
	state := NewState(10)
	fixture := played(1, 7, 1, 2, 1, 0)
	fixture.GoalsAway = nil
	if state.Record(fixture) {
		t.Fatalf("expected unplayed fixture to be ignored")
	}
	if state.Leagues.Baseline(7).MatchCount != 0 {
		t.Fatalf("baseline should be untouched")
	}

	if !state.Record(played(2, 7, 1, 2, 3, 1)) {
		t.Fatalf("expected played fixture to be recorded")
	}
	home := state.Form.Window(1, models.VenueHome).Entries()
	away := state.Form.Window(2, models.VenueAway).Entries()
	if len(home) != 1 || home[0].GoalsFor != 3 || home[0].GoalsAgainst != 1 {
		t.Fatalf("unexpected home window %+v", home)
	}
	if len(away) != 1 || away[0].GoalsFor != 1 || away[0].GoalsAgainst != 3 {
		t.Fatalf("unexpected away window %+v", away)
	}
	if state.Form.Window(1, models.VenueAway).Len() != 0 {
		t.Fatalf("home team's away window should be empty")
	}
}
