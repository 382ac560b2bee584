package market

import (
	"testing"

	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

func mustParse(t *testing.T, label string) Market {
	t.Helper()
	m, err := Parse(label)
	if err != nil {
		t.Fatalf("parse %q: %v", label, err)
	}
	return m
}

func TestDoubleChanceDrawRule(t *testing.T) {
	if !mustParse(t, "1X").IsHit(2, 2) {
		t.Fatalf("1X should hit on a draw")
	}
	if !mustParse(t, "X2").IsHit(2, 2) {
		t.Fatalf("X2 should hit on a draw")
	}
	if mustParse(t, "12").IsHit(2, 2) {
		t.Fatalf("12 should miss on a draw")
	}
	if mustParse(t, "1X").IsHit(0, 1) {
		t.Fatalf("1X should miss on an away win")
	}
	if mustParse(t, "X2").IsHit(3, 1) {
		t.Fatalf("X2 should miss on a home win")
	}
}

func TestGoalLineHits(t *testing.T) {
	cases := []struct {
		label string
		home  int
		away  int
		hit   bool
	}{
		{"Over 2.5", 2, 1, true},
		{"Over 2.5", 1, 1, false},
		{"Under 2.5", 1, 1, true},
		{"Under 2.5", 2, 1, false},
		{"Over 2", 1, 1, false},
		{"Under 2", 1, 1, true},
		{"Over 0.5", 0, 0, false},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.label).IsHit(tc.home, tc.away); got != tc.hit {
			t.Fatalf("%s at %d-%d: expected %v, got %v", tc.label, tc.home, tc.away, tc.hit, got)
		}
	}
}

func forecast(samples int) prediction.Forecast {
	xg := prediction.ExpectedGoals{Home: 1.4, Away: 1.1}
	return prediction.Forecast{
		HomeSamples: samples,
		AwaySamples: samples,
		XG:          xg,
		Blended:     prediction.OutcomeProbabilities{HomeWin: 0.45, Draw: 0.3, AwayWin: 0.25},
	}
}

func TestSelectNoData(t *testing.T) {
	settings := models.DefaultSettings()
	f := forecast(settings.MinMatches)
	f.AwaySamples = settings.MinMatches - 1
	d := Select(f, settings)
	if d.Status != StatusNoData || d.Pick != nil {
		t.Fatalf("expected no-data, got %+v", d)
	}
}

func TestSelectThresholdGating(t *testing.T) {
	settings := models.DefaultSettings()
	settings.MarketLines = []string{"Over 2.5", "12"}

	settings.ProbabilityThreshold = 0.95
	d := Select(forecast(10), settings)
	if d.Status != StatusNoBet || d.Pick != nil {
		t.Fatalf("expected no-bet, got %+v", d)
	}
	if d.Best == nil || d.Best.MarketLabel != "12" {
		t.Fatalf("expected best candidate 12, got %+v", d.Best)
	}

	settings.ProbabilityThreshold = 0.6
	d = Select(forecast(10), settings)
	if d.Status != StatusPick || d.Pick == nil {
		t.Fatalf("expected pick, got %+v", d)
	}
	if d.Pick.Probability < settings.ProbabilityThreshold {
		t.Fatalf("pick probability %f below threshold", d.Pick.Probability)
	}
	if d.Pick.MarketLabel != "12" {
		t.Fatalf("expected 12, got %s", d.Pick.MarketLabel)
	}
}

func TestSelectTieKeepsFirstConfigured(t *testing.T) {
	settings := models.DefaultSettings()
	settings.ProbabilityThreshold = 0.5
	settings.MarketLines = []string{"X2", "1X"}
	f := forecast(10)
	f.Blended = prediction.OutcomeProbabilities{HomeWin: 0.3, Draw: 0.4, AwayWin: 0.3}

	d := Select(f, settings)
	if d.Pick == nil || d.Pick.MarketLabel != "X2" {
		t.Fatalf("expected X2 to win the tie, got %+v", d.Pick)
	}
	if len(d.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(d.Candidates))
	}
}

func TestSelectIgnoresNonFiniteLines(t *testing.T) {
	for _, label := range []string{"Over Inf", "Over NaN", "Over 1e20"} {
		settings := models.DefaultSettings()
		settings.ProbabilityThreshold = 0.6
		settings.MarketLines = []string{label, "1X"}

		d := Select(forecast(10), settings)
		if len(d.Candidates) != 1 || d.Candidates[0].MarketLabel != "1X" {
			t.Fatalf("%s: expected only 1X as candidate, got %+v", label, d.Candidates)
		}
		if d.Pick == nil || d.Pick.MarketLabel != "1X" || d.Pick.Probability >= 1 {
			t.Fatalf("%s: expected a 1X pick below certainty, got %+v", label, d.Pick)
		}
	}
}
