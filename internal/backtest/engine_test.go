package backtest

import (
	"reflect"
	"testing"

	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

func TestReplayDeterministic(t *testing.T) {
	fixtures := buildSeason(1, 6, 2)
	replayer := NewReplayer(nil)

	first := replayer.Replay(fixtures, testSettings(), Options{})
	second := replayer.Replay(fixtures, testSettings(), Options{})

	if len(first.Trace) == 0 {
		t.Fatalf("expected picks to be made")
	}
	if !reflect.DeepEqual(first.Trace, second.Trace) {
		t.Fatalf("expected identical traces on repeated runs")
	}
	if !reflect.DeepEqual(first.Evaluations, second.Evaluations) {
		t.Fatalf("expected identical evaluations on repeated runs")
	}
}

func TestReplayIgnoresInputOrder(t *testing.T) {
	fixtures := buildSeason(1, 4, 2)
	reversed := make([]models.Fixture, len(fixtures))
	for i := range fixtures {
		reversed[len(fixtures)-1-i] = fixtures[i]
	}

	replayer := NewReplayer(nil)
	a := replayer.Replay(fixtures, testSettings(), Options{})
	b := replayer.Replay(reversed, testSettings(), Options{})
	if !reflect.DeepEqual(a.Trace, b.Trace) {
		t.Fatalf("replay must sort fixtures before grading")
	}
	if fixtures[0].ID != 1 {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestReplayNoLookAhead(t *testing.T) {
	fixtures := buildSeason(1, 6, 2)
	cut := len(fixtures) / 2

	mutated := make([]models.Fixture, len(fixtures))
	copy(mutated, fixtures)
	for i := cut; i < len(mutated); i++ {
		mutated[i].GoalsHome = intPtr(9)
		mutated[i].GoalsAway = intPtr(0)
	}

	collect := func(input []models.Fixture) map[int64]market.Decision {
		decisions := make(map[int64]market.Decision)
		NewReplayer(nil).Replay(input, testSettings(), Options{
			Observer: func(f models.Fixture, _ prediction.Forecast, d market.Decision) {
				decisions[f.ID] = d
			},
		})
		return decisions
	}

	original := collect(fixtures)
	changed := collect(mutated)
	for i := 0; i <= cut; i++ {
		id := fixtures[i].ID
		if !reflect.DeepEqual(original[id], changed[id]) {
			t.Fatalf("decision for fixture %d changed after mutating later results", id)
		}
	}
}

func TestReplaySkipsUnplayedFixtures(t *testing.T) {
	fixtures := buildSeason(1, 4, 1)
	fixtures[2].GoalsAway = nil
	fixtures[5].Date = nil

	result := NewReplayer(nil).Replay(fixtures, testSettings(), Options{})
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped fixtures, got %d", result.Skipped)
	}
	if result.State.Recorded != len(fixtures)-2 {
		t.Fatalf("expected %d recorded fixtures, got %d", len(fixtures)-2, result.State.Recorded)
	}
	if result.State.Leagues.Baseline(1).MatchCount != len(fixtures)-2 {
		t.Fatalf("league baseline should only count played fixtures")
	}
}

func TestReplayTeamFilterAndCounts(t *testing.T) {
	fixtures := buildSeason(1, 6, 2)
	result := NewReplayer(nil).Replay(fixtures, testSettings(), Options{Teams: []int64{3}})

	if len(result.Evaluations) != 1 {
		t.Fatalf("expected only team 3 to be evaluated, got %d teams", len(result.Evaluations))
	}
	eval := result.Evaluation(3)
	involving := 0
	for _, f := range fixtures {
		if f.Involves(3) {
			involving++
		}
	}
	if eval.EvaluatedCount != involving {
		t.Fatalf("expected %d evaluated fixtures, got %d", involving, eval.EvaluatedCount)
	}
	if eval.PickCount != len(result.Trace) {
		t.Fatalf("expected every traced pick to involve team 3")
	}
	if eval.PickCount > 0 && eval.HitRate != float64(eval.HitCount)/float64(eval.PickCount) {
		t.Fatalf("hit rate not derived from counters")
	}
	byMarket := 0
	for _, tally := range eval.ByMarket {
		byMarket += tally.Picks
	}
	if byMarket != eval.PickCount {
		t.Fatalf("market tallies %d do not add up to %d picks", byMarket, eval.PickCount)
	}
}

func TestReplayGradesPicksAgainstScore(t *testing.T) {
	fixtures := buildSeason(1, 6, 2)
	byID := make(map[int64]models.Fixture)
	for _, f := range fixtures {
		byID[f.ID] = f
	}

	result := NewReplayer(nil).Replay(fixtures, testSettings(), Options{})
	for _, pick := range result.Trace {
		m, err := market.Parse(pick.MarketLabel)
		if err != nil {
			t.Fatalf("unexpected label %q", pick.MarketLabel)
		}
		home, away := byID[pick.FixtureID].Score()
		if m.IsHit(home, away) != pick.Hit {
			t.Fatalf("fixture %d graded incorrectly", pick.FixtureID)
		}
		if pick.Probability < testSettings().ProbabilityThreshold {
			t.Fatalf("pick below threshold: %f", pick.Probability)
		}
	}
}

func TestReplayGradeFromWarmsOnly(t *testing.T) {
	fixtures := buildSeason(1, 6, 2)
	cutoff := fixtures[len(fixtures)/2].Kickoff()

	result := NewReplayer(nil).Replay(fixtures, testSettings(), Options{GradeFrom: cutoff})
	for _, pick := range result.Trace {
		if pick.Date.Before(cutoff) {
			t.Fatalf("fixture %d before cutoff was graded", pick.FixtureID)
		}
	}
	if result.State.Recorded != len(fixtures) {
		t.Fatalf("warm-up fixtures must still be recorded")
	}
	full := NewReplayer(nil).Replay(fixtures, testSettings(), Options{})
	if result.Graded >= full.Graded {
		t.Fatalf("expected fewer graded fixtures with a cutoff")
	}
}

func TestWarmMatchesReplayState(t *testing.T) {
	fixtures := buildSeason(1, 4, 2)
	cutoff := fixtures[10].Kickoff()
	state := Warm(fixtures, testSettings(), cutoff)
	if state.Recorded != 10 {
		t.Fatalf("expected 10 fixtures strictly before cutoff, got %d", state.Recorded)
	}

	_, decision := PredictFixture(state, fixtures[10], testSettings())
	var observed market.Decision
	NewReplayer(nil).Replay(fixtures, testSettings(), Options{
		Observer: func(f models.Fixture, _ prediction.Forecast, d market.Decision) {
			if f.ID == fixtures[10].ID {
				observed = d
			}
		},
	})
	if !reflect.DeepEqual(decision, observed) {
		t.Fatalf("live prediction differs from replay decision")
	}
}

func TestSortFixturesTieBreaksOnID(t *testing.T) {
	date := seasonStart
	fixtures := []models.Fixture{{ID: 3, Date: &date}, {ID: 1, Date: &date}, {ID: 2}}
	sorted := SortFixtures(fixtures)
	if sorted[0].ID != 2 || sorted[1].ID != 1 || sorted[2].ID != 3 {
		t.Fatalf("unexpected order %d %d %d", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}
