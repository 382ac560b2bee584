package backtest

import (
	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/models"
)

// tally accumulates per-team evaluations during a replay
type tally struct {
	all         bool
	teams       map[int64]bool
	evaluations map[int64]*models.TeamEvaluation
}

func newTally(teams []int64) *tally {
	t := &tally{
		all:         len(teams) == 0,
		teams:       make(map[int64]bool, len(teams)),
		evaluations: make(map[int64]*models.TeamEvaluation),
	}
	for _, id := range teams {
		t.teams[id] = true
		t.evaluations[id] = &models.TeamEvaluation{TeamID: id}
	}
	return t
}

func (t *tally) interested(fixture models.Fixture) bool {
	return t.all || t.teams[fixture.HomeTeamID] || t.teams[fixture.AwayTeamID]
}

// grade credits the decision to every team of interest in the fixture
func (t *tally) grade(fixture models.Fixture, decision market.Decision) (GradedPick, bool) {
	var (
		pick GradedPick
		hit  bool
	)
	picked := decision.Status == market.StatusPick && decision.Pick != nil
	if picked {
		m, err := market.Parse(decision.Pick.MarketLabel)
		if err != nil {
			picked = false
		} else {
			home, away := fixture.Score()
			hit = m.IsHit(home, away)
			pick = GradedPick{
				FixtureID:   fixture.ID,
				Date:        fixture.Kickoff(),
				HomeTeamID:  fixture.HomeTeamID,
				AwayTeamID:  fixture.AwayTeamID,
				MarketLabel: m.Label,
				Probability: decision.Pick.Probability,
				Hit:         hit,
			}
		}
	}

	for _, teamID := range []int64{fixture.HomeTeamID, fixture.AwayTeamID} {
		if !t.all && !t.teams[teamID] {
			continue
		}
		eval := t.evaluation(teamID)
		eval.EvaluatedCount++
		if !picked {
			continue
		}
		eval.PickCount++
		tallyMarket := eval.ByMarket[pick.MarketLabel]
		tallyMarket.Picks++
		if hit {
			eval.HitCount++
			tallyMarket.Hits++
		}
		eval.ByMarket[pick.MarketLabel] = tallyMarket
	}

	return pick, picked
}

func (t *tally) evaluation(teamID int64) *models.TeamEvaluation {
	eval, ok := t.evaluations[teamID]
	if !ok {
		eval = &models.TeamEvaluation{TeamID: teamID}
		t.evaluations[teamID] = eval
	}
	if eval.ByMarket == nil {
		eval.ByMarket = make(map[string]models.MarketTally)
	}
	return eval
}

func (t *tally) finalize() map[int64]*models.TeamEvaluation {
	for _, eval := range t.evaluations {
		eval.Finalize()
	}
	return t.evaluations
}
