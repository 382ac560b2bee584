package market

import (
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

// Status is the outcome of a market selection
type Status string

const (
	StatusPick   Status = "pick"
	StatusNoData Status = "no-data"
	StatusNoBet  Status = "no-bet"
)

// Decision is the result of selecting a market for one fixture.
// Pick is set only when Status is StatusPick. Best carries the strongest
// candidate even on StatusNoBet.
type Decision struct {
	Status     Status        `json:"status"`
	Pick       *models.Pick  `json:"pick,omitempty"`
	Best       *models.Pick  `json:"best,omitempty"`
	Candidates []models.Pick `json:"candidates,omitempty"`
}

// Select evaluates every configured market line and keeps the most probable one.
// Ties go to the line configured first.
func Select(f prediction.Forecast, settings models.AlgoSettings) Decision {
	if f.HomeSamples < settings.MinMatches || f.AwaySamples < settings.MinMatches {
		return Decision{Status: StatusNoData}
	}

	markets := ParseAll(settings.MarketLines)
	if len(markets) == 0 {
		return Decision{Status: StatusNoBet}
	}

	candidates := make([]models.Pick, 0, len(markets))
	best := -1
	for _, m := range markets {
		candidates = append(candidates, models.Pick{MarketLabel: m.Label, Probability: m.Probability(f)})
		if best < 0 || candidates[len(candidates)-1].Probability > candidates[best].Probability {
			best = len(candidates) - 1
		}
	}

	top := candidates[best]
	decision := Decision{Best: &top, Candidates: candidates}
	if top.Probability < settings.ProbabilityThreshold {
		decision.Status = StatusNoBet
		return decision
	}
	decision.Status = StatusPick
	decision.Pick = &top
	return decision
}
