package prediction

import (
	"github.com/yourusername/formcast/internal/form"
	"github.com/yourusername/formcast/internal/models"
)

// Forecast is everything the model knows about a fixture before kickoff
type Forecast struct {
	FixtureID   int64                 `json:"fixture_id"`
	LeagueHome  float64               `json:"league_home"`
	LeagueAway  float64               `json:"league_away"`
	HomeSamples int                   `json:"home_samples"`
	AwaySamples int                   `json:"away_samples"`
	XG          ExpectedGoals         `json:"xg"`
	Poisson     OutcomeProbabilities  `json:"poisson"`
	Empirical   *OutcomeProbabilities `json:"empirical,omitempty"`
	Blended     OutcomeProbabilities  `json:"blended"`
}

// Predict builds a forecast from pre-fixture state. The fixture's own score is never read.
func Predict(state *form.State, fixture models.Fixture, settings models.AlgoSettings) Forecast {
	homeWindow := state.Form.Window(fixture.HomeTeamID, models.VenueHome)
	awayWindow := state.Form.Window(fixture.AwayTeamID, models.VenueAway)

	homeAvg := homeWindow.WeightedAverage(settings.BucketSize, settings.RecencyWeights)
	awayAvg := awayWindow.WeightedAverage(settings.BucketSize, settings.RecencyWeights)

	leagueHome, leagueAway := state.Leagues.Baseline(fixture.CompetitionID).Averages(settings.MinLeagueMatches)
	xg := ComputeExpectedGoals(homeAvg, awayAvg, leagueHome, leagueAway, settings.WindowSize)

	f := Forecast{
		FixtureID:   fixture.ID,
		LeagueHome:  leagueHome,
		LeagueAway:  leagueAway,
		HomeSamples: homeAvg.N,
		AwaySamples: awayAvg.N,
		XG:          xg,
		Poisson:     PoissonOutcome(xg),
	}

	homeRates := homeWindow.WeightedRates(settings.BucketSize, settings.RecencyWeights)
	awayRates := awayWindow.WeightedRates(settings.BucketSize, settings.RecencyWeights)
	if empirical, ok := EmpiricalOutcome(homeRates, awayRates); ok {
		f.Empirical = &empirical
	}
	f.Blended = Blend(f.Poisson, f.Empirical)
	return f
}

// Over returns P(total goals > line)
func (f Forecast) Over(line float64) float64 {
	return OverProbability(f.XG.Total(), line)
}

// Under returns P(total goals <= line)
func (f Forecast) Under(line float64) float64 {
	return UnderProbability(f.XG.Total(), line)
}

// DoubleChance returns the blended probability of a double chance code.
// Unknown codes yield 0.
func (f Forecast) DoubleChance(code string) float64 {
	switch code {
	case models.DoubleChanceHomeOrDraw:
		return f.Blended.HomeWin + f.Blended.Draw
	case models.DoubleChanceDrawOrAway:
		return f.Blended.Draw + f.Blended.AwayWin
	case models.DoubleChanceHomeOrAway:
		return f.Blended.HomeWin + f.Blended.AwayWin
	default:
		return 0
	}
}

// MinSamples returns the smaller of the two sides' sample counts
func (f Forecast) MinSamples() int {
	if f.HomeSamples < f.AwaySamples {
		return f.HomeSamples
	}
	return f.AwaySamples
}
