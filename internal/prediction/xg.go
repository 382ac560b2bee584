package prediction

import (
	"math"

	"github.com/yourusername/formcast/internal/form"
)

// Expected goals bounds
const (
	MinExpectedGoals = 0.1
	MaxExpectedGoals = 6.0
)

// ExpectedGoals holds the Poisson means for both sides of a fixture
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Total returns the mean of the total-goals distribution
func (x ExpectedGoals) Total() float64 {
	return x.Home + x.Away
}

// Shrink pools a sample average of size n with a prior worth priorN samples
func Shrink(avg float64, n int, prior float64, priorN int) float64 {
	if n < 0 {
		n = 0
	}
	if priorN < 0 {
		priorN = 0
	}
	if n+priorN == 0 {
		return prior
	}
	return (avg*float64(n) + prior*float64(priorN)) / float64(n+priorN)
}

// ComputeExpectedGoals turns the home side's home form and the away side's away form
// into clamped expected goals, shrinking both toward the league averages.
// With no samples on either side the league averages come back unchanged.
func ComputeExpectedGoals(home, away form.Averages, leagueHome, leagueAway float64, priorN int) ExpectedGoals {
	homeGF := Shrink(home.GoalsFor, home.N, leagueHome, priorN)
	homeGA := Shrink(home.GoalsAgainst, home.N, leagueAway, priorN)
	awayGF := Shrink(away.GoalsFor, away.N, leagueAway, priorN)
	awayGA := Shrink(away.GoalsAgainst, away.N, leagueHome, priorN)

	homeAttack := ratio(homeGF, leagueHome)
	homeDefense := ratio(homeGA, leagueAway)
	awayAttack := ratio(awayGF, leagueAway)
	awayDefense := ratio(awayGA, leagueHome)

	return ExpectedGoals{
		Home: clampGoals(homeAttack * awayDefense * leagueHome),
		Away: clampGoals(awayAttack * homeDefense * leagueAway),
	}
}

func ratio(value, base float64) float64 {
	if base <= 0 {
		return 1
	}
	return value / base
}

func clampGoals(xg float64) float64 {
	if math.IsNaN(xg) {
		return MinExpectedGoals
	}
	return math.Min(MaxExpectedGoals, math.Max(MinExpectedGoals, xg))
}
