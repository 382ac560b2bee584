package prediction

import "github.com/yourusername/formcast/internal/form"

// EmpiricalWeight is the share of the empirical model in the blend
const EmpiricalWeight = 0.5

// EmpiricalOutcome combines the home side's home results with the away side's
// away results. It reports false when either side has no samples.
func EmpiricalOutcome(home, away form.Rates) (OutcomeProbabilities, bool) {
	if home.N == 0 || away.N == 0 {
		return OutcomeProbabilities{}, false
	}
	return OutcomeProbabilities{
		HomeWin: (home.Win + away.Loss) / 2,
		Draw:    (home.Draw + away.Draw) / 2,
		AwayWin: (home.Loss + away.Win) / 2,
	}.Normalize(), true
}

// Blend mixes the Poisson and empirical distributions. A nil empirical
// distribution leaves the Poisson one unchanged.
func Blend(poisson OutcomeProbabilities, empirical *OutcomeProbabilities) OutcomeProbabilities {
	if empirical == nil {
		return poisson.Normalize()
	}
	return OutcomeProbabilities{
		HomeWin: poisson.HomeWin*(1-EmpiricalWeight) + empirical.HomeWin*EmpiricalWeight,
		Draw:    poisson.Draw*(1-EmpiricalWeight) + empirical.Draw*EmpiricalWeight,
		AwayWin: poisson.AwayWin*(1-EmpiricalWeight) + empirical.AwayWin*EmpiricalWeight,
	}.Normalize()
}
