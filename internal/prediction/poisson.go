package prediction

import "math"

// MaxGoals is the highest per-side goal count enumerated by the joint model
const MaxGoals = 10

// OutcomeProbabilities is a 1X2 distribution
type OutcomeProbabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Sum returns HomeWin + Draw + AwayWin
func (p OutcomeProbabilities) Sum() float64 {
	return p.HomeWin + p.Draw + p.AwayWin
}

// Normalize rescales the distribution to sum to 1. A degenerate input becomes uniform.
func (p OutcomeProbabilities) Normalize() OutcomeProbabilities {
	total := p.Sum()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return OutcomeProbabilities{HomeWin: 1.0 / 3, Draw: 1.0 / 3, AwayWin: 1.0 / 3}
	}
	return OutcomeProbabilities{
		HomeWin: p.HomeWin / total,
		Draw:    p.Draw / total,
		AwayWin: p.AwayWin / total,
	}
}

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda), computed in log space
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lgamma, _ := math.Lgamma(float64(k + 1))
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lgamma)
}

// cdfTail is the term size past the mode below which the remaining mass is ignored
const cdfTail = 1e-18

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda)
func PoissonCDF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		term := PoissonPMF(lambda, i)
		sum += term
		if float64(i) > lambda && term < cdfTail {
			return 1
		}
	}
	return math.Min(1, sum)
}

// PoissonOutcome enumerates independent home and away Poisson scores up to MaxGoals
// and returns the normalized 1X2 distribution
func PoissonOutcome(xg ExpectedGoals) OutcomeProbabilities {
	var home, away [MaxGoals + 1]float64
	for k := 0; k <= MaxGoals; k++ {
		home[k] = PoissonPMF(xg.Home, k)
		away[k] = PoissonPMF(xg.Away, k)
	}

	var out OutcomeProbabilities
	for h := 0; h <= MaxGoals; h++ {
		for a := 0; a <= MaxGoals; a++ {
			p := home[h] * away[a]
			switch {
			case h > a:
				out.HomeWin += p
			case h < a:
				out.AwayWin += p
			default:
				out.Draw += p
			}
		}
	}
	return out.Normalize()
}

// OverProbability returns P(total > line) using the total-goals Poisson distribution
// A NaN or out-of-range line has no mass above it.
func OverProbability(lambda, line float64) float64 {
	switch {
	case math.IsNaN(line), line >= math.MaxInt32:
		return 0
	case line < 0:
		return 1
	}
	return 1 - PoissonCDF(lambda, int(math.Floor(line)))
}

// UnderProbability returns P(total <= line), the complement of OverProbability.
// A NaN line yields 0.
func UnderProbability(lambda, line float64) float64 {
	if math.IsNaN(line) {
		return 0
	}
	return 1 - OverProbability(lambda, line)
}
