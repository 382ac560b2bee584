package backtest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// BootstrapConfig configures hit rate resampling
type BootstrapConfig struct {
	Iterations    int
	Seed          int64
	TargetHitRate float64
}

// BootstrapResult represents the resampled hit rate distribution
type BootstrapResult struct {
	Iterations             int                   `json:"iterations"`
	Picks                  int                   `json:"picks"`
	MeanHitRate            float64               `json:"mean_hit_rate"`
	StdHitRate             float64               `json:"std_hit_rate"`
	ProbabilityMeetsTarget float64               `json:"probability_meets_target"`
	ConfidenceIntervals    map[string][2]float64 `json:"confidence_intervals"`
	Distribution           []float64             `json:"-"`
}

// Bootstrap resamples graded picks with replacement to estimate the spread of the hit rate.
// The same seed always yields the same result.
func Bootstrap(ctx context.Context, trace []GradedPick, cfg BootstrapConfig) (BootstrapResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	result := BootstrapResult{Iterations: cfg.Iterations, Picks: len(trace)}
	if len(trace) == 0 {
		return result, nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("bootstrap interrupted: %w", err)
			}
		}
		hits := 0
		for j := 0; j < len(trace); j++ {
			if trace[rng.Intn(len(trace))].Hit {
				hits++
			}
		}
		distribution[i] = float64(hits) / float64(len(trace))
	}

	result.MeanHitRate = average(distribution)
	result.StdHitRate = stddev(distribution)
	result.ProbabilityMeetsTarget = probabilityAtOrAbove(distribution, cfg.TargetHitRate)
	result.ConfidenceIntervals = CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99})
	result.Distribution = distribution
	return result, nil
}

// CalculateConfidenceIntervals returns the [low, high] percentile band for each level
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string][2]float64 {
	results := make(map[string][2]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		results[formatPercent(level)] = [2]float64{percentile(distribution, p), percentile(distribution, 1.0-p)}
	}
	return results
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	valuesCopy := append([]float64{}, values...)
	sort.Float64s(valuesCopy)
	idx := int(math.Floor(p * float64(len(valuesCopy)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(valuesCopy) {
		idx = len(valuesCopy) - 1
	}
	return valuesCopy[idx]
}

func probabilityAtOrAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
