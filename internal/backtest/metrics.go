package backtest

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/models"
)

// MarketStats summarizes the picks made on one market label
type MarketStats struct {
	Label              string  `json:"label"`
	Picks              int     `json:"picks"`
	Hits               int     `json:"hits"`
	HitRate            float64 `json:"hit_rate"`
	AverageProbability float64 `json:"average_probability"`
}

// Summary represents replay performance across all graded fixtures
type Summary struct {
	Fixtures           int                   `json:"fixtures"`
	Skipped            int                   `json:"skipped"`
	Graded             int                   `json:"graded"`
	TotalPicks         int                   `json:"total_picks"`
	Hits               int                   `json:"hits"`
	HitRate            float64               `json:"hit_rate"`
	Coverage           float64               `json:"coverage"`
	AverageProbability float64               `json:"average_probability"`
	BrierScore         float64               `json:"brier_score"`
	LongestMissStreak  int                   `json:"longest_miss_streak"`
	Decisions          map[market.Status]int `json:"decisions"`
	Markets            []MarketStats         `json:"markets"`
	SettingsHash       string                `json:"settings_hash"`
}

// Summarize calculates aggregate metrics from a replay result
func Summarize(result *Result, settings models.AlgoSettings) Summary {
	summary := Summary{SettingsHash: models.NormalizeSettings(settings).Fingerprint()}
	if result == nil {
		return summary
	}

	summary.Fixtures = result.Fixtures
	summary.Skipped = result.Skipped
	summary.Graded = result.Graded
	summary.Decisions = result.Decisions
	summary.TotalPicks = len(result.Trace)

	byLabel := make(map[string]*MarketStats)
	probabilities := make([]float64, 0, len(result.Trace))
	brier := 0.0
	for _, pick := range result.Trace {
		stats, ok := byLabel[pick.MarketLabel]
		if !ok {
			stats = &MarketStats{Label: pick.MarketLabel}
			byLabel[pick.MarketLabel] = stats
		}
		stats.Picks++
		stats.AverageProbability += pick.Probability
		outcome := 0.0
		if pick.Hit {
			summary.Hits++
			stats.Hits++
			outcome = 1
		}
		brier += (pick.Probability - outcome) * (pick.Probability - outcome)
		probabilities = append(probabilities, pick.Probability)
	}

	if summary.TotalPicks > 0 {
		summary.HitRate = float64(summary.Hits) / float64(summary.TotalPicks)
		summary.BrierScore = brier / float64(summary.TotalPicks)
		summary.AverageProbability = average(probabilities)
	}
	if summary.Graded > 0 {
		summary.Coverage = float64(summary.TotalPicks) / float64(summary.Graded)
	}
	summary.LongestMissStreak = BuildHitCurve(result.Trace).LongestMissStreak()

	for _, stats := range byLabel {
		stats.HitRate = float64(stats.Hits) / float64(stats.Picks)
		stats.AverageProbability /= float64(stats.Picks)
		summary.Markets = append(summary.Markets, *stats)
	}
	sort.Slice(summary.Markets, func(i, j int) bool {
		if summary.Markets[i].Picks != summary.Markets[j].Picks {
			return summary.Markets[i].Picks > summary.Markets[j].Picks
		}
		return summary.Markets[i].Label < summary.Markets[j].Label
	})

	return summary
}

// ToJSON serializes summary to JSON
func (s Summary) ToJSON() string {
	data, _ := json.Marshal(s)
	return string(data)
}

// SortedEvaluations returns the result's evaluations ordered by pick count desc then team id
func SortedEvaluations(result *Result) []models.TeamEvaluation {
	if result == nil {
		return nil
	}
	out := make([]models.TeamEvaluation, 0, len(result.Evaluations))
	for _, eval := range result.Evaluations {
		out = append(out, *eval)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PickCount != out[j].PickCount {
			return out[i].PickCount > out[j].PickCount
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}
