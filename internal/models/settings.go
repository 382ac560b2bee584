package models

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
)

// Settings bounds
const (
	MinWindowSize           = 5
	MaxWindowSize           = 60
	MinProbabilityThreshold = 0.5
	MaxProbabilityThreshold = 0.95
)

// DefaultMarketLines is used when a settings value carries no usable market line
var DefaultMarketLines = []string{"Over 1.5", "Under 3.5", "1X", "X2"}

// AlgoSettings configures rolling form, shrinkage and market selection for one team or league.
// Values are expected to have passed through NormalizeSettings.
type AlgoSettings struct {
	WindowSize           int       `json:"window_size" mapstructure:"window_size"`
	BucketSize           int       `json:"bucket_size" mapstructure:"bucket_size"`
	RecencyWeights       []float64 `json:"recency_weights" mapstructure:"recency_weights"`
	MinMatches           int       `json:"min_matches" mapstructure:"min_matches"`
	MinLeagueMatches     int       `json:"min_league_matches" mapstructure:"min_league_matches"`
	ProbabilityThreshold float64   `json:"probability_threshold" mapstructure:"probability_threshold"`
	MarketLines          []string  `json:"market_lines" mapstructure:"market_lines"`
}

// DefaultSettings returns the settings applied when nothing has been tuned yet
func DefaultSettings() AlgoSettings {
	return AlgoSettings{
		WindowSize:           20,
		BucketSize:           5,
		RecencyWeights:       []float64{1, 0.85, 0.7, 0.55},
		MinMatches:           5,
		MinLeagueMatches:     20,
		ProbabilityThreshold: 0.65,
		MarketLines:          append([]string(nil), DefaultMarketLines...),
	}
}

// NormalizeSettings clamps raw input into the supported ranges. It never rejects a value.
func NormalizeSettings(raw AlgoSettings) AlgoSettings {
	out := AlgoSettings{
		WindowSize:           clampInt(raw.WindowSize, MinWindowSize, MaxWindowSize),
		MinLeagueMatches:     raw.MinLeagueMatches,
		ProbabilityThreshold: clampFloat(raw.ProbabilityThreshold, MinProbabilityThreshold, MaxProbabilityThreshold),
	}
	out.BucketSize = clampInt(raw.BucketSize, 1, out.WindowSize)
	out.MinMatches = clampInt(raw.MinMatches, 1, out.WindowSize)
	if out.MinLeagueMatches < 0 {
		out.MinLeagueMatches = 0
	}
	out.RecencyWeights = normalizeWeights(raw.RecencyWeights)
	out.MarketLines = normalizeMarketLines(raw.MarketLines)
	return out
}

// Fingerprint returns a structural hash of the normalized settings, so values that
// replay identically share a fingerprint
func (s AlgoSettings) Fingerprint() string {
	data, err := json.Marshal(NormalizeSettings(s))
	if err != nil {
		panic(fmt.Sprintf("normalized settings must marshal: %v", err))
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:16])
}

// Equal reports whether two settings values are identical
func (s AlgoSettings) Equal(other AlgoSettings) bool {
	return s.Fingerprint() == other.Fingerprint()
}

func normalizeWeights(weights []float64) []float64 {
	out := make([]float64, 0, len(weights))
	positive := false
	for _, w := range weights {
		if math.IsNaN(w) || w < 0 {
			w = 0
		}
		if math.IsInf(w, 1) {
			w = 1
		}
		if w > 0 {
			positive = true
		}
		out = append(out, w)
	}
	if !positive {
		return []float64{1}
	}
	return out
}

func normalizeMarketLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		spec, err := ParseMarketLabel(line)
		if err != nil || seen[spec.Label] {
			continue
		}
		seen[spec.Label] = true
		out = append(out, spec.Label)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultMarketLines...)
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
