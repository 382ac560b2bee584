// Package optimizer searches algorithm settings per team and league using
// chronological replays as the objective.
package optimizer

import (
	"math/rand"

	"github.com/yourusername/formcast/internal/models"
)

// DefaultPoolSize is the number of grid candidates evaluated per search
const DefaultPoolSize = 30

// Search grid dimensions
var (
	WindowSizes       = []int{10, 15, 20, 25, 30}
	BucketSizes       = []int{3, 5}
	Thresholds        = []float64{0.55, 0.6, 0.65, 0.7, 0.75}
	MinMatchFloors    = []int{3, 5, 8}
	LeagueMatchFloors = []int{10, 20, 30}

	MarketLineSets = [][]string{
		{"Over 1.5", "Under 3.5", "1X", "X2"},
		{"Over 0.5", "Over 1.5"},
		{"Under 2.5", "Under 3.5", "Under 4.5"},
		{"1X", "X2", "12"},
		{"Over 1.5", "Over 2.5", "Under 2.5", "Under 3.5"},
		{"Over 0.5", "Over 1.5", "Under 3.5", "Under 4.5", "1X", "X2", "12"},
	}

	DecayProfiles = []DecayProfile{
		{Name: "flat", Weights: []float64{1}},
		{Name: "moderate", Weights: []float64{1, 0.85, 0.7, 0.55}},
		{Name: "steep", Weights: []float64{1, 0.6, 0.35, 0.2}},
	}
)

// DecayProfile is a named set of recency bucket weights
type DecayProfile struct {
	Name    string
	Weights []float64
}

// CandidateGrid returns the full cross product of the search dimensions in a fixed order
func CandidateGrid() []models.AlgoSettings {
	size := len(WindowSizes) * len(BucketSizes) * len(Thresholds) * len(MinMatchFloors) *
		len(LeagueMatchFloors) * len(MarketLineSets) * len(DecayProfiles)
	grid := make([]models.AlgoSettings, 0, size)

	for _, window := range WindowSizes {
		for _, bucket := range BucketSizes {
			for _, threshold := range Thresholds {
				for _, minMatches := range MinMatchFloors {
					for _, minLeague := range LeagueMatchFloors {
						for _, lines := range MarketLineSets {
							for _, profile := range DecayProfiles {
								grid = append(grid, models.NormalizeSettings(models.AlgoSettings{
									WindowSize:           window,
									BucketSize:           bucket,
									RecencyWeights:       append([]float64(nil), profile.Weights...),
									MinMatches:           minMatches,
									MinLeagueMatches:     minLeague,
									ProbabilityThreshold: threshold,
									MarketLines:          append([]string(nil), lines...),
								}))
							}
						}
					}
				}
			}
		}
	}
	return grid
}

// SampleCandidates shuffles a copy of the grid with a Fisher-Yates pass driven by
// rand.NewSource(seed) and returns its first size entries. The same grid, size and
// seed always produce the same pool. A non-positive size means DefaultPoolSize.
func SampleCandidates(grid []models.AlgoSettings, size int, seed int64) []models.AlgoSettings {
	if size <= 0 {
		size = DefaultPoolSize
	}
	shuffled := make([]models.AlgoSettings, len(grid))
	copy(shuffled, grid)

	rng := rand.New(rand.NewSource(seed))
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if size > len(shuffled) {
		size = len(shuffled)
	}
	return shuffled[:size]
}
