package backtest

import (
	"time"

	"github.com/yourusername/formcast/internal/models"
)

var seasonStart = time.Date(2023, 8, 5, 15, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// buildSeason returns a double round robin between teams 1..teams with
// deterministic scores; strong home sides and low-scoring away sides.
func buildSeason(competitionID int64, teams int, rounds int) []models.Fixture {
	var fixtures []models.Fixture
	id := int64(1)
	day := 0
	for r := 0; r < rounds; r++ {
		for h := 1; h <= teams; h++ {
			for a := 1; a <= teams; a++ {
				if h == a {
					continue
				}
				date := seasonStart.AddDate(0, 0, day)
				day++
				home := (h*3 + a + r) % 4
				away := (a + r) % 2
				fixtures = append(fixtures, models.Fixture{
					ID:            id,
					Date:          &date,
					CompetitionID: competitionID,
					Season:        2023,
					HomeTeamID:    int64(h),
					AwayTeamID:    int64(a),
					GoalsHome:     intPtr(home),
					GoalsAway:     intPtr(away),
				})
				id++
			}
		}
	}
	return fixtures
}

func testSettings() models.AlgoSettings {
	return models.NormalizeSettings(models.AlgoSettings{
		WindowSize:           10,
		BucketSize:           3,
		RecencyWeights:       []float64{1, 0.7},
		MinMatches:           3,
		MinLeagueMatches:     10,
		ProbabilityThreshold: 0.55,
		MarketLines:          []string{"Over 0.5", "Under 4.5", "1X", "X2"},
	})
}
