package backtest

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/form"
	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

// Observer receives every pre-fixture forecast and decision made during a replay
type Observer func(fixture models.Fixture, forecast prediction.Forecast, decision market.Decision)

// Options narrows what a replay grades
type Options struct {
	// Teams to grade. Empty grades every team.
	Teams []int64
	// Fixtures kicking off before GradeFrom only warm the state.
	GradeFrom time.Time
	Observer  Observer
}

// GradedPick is one emitted pick graded against the final score
type GradedPick struct {
	FixtureID   int64     `json:"fixture_id"`
	Date        time.Time `json:"date"`
	HomeTeamID  int64     `json:"home_team_id"`
	AwayTeamID  int64     `json:"away_team_id"`
	MarketLabel string    `json:"market_label"`
	Probability float64   `json:"probability"`
	Hit         bool      `json:"hit"`
}

// Result is the outcome of one replay
type Result struct {
	Evaluations map[int64]*models.TeamEvaluation `json:"evaluations"`
	Trace       []GradedPick                     `json:"trace"`
	Decisions   map[market.Status]int            `json:"decisions"`
	Fixtures    int                              `json:"fixtures"`
	Skipped     int                              `json:"skipped"`
	Graded      int                              `json:"graded"`
	State       *form.State                      `json:"-"`
}

// Evaluation returns the team's evaluation, zero valued when the team was never graded
func (r *Result) Evaluation(teamID int64) models.TeamEvaluation {
	if eval, ok := r.Evaluations[teamID]; ok {
		return *eval
	}
	return models.TeamEvaluation{TeamID: teamID}
}

// Replayer walks fixture history in kickoff order without look-ahead
type Replayer struct {
	logger *logrus.Logger
}

// NewReplayer creates a replayer
func NewReplayer(logger *logrus.Logger) *Replayer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Replayer{logger: logger}
}

// Replay grades every fixture from the state built by the fixtures before it.
// For each fixture the pick is made first, graded second, and only then is the
// result recorded into the rolling windows and league baseline.
func (r *Replayer) Replay(fixtures []models.Fixture, settings models.AlgoSettings, opts Options) *Result {
	start := time.Now()
	settings = models.NormalizeSettings(settings)
	ordered := SortFixtures(fixtures)
	tally := newTally(opts.Teams)

	result := &Result{
		Decisions: make(map[market.Status]int),
		Fixtures:  len(ordered),
		State:     form.NewState(settings.WindowSize),
	}

	for _, fixture := range ordered {
		if !fixture.IsPlayed() {
			result.Skipped++
			continue
		}

		if fixture.Kickoff().Before(opts.GradeFrom) {
			result.State.Record(fixture)
			continue
		}

		forecast, decision := PredictFixture(result.State, fixture, settings)
		if opts.Observer != nil {
			opts.Observer(fixture, forecast, decision)
		}
		result.Decisions[decision.Status]++

		if tally.interested(fixture) {
			result.Graded++
			if pick, ok := tally.grade(fixture, decision); ok {
				result.Trace = append(result.Trace, pick)
			}
		}

		result.State.Record(fixture)
	}

	result.Evaluations = tally.finalize()

	r.logger.WithFields(logrus.Fields{
		"fixtures": result.Fixtures,
		"skipped":  result.Skipped,
		"graded":   result.Graded,
		"picks":    len(result.Trace),
		"duration": time.Since(start),
	}).Debug("Replay completed")

	return result
}

// Warm builds rolling state from every played fixture kicking off strictly before the cutoff
func Warm(fixtures []models.Fixture, settings models.AlgoSettings, before time.Time) *form.State {
	settings = models.NormalizeSettings(settings)
	state := form.NewState(settings.WindowSize)
	for _, fixture := range SortFixtures(fixtures) {
		if !fixture.IsPlayed() || !fixture.Kickoff().Before(before) {
			continue
		}
		state.Record(fixture)
	}
	return state
}

// PredictFixture forecasts a fixture from the given state and selects a market
func PredictFixture(state *form.State, fixture models.Fixture, settings models.AlgoSettings) (prediction.Forecast, market.Decision) {
	forecast := prediction.Predict(state, fixture, settings)
	return forecast, market.Select(forecast, settings)
}

// SortFixtures returns a copy ordered by kickoff then id. Fixtures without a date sort first.
func SortFixtures(fixtures []models.Fixture) []models.Fixture {
	ordered := make([]models.Fixture, len(fixtures))
	copy(ordered, fixtures)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Kickoff(), ordered[j].Kickoff()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
