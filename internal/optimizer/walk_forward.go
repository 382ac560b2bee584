package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/models"
)

// WalkForwardConfig configures expanding-window validation
type WalkForwardConfig struct {
	Folds int
	// MinTrainFixtures is the smallest training history accepted for the first fold
	MinTrainFixtures int
	TargetHitRate    float64
}

// WalkForwardFold is one train/test split
type WalkForwardFold struct {
	Fold          int                   `json:"fold"`
	TestStart     time.Time             `json:"test_start"`
	TestEnd       time.Time             `json:"test_end"`
	Settings      models.AlgoSettings   `json:"settings"`
	MeetsCriteria bool                  `json:"meets_criteria"`
	Train         models.TeamEvaluation `json:"train"`
	Test          models.TeamEvaluation `json:"test"`
}

// WalkForwardResult aggregates every fold
type WalkForwardResult struct {
	RunID            uuid.UUID             `json:"run_id"`
	TeamID           int64                 `json:"team_id"`
	RequestedFolds   int                   `json:"requested_folds"`
	Folds            []WalkForwardFold     `json:"folds"`
	AggregateTest    models.TeamEvaluation `json:"aggregate_test"`
	ConsistencyScore float64               `json:"consistency_score"`
	OverfitScore     float64               `json:"overfit_score"`
}

// RunWalkForward splits the played history into Folds+1 chronological chunks.
// Chunk boundaries never split a kickoff, so crowded kickoffs can merge chunks;
// the result then holds fewer folds than RequestedFolds.
// Fold k optimizes on chunks before k and grades the chosen settings on chunk k
// only, with every earlier fixture warming the state.
func (o *Optimizer) RunWalkForward(ctx context.Context, fixtures []models.Fixture, teamID int64, base models.AlgoSettings, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if cfg.Folds <= 0 {
		return WalkForwardResult{}, fmt.Errorf("walk forward needs at least one fold, got %d", cfg.Folds)
	}

	played := make([]models.Fixture, 0, len(fixtures))
	for _, f := range backtest.SortFixtures(fixtures) {
		if f.IsPlayed() {
			played = append(played, f)
		}
	}

	bounds := foldBoundaries(played, cfg.Folds)
	if len(bounds) < 2 || bounds[0] < cfg.MinTrainFixtures {
		return WalkForwardResult{}, fmt.Errorf("not enough played fixtures for %d folds: %d", cfg.Folds, len(played))
	}

	result := WalkForwardResult{RunID: uuid.New(), TeamID: teamID, RequestedFolds: cfg.Folds}
	if got := len(bounds) - 1; got < cfg.Folds {
		o.logger.LogFoldsMerged(result.RunID.String(), teamID, cfg.Folds, got)
	}
	aggregate := models.TeamEvaluation{TeamID: teamID, ByMarket: make(map[string]models.MarketTally)}

	for k := 1; k < len(bounds); k++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("walk forward fold %d: %w", k, err)
		}
		train := played[:bounds[k-1]]
		through := played[:bounds[k]]
		testStart := played[bounds[k-1]].Kickoff()

		search := o.OptimizeTeam(ctx, train, teamID, base)
		chosen := search.Best.Settings

		test := o.replayer.Replay(through, chosen, backtest.Options{
			Teams:     []int64{teamID},
			GradeFrom: testStart,
		}).Evaluation(teamID)

		result.Folds = append(result.Folds, WalkForwardFold{
			Fold:          k,
			TestStart:     testStart,
			TestEnd:       played[bounds[k]-1].Kickoff(),
			Settings:      chosen,
			MeetsCriteria: search.MeetsCriteria,
			Train:         search.Best.Evaluation,
			Test:          test,
		})

		aggregate.PickCount += test.PickCount
		aggregate.HitCount += test.HitCount
		aggregate.EvaluatedCount += test.EvaluatedCount
		for label, tally := range test.ByMarket {
			sum := aggregate.ByMarket[label]
			sum.Picks += tally.Picks
			sum.Hits += tally.Hits
			aggregate.ByMarket[label] = sum
		}
	}

	aggregate.Finalize()
	result.AggregateTest = aggregate
	result.ConsistencyScore = CalculateConsistency(result.Folds, cfg.TargetHitRate)
	result.OverfitScore = calculateOverfitScore(result.Folds)
	return result, nil
}

// foldBoundaries returns chunk end indexes into the played fixtures. A boundary
// never splits fixtures sharing a kickoff time.
func foldBoundaries(played []models.Fixture, folds int) []int {
	chunks := folds + 1
	if len(played) < chunks {
		return nil
	}
	bounds := make([]int, 0, chunks)
	prev := 0
	for c := 1; c <= chunks; c++ {
		idx := len(played) * c / chunks
		for idx < len(played) && idx > 0 && played[idx].Kickoff().Equal(played[idx-1].Kickoff()) {
			idx++
		}
		if idx <= prev {
			continue
		}
		bounds = append(bounds, idx)
		prev = idx
	}
	return bounds
}

// CalculateConsistency returns the share of folds with test picks whose test hit
// rate reaches the target. Folds without test picks are left out.
func CalculateConsistency(folds []WalkForwardFold, target float64) float64 {
	graded, hits := 0, 0
	for _, f := range folds {
		if f.Test.PickCount == 0 {
			continue
		}
		graded++
		if f.Test.HitRate >= target {
			hits++
		}
	}
	if graded == 0 {
		return 0
	}
	return float64(hits) / float64(graded)
}

// calculateOverfitScore is the mean gap between train and test hit rate
func calculateOverfitScore(folds []WalkForwardFold) float64 {
	if len(folds) == 0 {
		return 0
	}
	gap := 0.0
	for _, f := range folds {
		gap += f.Train.HitRate - f.Test.HitRate
	}
	return gap / float64(len(folds))
}
