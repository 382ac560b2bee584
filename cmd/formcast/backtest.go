package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/optimizer"
)

var (
	backtestCompetition int64
	backtestSeason      int
	backtestTeams       []int64
	backtestGradeFrom   string
	backtestOutput      string
	backtestWalkForward bool
)

func init() {
	backtestCmd.Flags().Int64Var(&backtestCompetition, "competition", 0, "Competition id to replay")
	backtestCmd.Flags().IntVar(&backtestSeason, "season", 0, "Season to replay, 0 for every season")
	backtestCmd.Flags().Int64SliceVar(&backtestTeams, "team", nil, "Grade only these teams")
	backtestCmd.Flags().StringVar(&backtestGradeFrom, "grade-from", "", "Override the first graded date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVarP(&backtestOutput, "output", "o", "", "Override the JSON report path")
	backtestCmd.Flags().BoolVar(&backtestWalkForward, "walk-forward", false, "Run walk-forward validation for a single --team")
	_ = backtestCmd.MarkFlagRequired("competition")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay history and grade picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backtestWalkForward {
			return runWalkForward(cmd.Context())
		}
		return runBacktest(cmd.Context())
	},
}

func buildBacktestConfig() (backtest.BacktestConfig, error) {
	btConfig, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return backtest.BacktestConfig{}, fmt.Errorf("invalid backtest config: %w", err)
	}
	if backtestOutput != "" {
		btConfig.OutputPath = backtestOutput
	}
	if backtestGradeFrom != "" {
		parsed, err := time.Parse("2006-01-02", backtestGradeFrom)
		if err != nil {
			return backtest.BacktestConfig{}, fmt.Errorf("invalid grade-from date: %w", err)
		}
		btConfig.GradeFrom = parsed
	}
	return btConfig, nil
}

func runBacktest(ctx context.Context) error {
	btConfig, err := buildBacktestConfig()
	if err != nil {
		return err
	}

	fixtures, err := repos.Fixtures.GetByCompetition(ctx, backtestCompetition, backtestSeason)
	if err != nil {
		metrics.RecordBacktestRun("historical", "error")
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	var teamID int64
	if len(backtestTeams) == 1 {
		teamID = backtestTeams[0]
	}
	settings, source, err := resolver.Resolve(ctx, backtestCompetition, teamID)
	if err != nil {
		return err
	}

	logger.WithField("fixtures", len(fixtures)).WithField("settings_source", source).Info("Starting backtest")

	start := time.Now()
	result := backtest.NewReplayer(logger).Replay(fixtures, settings, backtest.Options{
		Teams:     backtestTeams,
		GradeFrom: btConfig.GradeFrom,
	})
	metrics.RecordReplay(result.Fixtures, time.Since(start).Seconds())

	bootstrap, err := backtest.Bootstrap(ctx, result.Trace, btConfig.Bootstrap())
	if err != nil {
		metrics.RecordBacktestRun("bootstrap", "error")
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	metrics.RecordBacktestRun("bootstrap", "success")

	report := backtest.NewReport(result, settings, &bootstrap)
	metrics.RecordBacktestRun("historical", "success")
	metrics.RecordBacktestHitRate("historical", report.Summary.HitRate)

	applogEngine().LogReplayCompleted(report.Summary.Fixtures, report.Summary.Skipped, report.Summary.TotalPicks,
		report.Summary.HitRate, report.Summary.Coverage, float64(time.Since(start).Milliseconds()))

	fmt.Println(backtest.GenerateConsoleReport(report))

	if btConfig.OutputPath != "" {
		if err := backtest.ExportToJSON(report, btConfig.OutputPath); err != nil {
			return err
		}
		logger.WithField("path", btConfig.OutputPath).Info("Backtest report written")
	}
	return nil
}

func runWalkForward(ctx context.Context) error {
	if len(backtestTeams) != 1 {
		return fmt.Errorf("walk-forward needs exactly one --team")
	}
	btConfig, err := buildBacktestConfig()
	if err != nil {
		return err
	}

	fixtures, err := repos.Fixtures.GetByCompetition(ctx, backtestCompetition, backtestSeason)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	base, _, err := resolver.Resolve(ctx, backtestCompetition, backtestTeams[0])
	if err != nil {
		return err
	}

	folds := cfg.Optimizer.WalkForwardFolds
	if folds <= 0 {
		folds = 4
	}
	result, err := newOptimizer().RunWalkForward(ctx, fixtures, backtestTeams[0], base, optimizer.WalkForwardConfig{
		Folds:            folds,
		MinTrainFixtures: cfg.Engine.MinLeagueMatches,
		TargetHitRate:    btConfig.TargetHitRate,
	})
	if err != nil {
		metrics.RecordBacktestRun("walk_forward", "error")
		return err
	}
	metrics.RecordBacktestRun("walk_forward", "success")
	metrics.RecordBacktestHitRate("walk_forward", result.AggregateTest.HitRate)

	for _, fold := range result.Folds {
		fmt.Printf("fold %d %s..%s train %s test %s\n",
			fold.Fold, fold.TestStart.Format("2006-01-02"), fold.TestEnd.Format("2006-01-02"),
			formatEvaluation(fold.Train), formatEvaluation(fold.Test))
	}
	fmt.Printf("aggregate test %s consistency %.2f overfit %.3f\n",
		formatEvaluation(result.AggregateTest), result.ConsistencyScore, result.OverfitScore)

	if btConfig.OutputPath != "" {
		return writeJSON(btConfig.OutputPath, result)
	}
	return nil
}

func formatEvaluation(e models.TeamEvaluation) string {
	return fmt.Sprintf("%d/%d hit=%.1f%% cov=%.1f%%", e.HitCount, e.PickCount, e.HitRate*100, e.Coverage*100)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
