package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/service"
)

var (
	tuneCompetitions []int64
	tuneSeason       int
	tuneDryRun       bool
)

func init() {
	tuneCmd.Flags().Int64SliceVar(&tuneCompetitions, "competition", nil, "Competitions to tune; every loaded competition when running from files")
	tuneCmd.Flags().IntVar(&tuneSeason, "season", 0, "Season to tune on, 0 for every season")
	tuneCmd.Flags().BoolVar(&tuneDryRun, "dry-run", false, "Search and print without storing settings")
}

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search settings per league and team and store the winners",
	RunE: func(cmd *cobra.Command, args []string) error {
		competitions := tuneCompetitions
		if len(competitions) == 0 && store != nil {
			competitions = store.Competitions()
		}
		if len(competitions) == 0 {
			return fmt.Errorf("no competitions to tune: pass --competition")
		}
		if tuneDryRun {
			return runDryTune(cmd.Context(), competitions)
		}
		return runTune(cmd.Context(), competitions)
	},
}

func runTune(ctx context.Context, competitions []int64) error {
	svc := service.NewTuningService(repos.Fixtures, repos.Settings, resolver, newOptimizer(), cfg.Optimizer.Workers, logger)

	reports, err := svc.TuneLeagues(ctx, competitions, tuneSeason)
	if err != nil {
		return err
	}
	printTuneReports(reports)
	return persistFileSettings()
}

func printTuneReports(reports map[int64]*service.TuneReport) {
	ids := make([]int64, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		report := reports[id]
		fmt.Printf("competition %d run %s: %d/%d scopes qualified (truncated=%t, %s)\n",
			id, report.RunID, report.Qualified, len(report.Stored), report.Truncated, report.Duration.Round(time.Millisecond))
		for _, stored := range report.Stored {
			fmt.Printf("  %-16s meets=%-5t %s\n", stored.Scope, stored.MeetsCriteria, formatEvaluation(stored.Evaluation))
		}
	}
}

func runDryTune(ctx context.Context, competitions []int64) error {
	leagues := make(map[int64][]models.Fixture, len(competitions))
	for _, id := range competitions {
		fixtures, err := repos.Fixtures.GetByCompetition(ctx, id, tuneSeason)
		if err != nil {
			return fmt.Errorf("failed to load fixtures for competition %d: %w", id, err)
		}
		if len(fixtures) > 0 {
			leagues[id] = fixtures
		}
	}

	results, err := newOptimizer().OptimizeLeagues(ctx, leagues, resolver.Defaults())
	if err != nil {
		return err
	}
	return printJSON(results)
}
