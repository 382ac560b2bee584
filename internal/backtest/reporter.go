package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/formcast/internal/models"
)

// Report bundles everything a backtest run produces
type Report struct {
	Settings    models.AlgoSettings     `json:"settings"`
	Summary     Summary                 `json:"summary"`
	Evaluations []models.TeamEvaluation `json:"evaluations"`
	Bootstrap   *BootstrapResult        `json:"bootstrap,omitempty"`
	HitCurve    HitCurve                `json:"hit_curve,omitempty"`
}

// NewReport assembles a report from a replay result
func NewReport(result *Result, settings models.AlgoSettings, bootstrap *BootstrapResult) Report {
	return Report{
		Settings:    models.NormalizeSettings(settings),
		Summary:     Summarize(result, settings),
		Evaluations: SortedEvaluations(result),
		Bootstrap:   bootstrap,
		HitCurve:    BuildHitCurve(traceOf(result)),
	}
}

// GenerateConsoleReport formats a report for terminal output
func GenerateConsoleReport(report Report) string {
	s := report.Summary
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Settings: window=%d bucket=%d threshold=%.2f lines=%s\n",
		report.Settings.WindowSize, report.Settings.BucketSize, report.Settings.ProbabilityThreshold,
		strings.Join(report.Settings.MarketLines, ", ")))
	builder.WriteString(fmt.Sprintf("Fixtures: %d (skipped %d, graded %d)\n", s.Fixtures, s.Skipped, s.Graded))
	builder.WriteString(fmt.Sprintf("Picks: %d\n", s.TotalPicks))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%%\n", s.HitRate*100))
	builder.WriteString(fmt.Sprintf("Coverage: %.2f%%\n", s.Coverage*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", s.BrierScore))
	builder.WriteString(fmt.Sprintf("Longest Miss Streak: %d\n", s.LongestMissStreak))

	if len(s.Markets) > 0 {
		builder.WriteString("\nMarkets\n")
		for _, m := range s.Markets {
			builder.WriteString(fmt.Sprintf("  %-10s picks=%-5d hit=%.2f%% avg_p=%.3f\n", m.Label, m.Picks, m.HitRate*100, m.AverageProbability))
		}
	}

	if b := report.Bootstrap; b != nil && b.Picks > 0 {
		keys := make([]string, 0, len(b.ConfidenceIntervals))
		for k := range b.ConfidenceIntervals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		builder.WriteString("\nBootstrap\n")
		builder.WriteString(fmt.Sprintf("  Mean Hit Rate: %.2f%% (std %.2f%%)\n", b.MeanHitRate*100, b.StdHitRate*100))
		for _, k := range keys {
			ci := b.ConfidenceIntervals[k]
			builder.WriteString(fmt.Sprintf("  %s CI: [%.2f%%, %.2f%%]\n", k, ci[0]*100, ci[1]*100))
		}
		builder.WriteString(fmt.Sprintf("  P(hit rate >= target): %.2f%%\n", b.ProbabilityMeetsTarget*100))
	}

	return builder.String()
}

// ExportToJSON writes the report to outputPath
func ExportToJSON(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// GenerateCSVExport exports per-team evaluations for spreadsheets
func GenerateCSVExport(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("team_id,evaluated,picks,hits,hit_rate,coverage\n")
	for _, e := range report.Evaluations {
		b.WriteString(fmt.Sprintf("%d,%d,%d,%d,%.4f,%.4f\n", e.TeamID, e.EvaluatedCount, e.PickCount, e.HitCount, e.HitRate, e.Coverage))
	}
	return os.WriteFile(outputPath, []byte(b.String()), 0o644)
}

func traceOf(result *Result) []GradedPick {
	if result == nil {
		return nil
	}
	return result.Trace
}
