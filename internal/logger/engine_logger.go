// Package logger provides engine-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for prediction, replay and tuning operations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogPick logs an emitted pick.
func (el *EngineLogger) LogPick(fixtureID, teamID int64, marketLabel string, probability float64) {
	el.WithFields(logrus.Fields{
		"fixture_id":   fixtureID,
		"team_id":      teamID,
		"market_label": marketLabel,
		"probability":  probability,
	}).Info("Pick selected")
}

// LogNoPick logs a fixture where no market was selected.
func (el *EngineLogger) LogNoPick(fixtureID, teamID int64, status string, bestLabel string, bestProbability float64) {
	el.WithFields(logrus.Fields{
		"fixture_id":       fixtureID,
		"team_id":          teamID,
		"status":           status,
		"best_label":       bestLabel,
		"best_probability": bestProbability,
	}).Info("No pick for fixture")
}

// LogReplayCompleted logs the summary of a replay.
func (el *EngineLogger) LogReplayCompleted(fixtures, skipped, picks int, hitRate, coverage, durationMs float64) {
	el.WithFields(logrus.Fields{
		"fixtures":    fixtures,
		"skipped":     skipped,
		"picks":       picks,
		"hit_rate":    hitRate,
		"coverage":    coverage,
		"duration_ms": durationMs,
	}).Info("Replay completed")
}

// LogTrial logs one evaluated settings candidate.
func (el *EngineLogger) LogTrial(runID, scope string, index, picks int, hitRate, coverage float64, qualified bool) {
	el.WithFields(logrus.Fields{
		"run_id":    runID,
		"scope":     scope,
		"trial":     index,
		"picks":     picks,
		"hit_rate":  hitRate,
		"coverage":  coverage,
		"qualified": qualified,
	}).Debug("Settings trial evaluated")
}

// LogOptimization logs the outcome of a settings search.
func (el *EngineLogger) LogOptimization(runID, scope string, trials, qualifying int, meetsCriteria, truncated bool, durationMs float64) {
	entry := el.WithFields(logrus.Fields{
		"run_id":         runID,
		"scope":          scope,
		"trials":         trials,
		"qualifying":     qualifying,
		"meets_criteria": meetsCriteria,
		"truncated":      truncated,
		"duration_ms":    durationMs,
	})
	if meetsCriteria {
		entry.Info("Settings search completed")
		return
	}
	entry.Warn("Settings search found no qualifying candidate")
}

// LogFoldsMerged logs a walk-forward run that produced fewer folds than requested.
func (el *EngineLogger) LogFoldsMerged(runID string, teamID int64, requested, actual int) {
	el.WithFields(logrus.Fields{
		"run_id":    runID,
		"team_id":   teamID,
		"requested": requested,
		"folds":     actual,
	}).Warn("Walk-forward folds merged on shared kickoffs")
}

// LogCalibration logs a calibration multiplier for a market line.
func (el *EngineLogger) LogCalibration(competitionID int64, season int, marketLine string, multiplier float64, samples int) {
	el.WithFields(logrus.Fields{
		"competition_id": competitionID,
		"season":         season,
		"market_line":    marketLine,
		"multiplier":     multiplier,
		"samples":        samples,
	}).Info("Calibration multiplier computed")
}
