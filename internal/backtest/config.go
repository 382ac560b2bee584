package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/formcast/internal/config"
)

// BacktestConfig carries the replay and resampling options of a backtest run
type BacktestConfig struct {
	GradeFrom           time.Time
	Seed                int64
	BootstrapIterations int
	TargetHitRate       float64
	OutputPath          string
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.BacktestConfig) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("backtest config is required")
	}

	bt := BacktestConfig{
		Seed:                cfg.Seed,
		BootstrapIterations: cfg.BootstrapIterations,
		TargetHitRate:       cfg.TargetHitRate,
		OutputPath:          cfg.OutputPath,
	}
	if cfg.GradeFrom != "" {
		gradeFrom, err := time.Parse("2006-01-02", cfg.GradeFrom)
		if err != nil {
			return BacktestConfig{}, fmt.Errorf("invalid grade_from date: %w", err)
		}
		bt.GradeFrom = gradeFrom
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if b.BootstrapIterations <= 0 {
		return fmt.Errorf("bootstrap iterations must be positive")
	}
	if b.TargetHitRate <= 0 || b.TargetHitRate > 1 {
		return fmt.Errorf("target hit rate must be in (0, 1]")
	}
	return nil
}

// Bootstrap returns the resampling configuration
func (b BacktestConfig) Bootstrap() BootstrapConfig {
	return BootstrapConfig{
		Iterations:    b.BootstrapIterations,
		Seed:          b.Seed,
		TargetHitRate: b.TargetHitRate,
	}
}
