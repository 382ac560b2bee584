package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick is the single market chosen for a fixture
type Pick struct {
	MarketLabel string  `json:"market_label"`
	Probability float64 `json:"probability"`
}

// MarketTally counts picks and hits for one market label
type MarketTally struct {
	Picks int `json:"picks"`
	Hits  int `json:"hits"`
}

// TeamEvaluation aggregates one backtest run for one (team, settings) pair
type TeamEvaluation struct {
	TeamID         int64                  `json:"team_id"`
	PickCount      int                    `json:"pick_count"`
	HitCount       int                    `json:"hit_count"`
	HitRate        float64                `json:"hit_rate"`
	Coverage       float64                `json:"coverage"`
	EvaluatedCount int                    `json:"evaluated_count"`
	ByMarket       map[string]MarketTally `json:"by_market,omitempty"`
}

// Finalize recomputes the derived hit rate and coverage from the counters
func (e *TeamEvaluation) Finalize() {
	e.HitRate = 0
	e.Coverage = 0
	if e.PickCount > 0 {
		e.HitRate = float64(e.HitCount) / float64(e.PickCount)
	}
	if e.EvaluatedCount > 0 {
		e.Coverage = float64(e.PickCount) / float64(e.EvaluatedCount)
	}
}

// StoredSettings is what callers persist after a tuning run
type StoredSettings struct {
	Scope         SettingsScope  `json:"scope"`
	Settings      AlgoSettings   `json:"settings"`
	Evaluation    TeamEvaluation `json:"evaluation"`
	MeetsCriteria bool           `json:"meets_criteria"`
	RunID         uuid.UUID      `json:"run_id"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
