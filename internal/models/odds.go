package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bookmaker market names
const (
	MarketNameGoals        = "Goals Over/Under"
	MarketNameDoubleChance = "Double Chance"
)

// OddsSnapshot is a historical bookmaker price for one market label
type OddsSnapshot struct {
	FixtureID   int64           `db:"fixture_id" json:"fixture_id"`
	MarketName  string          `db:"market_name" json:"market_name"`
	Label       string          `db:"label" json:"label"`
	BookmakerID int64           `db:"bookmaker_id" json:"bookmaker_id"`
	Price       decimal.Decimal `db:"price" json:"price"`
	SnapshotAt  time.Time       `db:"snapshot_at" json:"snapshot_at"`
}

// GetImpliedProbability returns the raw (vigged) probability implied by the decimal price
func (o *OddsSnapshot) GetImpliedProbability() decimal.Decimal {
	if o.Price.LessThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).DivRound(o.Price, 12)
}
