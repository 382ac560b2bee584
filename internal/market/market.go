package market

import (
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

// Market is a parsed, gradable market line
type Market struct {
	models.MarketSpec
}

// Parse parses a market label such as "Over 2.5", "Under 3.5" or "X2"
func Parse(label string) (Market, error) {
	spec, err := models.ParseMarketLabel(label)
	if err != nil {
		return Market{}, err
	}
	return Market{MarketSpec: spec}, nil
}

// ParseAll parses a list of labels, skipping unknown ones and keeping order
func ParseAll(labels []string) []Market {
	out := make([]Market, 0, len(labels))
	for _, label := range labels {
		m, err := Parse(label)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Probability returns the model probability of the market from a forecast
func (m Market) Probability(f prediction.Forecast) float64 {
	switch m.Kind {
	case models.MarketKindOver:
		return f.Over(m.Line)
	case models.MarketKindUnder:
		return f.Under(m.Line)
	case models.MarketKindDoubleChance:
		return f.DoubleChance(m.Code)
	default:
		return 0
	}
}

// IsHit grades the market against a full-time score
func (m Market) IsHit(goalsHome, goalsAway int) bool {
	total := float64(goalsHome + goalsAway)
	switch m.Kind {
	case models.MarketKindOver:
		return total > m.Line
	case models.MarketKindUnder:
		return total <= m.Line
	case models.MarketKindDoubleChance:
		return models.OutcomeFromScore(goalsHome, goalsAway) != excluded(m.Code)
	default:
		return false
	}
}

// excluded returns the one outcome a double chance code does not cover
func excluded(code string) models.Outcome {
	switch code {
	case models.DoubleChanceHomeOrDraw:
		return models.OutcomeAwayWin
	case models.DoubleChanceDrawOrAway:
		return models.OutcomeHomeWin
	case models.DoubleChanceHomeOrAway:
		return models.OutcomeDraw
	default:
		return ""
	}
}
