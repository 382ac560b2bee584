package calibration

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/formcast/internal/models"
)

var (
	goalLineBook     = decimal.NewFromInt(1)
	doubleChanceBook = decimal.NewFromInt(2)
)

// NormalizeLabel maps a bookmaker label onto a market label. Double chance
// spellings become 1X, X2 and 12; goal lines are canonicalized.
func NormalizeLabel(label string) (string, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(label), "")) {
	case "home/draw", "1x", "draw/home", "x1":
		return models.DoubleChanceHomeOrDraw, true
	case "draw/away", "x2", "away/draw", "2x":
		return models.DoubleChanceDrawOrAway, true
	case "home/away", "12", "away/home", "21":
		return models.DoubleChanceHomeOrAway, true
	}
	spec, err := models.ParseMarketLabel(label)
	if err != nil {
		return "", false
	}
	return spec.Label, true
}

// Devig scales the implied probabilities of one bookmaker market group so they
// sum to book, returning the fair probabilities and the overround. Groups with
// an unusable price are rejected.
func Devig(prices map[string]decimal.Decimal, book decimal.Decimal) (map[string]decimal.Decimal, decimal.Decimal, bool) {
	if len(prices) == 0 || !book.IsPositive() {
		return nil, decimal.Zero, false
	}

	implied := make(map[string]decimal.Decimal, len(prices))
	sum := decimal.Zero
	for label, price := range prices {
		snapshot := models.OddsSnapshot{Price: price}
		p := snapshot.GetImpliedProbability()
		if !p.IsPositive() {
			return nil, decimal.Zero, false
		}
		implied[label] = p
		sum = sum.Add(p)
	}

	fair := make(map[string]decimal.Decimal, len(implied))
	for label, p := range implied {
		fair[label] = p.Mul(book).DivRound(sum, 12)
	}
	overround := sum.DivRound(book, 12).Sub(decimal.NewFromInt(1))
	return fair, overround, true
}
