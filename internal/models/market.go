package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MarketKind represents the family of a market line
type MarketKind string

const (
	MarketKindOver         MarketKind = "over"
	MarketKindUnder        MarketKind = "under"
	MarketKindDoubleChance MarketKind = "double_chance"
)

// Double chance codes
const (
	DoubleChanceHomeOrDraw = "1X"
	DoubleChanceDrawOrAway = "X2"
	DoubleChanceHomeOrAway = "12"
)

// MarketSpec is a parsed market label such as "Over 2.5" or "1X"
type MarketSpec struct {
	Label string     `json:"label"`
	Kind  MarketKind `json:"kind"`
	Line  float64    `json:"line,omitempty"`
	Code  string     `json:"code,omitempty"`
}

// MaxGoalLine is the largest accepted over/under line
const MaxGoalLine = 20.0

// ParseMarketLabel parses a goal line ("Over 2.5", "Under 3.5") or a double chance code ("1X", "X2", "12").
// The returned label is canonical, so "over 2.50" becomes "Over 2.5".
func ParseMarketLabel(label string) (MarketSpec, error) {
	trimmed := strings.TrimSpace(label)
	switch strings.ToUpper(trimmed) {
	case DoubleChanceHomeOrDraw, DoubleChanceDrawOrAway, DoubleChanceHomeOrAway:
		code := strings.ToUpper(trimmed)
		return MarketSpec{Label: code, Kind: MarketKindDoubleChance, Code: code}, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 2 {
		return MarketSpec{}, fmt.Errorf("%w: %q", ErrUnknownMarket, label)
	}

	var kind MarketKind
	switch strings.ToLower(fields[0]) {
	case "over":
		kind = MarketKindOver
	case "under":
		kind = MarketKindUnder
	default:
		return MarketSpec{}, fmt.Errorf("%w: %q", ErrUnknownMarket, label)
	}

	line, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || line < 0 || line > MaxGoalLine || math.IsNaN(line) {
		return MarketSpec{}, fmt.Errorf("%w: %q", ErrUnknownMarket, label)
	}

	return MarketSpec{Label: goalLineLabel(kind, line), Kind: kind, Line: line}, nil
}

func goalLineLabel(kind MarketKind, line float64) string {
	prefix := "Over"
	if kind == MarketKindUnder {
		prefix = "Under"
	}
	return prefix + " " + strconv.FormatFloat(line, 'f', -1, 64)
}
