package calibration

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/backtest"
	"github.com/yourusername/formcast/internal/config"
	"github.com/yourusername/formcast/internal/logger"
	"github.com/yourusername/formcast/internal/market"
	"github.com/yourusername/formcast/internal/metrics"
	"github.com/yourusername/formcast/internal/models"
	"github.com/yourusername/formcast/internal/prediction"
)

// DefaultMinSamples is the number of observations a line needs before its multiplier departs from 1.0
const DefaultMinSamples = 30

// Config configures a calibration run
type Config struct {
	MinSamples int
}

// FromConfig builds a calibration configuration from app config
func FromConfig(cfg *config.CalibrationConfig) Config {
	if cfg == nil || cfg.MinSamples <= 0 {
		return Config{MinSamples: DefaultMinSamples}
	}
	return Config{MinSamples: cfg.MinSamples}
}

// LineCalibration summarizes market/model ratios for one market line
type LineCalibration struct {
	Label         string  `json:"label"`
	Multiplier    float64 `json:"multiplier"`
	Median        float64 `json:"median"`
	Samples       int     `json:"samples"`
	MeanOverround float64 `json:"mean_overround"`
}

// Table holds calibration multipliers for one league-season
type Table struct {
	CompetitionID int64                      `json:"competition_id"`
	Season        int                        `json:"season"`
	MinSamples    int                        `json:"min_samples"`
	Lines         map[string]LineCalibration `json:"lines"`
	Fixtures      int                        `json:"fixtures"`
	Samples       int                        `json:"samples"`
	MeanOverround float64                    `json:"mean_overround"`
}

// Multiplier returns the calibration multiplier of a market line, 1.0 when unknown
func (t *Table) Multiplier(label string) float64 {
	if t == nil {
		return 1.0
	}
	normalized, ok := NormalizeLabel(label)
	if !ok {
		return 1.0
	}
	line, ok := t.Lines[normalized]
	if !ok || line.Multiplier <= 0 {
		return 1.0
	}
	return line.Multiplier
}

// SortedLabels returns the table's market lines in label order
func (t *Table) SortedLabels() []string {
	labels := make([]string, 0, len(t.Lines))
	for label := range t.Lines {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Calibrator derives multipliers from retrospective model probabilities and de-vigged odds
type Calibrator struct {
	config   Config
	replayer *backtest.Replayer
	logger   *logger.EngineLogger
}

// NewCalibrator creates a calibrator
func NewCalibrator(cfg Config, replayer *backtest.Replayer, log *logrus.Logger) *Calibrator {
	if log == nil {
		log = logrus.New()
	}
	if replayer == nil {
		replayer = backtest.NewReplayer(log)
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = DefaultMinSamples
	}
	return &Calibrator{config: cfg, replayer: replayer, logger: logger.NewEngineLogger(log)}
}

type snapshotKey struct {
	market    string
	label     string
	bookmaker int64
}

type groupKey struct {
	market    string
	bookmaker int64
	line      string
}

// Calibrate replays a league-season and compares each forecast with odds
// snapshotted strictly before kickoff. It reads only the in-memory cache.
func (c *Calibrator) Calibrate(fixtures []models.Fixture, settings models.AlgoSettings, cache *OddsCache) *Table {
	table := &Table{MinSamples: c.config.MinSamples, Lines: make(map[string]LineCalibration)}
	if len(fixtures) > 0 {
		table.CompetitionID = fixtures[0].CompetitionID
		table.Season = fixtures[0].Season
	}

	forecasts := make(map[int64]prediction.Forecast)
	kickoffs := make(map[int64]models.Fixture)
	c.replayer.Replay(fixtures, settings, backtest.Options{
		Observer: func(fixture models.Fixture, forecast prediction.Forecast, _ market.Decision) {
			forecasts[fixture.ID] = forecast
			kickoffs[fixture.ID] = fixture
		},
	})

	ratios := make(map[string][]float64)
	overrounds := make(map[string][]float64)
	var allOverrounds []float64

	ids := make([]int64, 0, len(forecasts))
	for id := range forecasts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if cache == nil {
			break
		}
		fixture := kickoffs[id]
		groups := groupLatest(cache.Snapshots(id), fixture)
		if len(groups) > 0 {
			table.Fixtures++
		}
		for key, prices := range groups {
			book, ok := bookFor(key, prices)
			if !ok {
				continue
			}
			fair, overround, ok := Devig(prices, book)
			if !ok {
				continue
			}
			o := overround.InexactFloat64()
			allOverrounds = append(allOverrounds, o)

			for label, implied := range fair {
				m, err := market.Parse(label)
				if err != nil {
					continue
				}
				model := m.Probability(forecasts[id])
				if model <= 0 {
					continue
				}
				ratios[label] = append(ratios[label], implied.InexactFloat64()/model)
				overrounds[label] = append(overrounds[label], o)
				metrics.RecordCalibrationSample(label)
			}
		}
	}

	competition := strconv.FormatInt(table.CompetitionID, 10)
	for label, values := range ratios {
		line := LineCalibration{
			Label:         label,
			Multiplier:    1.0,
			Median:        Median(values),
			Samples:       len(values),
			MeanOverround: mean(overrounds[label]),
		}
		if line.Samples >= c.config.MinSamples {
			line.Multiplier = line.Median
		}
		table.Lines[label] = line
		table.Samples += line.Samples

		metrics.UpdateCalibrationMultiplier(competition, label, line.Multiplier)
		c.logger.LogCalibration(table.CompetitionID, table.Season, label, line.Multiplier, line.Samples)
	}
	table.MeanOverround = mean(allOverrounds)
	return table
}

// groupLatest keeps the latest pre-kickoff snapshot per (market, label, bookmaker)
// and groups prices per bookmaker market. Goal lines group by line.
func groupLatest(snapshots []models.OddsSnapshot, fixture models.Fixture) map[groupKey]map[string]decimal.Decimal {
	kickoff := fixture.Kickoff()
	latest := make(map[snapshotKey]models.OddsSnapshot)
	for _, s := range snapshots {
		if !s.SnapshotAt.Before(kickoff) {
			continue
		}
		label, ok := NormalizeLabel(s.Label)
		if !ok {
			continue
		}
		key := snapshotKey{market: s.MarketName, label: label, bookmaker: s.BookmakerID}
		if prev, ok := latest[key]; ok && !s.SnapshotAt.After(prev.SnapshotAt) {
			continue
		}
		latest[key] = s
	}

	groups := make(map[groupKey]map[string]decimal.Decimal)
	for key, s := range latest {
		spec, err := models.ParseMarketLabel(key.label)
		if err != nil {
			continue
		}
		g := groupKey{market: key.market, bookmaker: key.bookmaker}
		if spec.Kind != models.MarketKindDoubleChance {
			g.line = strconv.FormatFloat(spec.Line, 'f', -1, 64)
		}
		if groups[g] == nil {
			groups[g] = make(map[string]decimal.Decimal)
		}
		groups[g][key.label] = s.Price
	}
	return groups
}

// bookFor returns the probability mass a complete group should sum to
func bookFor(key groupKey, prices map[string]decimal.Decimal) (decimal.Decimal, bool) {
	if key.line != "" {
		return goalLineBook, len(prices) == 2
	}
	return doubleChanceBook, len(prices) == 3
}

// Median returns the median of the values, zero when empty
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
