// Package metrics defines odds calibration metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CalibrationSamplesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calibration_samples_total",
		Help:      "Market/model probability pairs collected by market line",
	}, []string{"market_line"})

	OddsFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_fetched_total",
		Help:      "Total number of odds snapshots prefetched",
	})

	CalibrationMultiplier = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_multiplier",
		Help:      "Latest median market/model ratio by competition and market line",
	}, []string{"competition", "market_line"})
)

// RecordCalibrationSample records one collected ratio for a market line.
func RecordCalibrationSample(marketLine string) {
	CalibrationSamplesTotal.WithLabelValues(marketLine).Inc()
}

// RecordOddsFetched records prefetched odds snapshots.
func RecordOddsFetched(count int) {
	OddsFetchedTotal.Add(float64(count))
}

// UpdateCalibrationMultiplier sets the latest multiplier of a market line.
func UpdateCalibrationMultiplier(competition, marketLine string, multiplier float64) {
	CalibrationMultiplier.WithLabelValues(competition, marketLine).Set(multiplier)
}
