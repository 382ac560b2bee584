// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by method and status",
	}, []string{"method", "status"})
)

// Backtest histogram vectors
var (
	BacktestHitRate = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_hit_rate",
		Help:      "Hit rate of backtest runs by method",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"method"})
)

// RecordBacktestRun records a backtest run event.
// method should be one of: "replay", "bootstrap", "walk_forward"
// status should be one of: "success", "failure"
func RecordBacktestRun(method, status string) {
	BacktestRunsTotal.WithLabelValues(method, status).Inc()
}

// RecordBacktestHitRate records the hit rate of a backtest run.
func RecordBacktestHitRate(method string, hitRate float64) {
	BacktestHitRate.WithLabelValues(method).Observe(hitRate)
}
