// Package metrics provides the centralized Prometheus registry for the formcast engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "formcast"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replays_total",
		Help:      "Total number of chronological replays executed",
	})
	FixturesReplayedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixtures_replayed_total",
		Help:      "Total number of fixtures walked by replays",
	})
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of market decisions by status",
	}, []string{"status"})
)

// Histogram metrics
var (
	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "replay_duration_seconds",
		Help:      "Duration of a single replay in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	PickProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pick_probability",
		Help:      "Model probability of emitted live picks",
		Buckets:   []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ReplaysTotal)
		registry.MustRegister(FixturesReplayedTotal)
		registry.MustRegister(DecisionsTotal)
		registry.MustRegister(ReplayDuration)
		registry.MustRegister(PickProbability)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestHitRate)

		registry.MustRegister(OptimizerTrialsTotal)
		registry.MustRegister(OptimizationDuration)
		registry.MustRegister(ReplayCacheLookupsTotal)
		registry.MustRegister(TunedSettingsQualified)

		registry.MustRegister(CalibrationSamplesTotal)
		registry.MustRegister(CalibrationMultiplier)
		registry.MustRegister(OddsFetchedTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordReplay records a completed replay.
func RecordReplay(fixtures int, durationSeconds float64) {
	ReplaysTotal.Inc()
	FixturesReplayedTotal.Add(float64(fixtures))
	ReplayDuration.Observe(durationSeconds)
}

// RecordDecision records a market decision by status ("pick", "no-data", "no-bet").
func RecordDecision(status string) {
	DecisionsTotal.WithLabelValues(status).Inc()
}

// RecordPick records the probability of a live pick.
func RecordPick(probability float64) {
	RecordDecision("pick")
	PickProbability.Observe(probability)
}
