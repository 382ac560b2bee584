// Package metrics defines settings optimizer metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Optimizer counter vectors
var (
	OptimizerTrialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "optimizer_trials_total",
		Help:      "Total number of settings trials by search scope and qualification",
	}, []string{"scope", "qualified"})

	ReplayCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replay_cache_lookups_total",
		Help:      "Replay cache lookups by result",
	}, []string{"result"})
)

// Optimizer histogram vectors
var (
	OptimizationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "optimization_duration_seconds",
		Help:      "Duration of settings searches in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"scope"})
)

// Optimizer gauge vectors
var (
	TunedSettingsQualified = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tuned_settings_qualified",
		Help:      "Whether the latest tuned settings of a scope met the qualification criteria",
	}, []string{"scope"})
)

// RecordTrial records one evaluated candidate.
// scope should be one of: "team", "league"
func RecordTrial(scope string, qualified bool) {
	label := "false"
	if qualified {
		label = "true"
	}
	OptimizerTrialsTotal.WithLabelValues(scope, label).Inc()
}

// RecordOptimization records the duration of a settings search.
func RecordOptimization(scope string, durationSeconds float64) {
	OptimizationDuration.WithLabelValues(scope).Observe(durationSeconds)
}

// RecordReplayCacheLookup records a replay cache hit or miss.
func RecordReplayCacheLookup(hit bool) {
	if hit {
		ReplayCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	ReplayCacheLookupsTotal.WithLabelValues("miss").Inc()
}

// UpdateTunedSettings records whether a scope's tuned settings qualified.
func UpdateTunedSettings(scope string, qualified bool) {
	value := 0.0
	if qualified {
		value = 1
	}
	TunedSettingsQualified.WithLabelValues(scope).Set(value)
}
