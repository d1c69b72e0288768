// Package metrics exports the system's Prometheus surface: scan duration and
// throughput, provider fallback/cooldown behavior, and bot-enabled counts,
// grounded in poorman-SynapseStrike's metrics package (a custom registry of
// promauto vecs plus plain update functions, rather than a global default
// registry with method-heavy collector structs).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is this service's Prometheus registry, kept separate from the
// global default registry so an embedding binary can expose it on its own
// handler without picking up unrelated collectors.
var Registry = prometheus.NewRegistry()

var (
	// ScanDuration tracks wall-clock duration of a completed scan run.
	ScanDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signalengine",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan run duration in seconds",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 900, 1200, 1800},
		},
		[]string{"scan_type", "status"},
	)

	// ScanCoinsProcessed tracks how many coins a completed scan run walked.
	ScanCoinsProcessed = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "signalengine",
			Subsystem: "scan",
			Name:      "coins_processed",
			Help:      "Coins processed in the most recent scan run",
		},
		[]string{"scan_type"},
	)

	// ScanSignalsFound tracks how many coins cleared the confidence
	// threshold and produced a persisted recommendation.
	ScanSignalsFound = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "signalengine",
			Subsystem: "scan",
			Name:      "signals_found",
			Help:      "Recommendations persisted in the most recent scan run",
		},
		[]string{"scan_type"},
	)

	// ScanRunsTotal counts completed scan runs by terminal status.
	ScanRunsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalengine",
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total scan runs by terminal status",
		},
		[]string{"scan_type", "status"},
	)

	// ProviderOutcomesTotal counts every C2 client call by how it resolved.
	ProviderOutcomesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalengine",
			Subsystem: "provider",
			Name:      "outcomes_total",
			Help:      "Provider client call outcomes",
		},
		[]string{"kind", "client_id", "outcome"},
	)

	// ProviderFallbacksTotal counts fallthrough to the next client in the
	// ordered list, for any reason short of success.
	ProviderFallbacksTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalengine",
			Subsystem: "provider",
			Name:      "fallbacks_total",
			Help:      "Fallbacks to the next client in the ordered list",
		},
		[]string{"kind", "client_id"},
	)

	// ProviderCooldownSkipsTotal counts a client being skipped outright
	// because its breaker was open (cooling down) or its rate budget was
	// exhausted.
	ProviderCooldownSkipsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalengine",
			Subsystem: "provider",
			Name:      "cooldown_skips_total",
			Help:      "Client skipped because it was cooling down or rate-budget exhausted",
		},
		[]string{"kind", "client_id"},
	)

	// ProviderExhaustedTotal counts a fetch that ran out of clients to try.
	ProviderExhaustedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalengine",
			Subsystem: "provider",
			Name:      "exhausted_total",
			Help:      "Fetches that exhausted every client in the fallback order",
		},
		[]string{"kind"},
	)

	// BotsEnabled tracks how many bots in the registry are currently
	// eligible to vote, refreshed at the start of every scan run.
	BotsEnabled = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: "signalengine",
			Subsystem: "bots",
			Name:      "enabled",
			Help:      "Bots currently enabled across all regimes",
		},
	)

	// BotsTotal tracks the full registry size, enabled or not.
	BotsTotal = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: "signalengine",
			Subsystem: "bots",
			Name:      "total",
			Help:      "Total bots in the registry",
		},
	)
)

// Init registers the standard Go runtime/process collectors alongside the
// application's own metrics.
func Init() {
	Registry.MustRegister(prometheus.NewGoCollector())
	Registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}

// RecordScanCompletion records a finished scan run's duration, coin/signal
// counts, and terminal status.
func RecordScanCompletion(scanType, status string, durationSeconds float64, coinsProcessed, signalsFound int) {
	ScanDuration.WithLabelValues(scanType, status).Observe(durationSeconds)
	ScanCoinsProcessed.WithLabelValues(scanType).Set(float64(coinsProcessed))
	ScanSignalsFound.WithLabelValues(scanType).Set(float64(signalsFound))
	ScanRunsTotal.WithLabelValues(scanType, status).Inc()
}

// RecordProviderOutcome tallies one client call's resolution.
func RecordProviderOutcome(kind, clientID, outcome string) {
	ProviderOutcomesTotal.WithLabelValues(kind, clientID, outcome).Inc()
}

// RecordProviderFallback tallies a move to the next client in the order.
func RecordProviderFallback(kind, clientID string) {
	ProviderFallbacksTotal.WithLabelValues(kind, clientID).Inc()
}

// RecordProviderCooldownSkip tallies a client skipped without being called.
func RecordProviderCooldownSkip(kind, clientID string) {
	ProviderCooldownSkipsTotal.WithLabelValues(kind, clientID).Inc()
}

// RecordProviderExhausted tallies a fetch that fell off the end of the
// fallback order with no client able to serve it.
func RecordProviderExhausted(kind string) {
	ProviderExhaustedTotal.WithLabelValues(kind).Inc()
}

// SetBotCounts refreshes the bot-registry gauges.
func SetBotCounts(enabled, total int) {
	BotsEnabled.Set(float64(enabled))
	BotsTotal.Set(float64(total))
}
