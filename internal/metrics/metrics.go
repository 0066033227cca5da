// Package metrics holds the prometheus collectors for connectivity checks
// and settings writes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the custom Prometheus registry served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsync",
			Name:      "check_total",
			Help:      "Connectivity checks by outcome (succeeded, failed, configuration, network, response_parse).",
		},
		[]string{"outcome"},
	)

	CheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docsync",
			Name:      "check_duration_seconds",
			Help:      "Round trip time of connectivity checks that reached the network.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	SettingsWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsync",
			Name:      "settings_writes_total",
			Help:      "Persisted settings changes by field.",
		},
		[]string{"field"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ChecksTotal,
		CheckDuration,
		SettingsWritesTotal,
	)
}

// ObserveCheck records one check. outcome is "succeeded", "failed" or an
// error kind; latencyMS is ignored when the check never hit the network.
func ObserveCheck(outcome string, latencyMS float64) {
	ChecksTotal.WithLabelValues(outcome).Inc()
	if latencyMS > 0 {
		CheckDuration.Observe(latencyMS / 1000)
	}
}
