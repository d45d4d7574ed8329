// Package metrics holds this module's own self-observability instruments,
// grounded directly on sigs.k8s.io/prometheus-adapter's pkg/metrics/metrics.go:
// a small set of package-level prometheus.Collectors, registered once in
// init, updated by the packages that own the relevant state transitions.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace is the Prometheus namespace every instrument below is registered
// under, mirroring the teacher's MetricsNamespace constant.
const Namespace = "statindex"

// IndicesTotal tracks how many indices are currently registered, by kind.
var IndicesTotal = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: Namespace,
	Name:      "indices_total",
	Help:      "number of indices currently registered, by metric kind",
}, []string{"kind"})

// IndexMembers tracks the live member count of each named index.
var IndexMembers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: Namespace,
	Name:      "index_members",
	Help:      "number of metrics currently held by an index",
}, []string{"kind", "index"})

// MatcherEvaluationsTotal counts matcher evaluations performed on the
// mutation path (tryInsert / tryInsertEncoded), by kind.
var MatcherEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: Namespace,
	Name:      "matcher_evaluations_total",
	Help:      "number of matcher evaluations performed while offering metrics to indices",
}, []string{"kind"})

// ConfigEntriesParsed tracks how many index entries the most recently loaded
// configuration contained, mirroring the teacher's metrics.Rules gauge in
// pkg/config/loader.go.
var ConfigEntriesParsed = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: Namespace,
	Name:      "config_entries_parsed",
	Help:      "number of index entries found in the most recently loaded configuration",
})

// IdleMonitorPressure reports the most recent pressure value produced by an
// IdleActivityMonitor tick.
var IdleMonitorPressure = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: Namespace,
	Name:      "idle_monitor_pressure",
	Help:      "most recent pressure value reported by the idle activity monitor (1 = take idle action)",
})

func init() {
	prometheus.MustRegister(
		IndicesTotal,
		IndexMembers,
		MatcherEvaluationsTotal,
		ConfigEntriesParsed,
		IdleMonitorPressure,
	)
}
