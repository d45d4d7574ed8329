// Package indexedregistry implements IndexedRegistry: it owns every named
// index keyed by metric kind, dispatches create/delete notifications from
// the external registry to each owned index, and supports both
// register-before-metrics-exist and register-after-metrics-exist lifecycles.
//
// Grounded on sigs.k8s.io/prometheus-adapter's
// pkg/custom-provider/series_registry.go (basicSeriesRegistry): an
// RWMutex/mutex-guarded name→info map with Set/List/Query accessors,
// generalized here to own one map per metric kind and to dispatch rather
// than just store.
package indexedregistry

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/cloudnative-stats/statindex/index"
	"github.com/cloudnative-stats/statindex/matcher"
	"github.com/cloudnative-stats/statindex/metrics"
	"github.com/cloudnative-stats/statindex/registry"
)

// Index is the type every index registered with an IndexedRegistry has: an
// AggregatedStatsIndex over the shared registry.Metric interface. Aggregation
// is always available since it costs nothing when unused (every reduction is
// a separate ForEach pass, never precomputed).
type Index = index.AggregatedStatsIndex[registry.Metric]

// IndexedRegistry owns named indices keyed by metric kind and dispatches
// metric lifecycle events from an external registry.Registry to every
// relevant index.
//
// Lock ordering: IndexedRegistry's own mutex is always acquired before any
// per-index mutex, never the reverse, matching spec.md §5's required
// ordering.
type IndexedRegistry struct {
	reg *registry.Registry

	mu     sync.Mutex
	byKind map[registry.Kind]map[string]*Index
}

// New creates an IndexedRegistry wrapping reg and subscribes to its
// create/delete notifications.
func New(reg *registry.Registry) *IndexedRegistry {
	ir := &IndexedRegistry{
		reg: reg,
		byKind: map[registry.Kind]map[string]*Index{
			registry.KindCounter:   make(map[string]*Index),
			registry.KindGauge:     make(map[string]*Index),
			registry.KindHistogram: make(map[string]*Index),
		},
	}
	reg.AddListener(ir)
	return ir
}

// OnMetricCreated implements registry.Listener: it offers m to every owned
// index of its kind. Each index that accepts m holds it as soon as that
// index's TryInsert returns, so a concurrent ForEach on one index can observe
// m before this call has offered it to the remaining indices and returned.
func (ir *IndexedRegistry) OnMetricCreated(m registry.Metric) {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	for _, idx := range ir.byKind[m.Kind()] {
		idx.TryInsert(m)
	}
}

// OnMetricDeleted implements registry.Listener: it removes m from every
// owned index of its kind. Safe to call even if no index contains it.
func (ir *IndexedRegistry) OnMetricDeleted(m registry.Metric) {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	for _, idx := range ir.byKind[m.Kind()] {
		idx.Remove(m)
	}
}

// NotifyCounterCreated, NotifyGaugeCreated, NotifyCounterDeleted, and
// NotifyGaugeDeleted are the explicit, per-kind equivalents of
// OnMetricCreated/OnMetricDeleted, for callers that manage metric storage
// themselves rather than through this module's registry.Registry.
func (ir *IndexedRegistry) NotifyCounterCreated(m registry.Metric) { ir.OnMetricCreated(m) }
func (ir *IndexedRegistry) NotifyGaugeCreated(m registry.Metric)   { ir.OnMetricCreated(m) }
func (ir *IndexedRegistry) NotifyCounterDeleted(m registry.Metric) { ir.OnMetricDeleted(m) }
func (ir *IndexedRegistry) NotifyGaugeDeleted(m registry.Metric)   { ir.OnMetricDeleted(m) }

func (ir *IndexedRegistry) registerIndex(kind registry.Kind, name string, m matcher.Matcher) (*Index, error) {
	ir.mu.Lock()
	defer ir.mu.Unlock()

	if _, exists := ir.byKind[kind][name]; exists {
		return nil, &DuplicateIndexName{Name: name, Kind: kind.String()}
	}

	idx := index.NewAggregated[registry.Metric](name, kind, m, ir.reg)
	ir.byKind[kind][name] = idx
	metrics.IndicesTotal.WithLabelValues(kind.String()).Inc()
	klog.V(6).Infof("registered %s index %q matching %s", kind, name, m.Describe())
	return idx, nil
}

// registerIndexWithExisting registers a new index, then scans the external
// registry's current metrics of kind and offers each to it. Because the
// index is already present in byKind before the scan begins, any concurrent
// OnMetricCreated for this kind will also offer its metric to the new index;
// TryInsert's idempotency means the scan and a racing notification can never
// double-count.
func (ir *IndexedRegistry) registerIndexWithExisting(kind registry.Kind, name string, m matcher.Matcher) (*Index, error) {
	idx, err := ir.registerIndex(kind, name, m)
	if err != nil {
		return nil, err
	}
	ir.reg.ForEachOfKind(kind, func(metric registry.Metric) {
		idx.TryInsert(metric)
	})
	return idx, nil
}

// RegisterCounterIndex creates and owns a new counter index. It does not
// scan existing metrics; callers that register after counters already exist
// should use RegisterCounterIndexWithExisting instead.
func (ir *IndexedRegistry) RegisterCounterIndex(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndex(registry.KindCounter, name, m)
}

// RegisterGaugeIndex is RegisterCounterIndex's gauge counterpart.
func (ir *IndexedRegistry) RegisterGaugeIndex(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndex(registry.KindGauge, name, m)
}

// RegisterCounterIndexWithExisting is RegisterCounterIndex, followed by a
// scan of the registry's existing counters.
func (ir *IndexedRegistry) RegisterCounterIndexWithExisting(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndexWithExisting(registry.KindCounter, name, m)
}

// RegisterGaugeIndexWithExisting is RegisterGaugeIndex, followed by a scan of
// the registry's existing gauges.
func (ir *IndexedRegistry) RegisterGaugeIndexWithExisting(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndexWithExisting(registry.KindGauge, name, m)
}

// RegisterHistogramIndex and RegisterHistogramIndexWithExisting exist
// because StatsIndex is generic over any registry.Kind (spec.md §4.2); the
// v1 declarative config in package config only wires counter and gauge
// entries, but programmatic callers are not restricted to those two kinds.
func (ir *IndexedRegistry) RegisterHistogramIndex(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndex(registry.KindHistogram, name, m)
}

func (ir *IndexedRegistry) RegisterHistogramIndexWithExisting(name string, m matcher.Matcher) (*Index, error) {
	return ir.registerIndexWithExisting(registry.KindHistogram, name, m)
}

func (ir *IndexedRegistry) getIndex(kind registry.Kind, name string) *Index {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	return ir.byKind[kind][name]
}

// GetCounterIndex looks up a previously registered counter index by name,
// returning nil if none exists.
func (ir *IndexedRegistry) GetCounterIndex(name string) *Index { return ir.getIndex(registry.KindCounter, name) }

// GetGaugeIndex is GetCounterIndex's gauge counterpart.
func (ir *IndexedRegistry) GetGaugeIndex(name string) *Index { return ir.getIndex(registry.KindGauge, name) }

func (ir *IndexedRegistry) removeIndex(kind registry.Kind, name string) bool {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	if _, ok := ir.byKind[kind][name]; !ok {
		return false
	}
	delete(ir.byKind[kind], name)
	metrics.IndicesTotal.WithLabelValues(kind.String()).Dec()
	metrics.IndexMembers.DeleteLabelValues(kind.String(), name)
	return true
}

// RemoveCounterIndex destroys the named counter index, returning whether it
// was present.
func (ir *IndexedRegistry) RemoveCounterIndex(name string) bool {
	return ir.removeIndex(registry.KindCounter, name)
}

// RemoveGaugeIndex is RemoveCounterIndex's gauge counterpart.
func (ir *IndexedRegistry) RemoveGaugeIndex(name string) bool {
	return ir.removeIndex(registry.KindGauge, name)
}

// CountByKind returns how many indices are currently registered for kind.
func (ir *IndexedRegistry) CountByKind(kind registry.Kind) int {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	return len(ir.byKind[kind])
}

// ForEachIndexOfKind calls f for every index currently registered for kind.
// It takes a snapshot of the name→index map before calling f, so f may
// safely register or remove indices of its own.
func (ir *IndexedRegistry) ForEachIndexOfKind(kind registry.Kind, f func(name string, idx *Index)) {
	ir.mu.Lock()
	snapshot := make(map[string]*Index, len(ir.byKind[kind]))
	for name, idx := range ir.byKind[kind] {
		snapshot[name] = idx
	}
	ir.mu.Unlock()

	for name, idx := range snapshot {
		f(name, idx)
	}
}
