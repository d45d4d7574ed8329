package registry

import (
	"sync"
	"sync/atomic"
)

// metric is the concrete Metric implementation handed out by Registry. Its
// value is updated atomically so that concurrent Set/Add calls never race
// with a reader's Value().
type metric struct {
	name   string
	handle NameHandle
	kind   Kind
	value  uint64
}

func (m *metric) Name() string         { return m.name }
func (m *metric) EncodedName() NameHandle { return m.handle }
func (m *metric) Kind() Kind           { return m.kind }
func (m *metric) Value() uint64        { return atomic.LoadUint64(&m.value) }

// Set overwrites the metric's current value.
func (m *metric) Set(v uint64) { atomic.StoreUint64(&m.value, v) }

// Add increments the metric's current value by delta.
func (m *metric) Add(delta uint64) { atomic.AddUint64(&m.value, delta) }

// Sub decrements the metric's current value by delta. The caller is
// responsible for not underflowing a gauge below zero if that matters to it;
// the registry does not enforce it, matching the u64 wraparound semantics
// documented for aggregation in spec.md.
func (m *metric) Sub(delta uint64) { atomic.AddUint64(&m.value, ^(delta - 1)) }

// Registry is a minimal in-memory external metric registry: it owns metric
// storage, interns names into cheap-to-compare handles (the SymbolTable
// contract), and notifies registered listeners on creation and deletion
// before the metric is reclaimed. It stands in for the production
// registry/symbol-table/scope-hierarchy machinery that is out of scope for
// this module.
type Registry struct {
	mu        sync.RWMutex
	byHandle  map[NameHandle]*metric
	byName    map[string]NameHandle
	nextHandle NameHandle
	listeners []Listener
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		byHandle: make(map[NameHandle]*metric),
		byName:   make(map[string]NameHandle),
	}
}

// AddListener registers l to be notified of every future create/delete. It
// does not retroactively notify l about metrics that already exist; callers
// that need that should drive IndexedRegistry's …WithExisting operations,
// which scan the registry themselves.
func (r *Registry) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Decode implements SymbolTable.
func (r *Registry) Decode(h NameHandle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byHandle[h]
	if !ok {
		return "", false
	}
	return m.name, true
}

// Lookup finds a live metric by its exact name, the O(1) sentinel-gauge path
// used by monitor.SentinelOrIndexActivityReader.
func (r *Registry) Lookup(name string) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.byHandle[h], true
}

func (r *Registry) create(name string, kind Kind) *metric {
	r.mu.Lock()
	r.nextHandle++
	m := &metric{name: name, handle: r.nextHandle, kind: kind}
	r.byHandle[m.handle] = m
	r.byName[name] = m.handle
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l.OnMetricCreated(m)
	}
	return m
}

// NewCounter creates and registers a counter metric named name.
func (r *Registry) NewCounter(name string) *metric { return r.create(name, KindCounter) }

// NewGauge creates and registers a gauge metric named name.
func (r *Registry) NewGauge(name string) *metric { return r.create(name, KindGauge) }

// NewHistogram creates and registers a histogram metric named name. Only
// value() is modeled; bucket storage is out of scope.
func (r *Registry) NewHistogram(name string) *metric { return r.create(name, KindHistogram) }

// Delete removes m from the registry and notifies listeners before the
// storage is actually reclaimed, satisfying the notification-precedes-
// reclamation contract every index relies on.
func (r *Registry) Delete(m Metric) {
	r.mu.Lock()
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l.OnMetricDeleted(m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	concrete, ok := m.(*metric)
	if !ok {
		return
	}
	delete(r.byHandle, concrete.handle)
	if r.byName[concrete.name] == concrete.handle {
		delete(r.byName, concrete.name)
	}
}

// ForEachOfKind enumerates all currently live metrics of the given kind,
// calling f for each. It is the "scan" half of registerIndexWithExisting.
func (r *Registry) ForEachOfKind(kind Kind, f func(Metric)) {
	r.mu.RLock()
	snapshot := make([]*metric, 0, len(r.byHandle))
	for _, m := range r.byHandle {
		if m.kind == kind {
			snapshot = append(snapshot, m)
		}
	}
	r.mu.RUnlock()

	for _, m := range snapshot {
		f(m)
	}
}
