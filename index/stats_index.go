// Package index implements StatsIndex, the generic typed container that
// maintains the live membership of metrics matching a Matcher, and
// AggregatedStatsIndex, which layers O(k) reductions over it. Both are
// generic over the metric kind M, constrained to registry.Metric so that the
// same implementation serves counters, gauges, or histograms — the
// "minimal capability required of T" from spec.md §4.2/§9.
package index

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/cloudnative-stats/statindex/matcher"
	"github.com/cloudnative-stats/statindex/metrics"
	"github.com/cloudnative-stats/statindex/registry"
)

// StatsIndex maintains the live set of metrics of one kind whose name
// matches its Matcher. It is safe for concurrent use: a single mutex guards
// the membership map, serializing readers (ForEach, Snapshot, Contains,
// Size, Empty) against writers (TryInsert, Remove, Clear).
//
// A StatsIndex has stable identity once constructed: callers are expected to
// hold a pointer to it, not copy it.
type StatsIndex[M registry.Metric] struct {
	name    string
	kind    registry.Kind
	m       matcher.Matcher
	symbols registry.SymbolTable

	mu      sync.RWMutex
	members map[registry.NameHandle]M
}

// New creates a StatsIndex named name over metrics of the given kind,
// selecting members via m. symbols is used by TryInsertEncoded's fast path.
func New[M registry.Metric](name string, kind registry.Kind, m matcher.Matcher, symbols registry.SymbolTable) *StatsIndex[M] {
	return &StatsIndex[M]{
		name:    name,
		kind:    kind,
		m:       m,
		symbols: symbols,
		members: make(map[registry.NameHandle]M),
	}
}

// Name returns the index's immutable name.
func (idx *StatsIndex[M]) Name() string { return idx.name }

// Kind returns the metric kind this index was constructed for.
func (idx *StatsIndex[M]) Kind() registry.Kind { return idx.kind }

// Matcher returns the index's immutable matcher.
func (idx *StatsIndex[M]) Matcher() matcher.Matcher { return idx.m }

// TryInsert inserts metric if it matches and is of the right kind, and
// returns whether it was accepted. Insertion is idempotent: inserting an
// already-present metric again leaves Size unchanged and still returns true.
//
// A wrong-kind metric is rejected rather than a compile-time impossibility:
// spec.md's Open Questions note that a dynamically-typed source language
// needs this explicit check, and Go's single shared registry.Metric
// interface puts us in the same position, since the type parameter M does
// not by itself distinguish counters from gauges at runtime.
func (idx *StatsIndex[M]) TryInsert(metric M) bool {
	if metric.Kind() != idx.kind {
		return false
	}
	metrics.MatcherEvaluationsTotal.WithLabelValues(idx.kind.String()).Inc()
	if !idx.m.Matches(metric.Name()) {
		return false
	}
	idx.insert(metric)
	return true
}

// TryInsertEncoded is the encoded-handle fast path of TryInsert.
func (idx *StatsIndex[M]) TryInsertEncoded(metric M) bool {
	if metric.Kind() != idx.kind {
		return false
	}
	metrics.MatcherEvaluationsTotal.WithLabelValues(idx.kind.String()).Inc()
	if !idx.m.MatchesEncoded(metric.EncodedName(), idx.symbols) {
		return false
	}
	idx.insert(metric)
	return true
}

func (idx *StatsIndex[M]) insert(metric M) {
	idx.mu.Lock()
	idx.members[metric.EncodedName()] = metric
	size := len(idx.members)
	idx.mu.Unlock()
	metrics.IndexMembers.WithLabelValues(idx.kind.String(), idx.name).Set(float64(size))
	klog.V(10).Infof("index %q: accepted metric %q (size now %d)", idx.name, metric.Name(), size)
}

// Remove deletes metric from the index if present; a no-op otherwise.
func (idx *StatsIndex[M]) Remove(metric M) {
	idx.mu.Lock()
	delete(idx.members, metric.EncodedName())
	size := len(idx.members)
	idx.mu.Unlock()
	metrics.IndexMembers.WithLabelValues(idx.kind.String(), idx.name).Set(float64(size))
}

// Contains reports whether metric is currently a member.
func (idx *StatsIndex[M]) Contains(metric M) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.members[metric.EncodedName()]
	return ok
}

// Size returns the current member count.
func (idx *StatsIndex[M]) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.members)
}

// Empty reports whether the index currently has no members.
func (idx *StatsIndex[M]) Empty() bool {
	return idx.Size() == 0
}

// Snapshot returns a point-in-time, unordered copy of the current members,
// intended for callers that want to release the lock quickly rather than
// hold it across a long operation.
func (idx *StatsIndex[M]) Snapshot() []M {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]M, 0, len(idx.members))
	for _, m := range idx.members {
		out = append(out, m)
	}
	return out
}

// ForEach iterates the current membership under the index's read lock,
// calling f for each member. f returns false to stop iteration early.
// ForEach returns true iff iteration ran to completion.
//
// f must not call back into this index: reentrant calls would deadlock on
// the held lock. f should be fast, since it executes while the lock blocks
// concurrent mutation.
func (idx *StatsIndex[M]) ForEach(f func(M) bool) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, m := range idx.members {
		if !f(m) {
			return false
		}
	}
	return true
}

// Clear empties the index.
func (idx *StatsIndex[M]) Clear() {
	idx.mu.Lock()
	idx.members = make(map[registry.NameHandle]M)
	idx.mu.Unlock()
	metrics.IndexMembers.WithLabelValues(idx.kind.String(), idx.name).Set(0)
}
