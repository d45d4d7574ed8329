package index

import (
	"github.com/cloudnative-stats/statindex/matcher"
	"github.com/cloudnative-stats/statindex/registry"
)

// MaxUint64 is the sentinel Min() returns for an empty index: an empty
// minimum has no defined result, and the sentinel makes that explicit and
// testable rather than silently returning zero.
const MaxUint64 = ^uint64(0)

// AggregatedStatsIndex layers pure-read reductions over a StatsIndex, each
// implemented as a single ForEach pass so that the whole reduction observes
// one consistent snapshot under the index's lock. It does not maintain a
// running total: spec.md deliberately chooses the O(k)-per-call pull model
// over an O(1) push model to keep the metric-mutation hot path
// allocation-free, while leaving room to add the push model later without
// changing this type's public contract.
type AggregatedStatsIndex[M registry.Metric] struct {
	*StatsIndex[M]
}

// NewAggregated creates an AggregatedStatsIndex, identical to New but with
// the reduction methods layered on top.
func NewAggregated[M registry.Metric](name string, kind registry.Kind, m matcher.Matcher, symbols registry.SymbolTable) *AggregatedStatsIndex[M] {
	return &AggregatedStatsIndex[M]{StatsIndex: New[M](name, kind, m, symbols)}
}

// Sum returns the sum of Value() over current membership; 0 for empty.
// Arithmetic wraps on overflow rather than saturating.
func (idx *AggregatedStatsIndex[M]) Sum() uint64 {
	var sum uint64
	idx.ForEach(func(m M) bool {
		sum += m.Value()
		return true
	})
	return sum
}

// Count returns the current member count; an alias for Size.
func (idx *AggregatedStatsIndex[M]) Count() int {
	return idx.Size()
}

// Average returns sum/count as a real number; 0.0 for empty.
func (idx *AggregatedStatsIndex[M]) Average() float64 {
	var sum uint64
	var count int
	idx.ForEach(func(m M) bool {
		sum += m.Value()
		count++
		return true
	})
	if count == 0 {
		return 0.0
	}
	return float64(sum) / float64(count)
}

// Min returns the minimum Value() over current membership, or MaxUint64 if
// the index is empty.
func (idx *AggregatedStatsIndex[M]) Min() uint64 {
	min := MaxUint64
	seen := false
	idx.ForEach(func(m M) bool {
		v := m.Value()
		if !seen || v < min {
			min = v
			seen = true
		}
		return true
	})
	return min
}

// Max returns the maximum Value() over current membership, or 0 if empty.
func (idx *AggregatedStatsIndex[M]) Max() uint64 {
	var max uint64
	idx.ForEach(func(m M) bool {
		if v := m.Value(); v > max {
			max = v
		}
		return true
	})
	return max
}

// ComputeStats computes sum, min, max, and count in a single pass. Unlike
// the standalone Min, an empty index yields min=0 here: the zero value a
// fresh accumulator starts at is never overwritten when ForEach visits
// nothing, which makes the reported four-tuple self-consistent (all zero)
// when count is zero. This discrepancy with Min's MaxUint64 sentinel is
// intentional and pinned by spec.md §8.
func (idx *AggregatedStatsIndex[M]) ComputeStats() (sum uint64, min uint64, max uint64, count int) {
	idx.ForEach(func(m M) bool {
		v := m.Value()
		if count == 0 || v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
		count++
		return true
	})
	return sum, min, max, count
}

// Fold is a general left-fold over current membership. It is a free function
// rather than a method because Go does not allow a method to introduce its
// own type parameter beyond its receiver's.
func Fold[M registry.Metric, A any](idx *AggregatedStatsIndex[M], initial A, f func(A, uint64) A) A {
	acc := initial
	idx.ForEach(func(m M) bool {
		acc = f(acc, m.Value())
		return true
	})
	return acc
}
