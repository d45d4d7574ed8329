package monitor

import (
	"sync"

	"github.com/cloudnative-stats/statindex/index"
	"github.com/cloudnative-stats/statindex/registry"
)

// ActivityStatsReader is the production consumer's window into "how much
// activity is happening right now". It is satisfied by IndexActivityReader
// (the index-backed O(k) implementation) and by SentinelOrIndexActivityReader
// (which prefers an O(1) sentinel-gauge lookup and falls back to the index).
type ActivityStatsReader interface {
	DownstreamActive() uint64
	UpstreamActive() uint64
}

// IndexActivityReader sums two aggregated gauge indices — one over
// "downstream active" gauges, one over "upstream active" gauges — in O(k).
// This is strategy (b) from spec.md §4.6: the index layer makes the
// suffix-matching fallback path O(k) instead of a full O(n) registry scan.
type IndexActivityReader struct {
	downstream *index.AggregatedStatsIndex[registry.Metric]
	upstream   *index.AggregatedStatsIndex[registry.Metric]
}

// NewIndexActivityReader wraps the two aggregated indices that define
// "downstream active" and "upstream active".
func NewIndexActivityReader(downstream, upstream *index.AggregatedStatsIndex[registry.Metric]) *IndexActivityReader {
	return &IndexActivityReader{downstream: downstream, upstream: upstream}
}

func (r *IndexActivityReader) DownstreamActive() uint64 { return r.downstream.Sum() }
func (r *IndexActivityReader) UpstreamActive() uint64   { return r.upstream.Sum() }

// SentinelOrIndexActivityReader implements spec.md §4.6's two-strategy
// production lookup: it first looks for two global sentinel gauges by exact
// name (looked up once and cached — the O(1) path), falling back to an
// index-backed ActivityStatsReader (the O(k) path) when a sentinel gauge
// isn't present.
type SentinelOrIndexActivityReader struct {
	reg                    *registry.Registry
	downstreamSentinelName string
	upstreamSentinelName   string
	fallback               ActivityStatsReader

	mu                 sync.Mutex
	downstreamSentinel registry.Metric
	upstreamSentinel   registry.Metric
}

// NewSentinelOrIndexActivityReader builds a reader that prefers the named
// sentinel gauges over fallback.
func NewSentinelOrIndexActivityReader(reg *registry.Registry, downstreamSentinelName, upstreamSentinelName string, fallback ActivityStatsReader) *SentinelOrIndexActivityReader {
	return &SentinelOrIndexActivityReader{
		reg:                     reg,
		downstreamSentinelName:  downstreamSentinelName,
		upstreamSentinelName:    upstreamSentinelName,
		fallback:                fallback,
	}
}

func (r *SentinelOrIndexActivityReader) DownstreamActive() uint64 {
	if m := r.sentinel(&r.downstreamSentinel, r.downstreamSentinelName); m != nil {
		return m.Value()
	}
	return r.fallback.DownstreamActive()
}

func (r *SentinelOrIndexActivityReader) UpstreamActive() uint64 {
	if m := r.sentinel(&r.upstreamSentinel, r.upstreamSentinelName); m != nil {
		return m.Value()
	}
	return r.fallback.UpstreamActive()
}

func (r *SentinelOrIndexActivityReader) sentinel(cache *registry.Metric, name string) registry.Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	if *cache != nil {
		return *cache
	}
	if m, ok := r.reg.Lookup(name); ok {
		*cache = m
	}
	return *cache
}
