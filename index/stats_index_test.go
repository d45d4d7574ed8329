package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudnative-stats/statindex/index"
	"github.com/cloudnative-stats/statindex/matcher"
	"github.com/cloudnative-stats/statindex/registry"
)

func newGaugeIndex(t *testing.T, reg *registry.Registry, prefix string) *index.AggregatedStatsIndex[registry.Metric] {
	t.Helper()
	m := matcher.NewPrefixSuffix(prefix, "")
	return index.NewAggregated[registry.Metric]("test", registry.KindGauge, m, reg)
}

func TestTryInsertAcceptsMatchingRejectsOthers(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	a := reg.NewGauge("conn.a")
	other := reg.NewGauge("other.b")

	require.True(t, idx.TryInsert(a))
	require.False(t, idx.TryInsert(other))
	require.Equal(t, 1, idx.Size())
	require.True(t, idx.Contains(a))
	require.False(t, idx.Contains(other))
}

func TestTryInsertRejectsWrongKind(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	counter := reg.NewCounter("conn.requests")
	require.False(t, idx.TryInsert(counter))
	require.Equal(t, 0, idx.Size())
}

func TestTryInsertIsIdempotent(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	a := reg.NewGauge("conn.a")
	require.True(t, idx.TryInsert(a))
	require.True(t, idx.TryInsert(a))
	require.Equal(t, 1, idx.Size())
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	a := reg.NewGauge("conn.a")
	idx.TryInsert(a)
	idx.Remove(a)
	require.Equal(t, 0, idx.Size())
	require.False(t, idx.Contains(a))

	// Second remove is a no-op, never fails.
	idx.Remove(a)
	require.Equal(t, 0, idx.Size())
}

func TestClearEmptiesIndex(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	idx.TryInsert(reg.NewGauge("conn.a"))
	idx.TryInsert(reg.NewGauge("conn.b"))
	require.Equal(t, 2, idx.Size())

	idx.Clear()
	require.Equal(t, 0, idx.Size())
	require.True(t, idx.Empty())

	visited := 0
	complete := idx.ForEach(func(m registry.Metric) bool {
		visited++
		return true
	})
	require.True(t, complete)
	require.Equal(t, 0, visited)
}

func TestForEachVisitsEachMemberOnceAndStopsEarly(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	idx.TryInsert(reg.NewGauge("conn.a"))
	idx.TryInsert(reg.NewGauge("conn.b"))
	idx.TryInsert(reg.NewGauge("conn.c"))

	visited := map[string]bool{}
	complete := idx.ForEach(func(m registry.Metric) bool {
		visited[m.Name()] = true
		return true
	})
	require.True(t, complete)
	require.Len(t, visited, 3)

	count := 0
	complete = idx.ForEach(func(m registry.Metric) bool {
		count++
		return false
	})
	require.False(t, complete)
	require.Equal(t, 1, count)
}

func TestSnapshotIsPointInTimeCopy(t *testing.T) {
	reg := registry.NewRegistry()
	idx := newGaugeIndex(t, reg, "conn.")

	idx.TryInsert(reg.NewGauge("conn.a"))
	snap := idx.Snapshot()
	require.Len(t, snap, 1)

	idx.TryInsert(reg.NewGauge("conn.b"))
	require.Len(t, snap, 1, "snapshot must not observe later mutations")
	require.Equal(t, 2, idx.Size())
}
