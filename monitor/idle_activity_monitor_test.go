package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloudnative-stats/statindex/monitor"
)

type fakeActivityReader struct {
	downstream uint64
	upstream   uint64
}

func (f *fakeActivityReader) DownstreamActive() uint64 { return f.downstream }
func (f *fakeActivityReader) UpstreamActive() uint64   { return f.upstream }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestNewRejectsSubSecondSustainedIdleDuration(t *testing.T) {
	reader := &fakeActivityReader{}
	_, err := monitor.New(monitor.Config{TotalThreshold: 5, SustainedIdleDuration: 500 * time.Millisecond}, reader, time.Now)
	require.Error(t, err)
	require.IsType(t, monitor.InvalidConfig(""), err)
}

// TestIdleActivityMonitorScenario reproduces spec.md §8 scenario 7 exactly:
// T=5, D=30s, a sequence of ticks with specific reader values and expected
// pressures.
func TestIdleActivityMonitorScenario(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	reader := &fakeActivityReader{downstream: 0, upstream: 0}

	m, err := monitor.New(monitor.Config{
		TotalThreshold:        5,
		SustainedIdleDuration: 30 * time.Second,
	}, reader, clock.Now)
	require.NoError(t, err)

	// t=0: entering idle.
	require.Equal(t, 0.0, m.Tick())

	// t=31s: sustained.
	clock.now = time.Unix(31, 0)
	require.Equal(t, 1.0, m.Tick())

	// t=40s, downstream resumes: activity resumed.
	clock.now = time.Unix(40, 0)
	reader.downstream = 10
	require.Equal(t, 0.0, m.Tick())

	// t=41s, back to idle values: re-entering idle (not yet sustained).
	clock.now = time.Unix(41, 0)
	reader.downstream = 0
	require.Equal(t, 0.0, m.Tick())

	// t=75s: new sustained window (41 + 30 = 71 <= 75).
	clock.now = time.Unix(75, 0)
	require.Equal(t, 1.0, m.Tick())
}

// TestIdleActivityMonitorORSemanticsAcrossThresholds proves that a single
// tripped threshold is enough to declare idle even when total activity is
// far above TotalThreshold: downstream (100) is healthy but upstream (0)
// trips the upstream threshold, so the monitor still goes idle.
func TestIdleActivityMonitorORSemanticsAcrossThresholds(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	reader := &fakeActivityReader{downstream: 100, upstream: 0}

	downstreamThreshold := uint64(5)
	upstreamThreshold := uint64(5)
	m, err := monitor.New(monitor.Config{
		TotalThreshold:        1,
		DownstreamThreshold:   &downstreamThreshold,
		UpstreamThreshold:     &upstreamThreshold,
		SustainedIdleDuration: time.Second,
	}, reader, clock.Now)
	require.NoError(t, err)

	require.Equal(t, 0.0, m.Tick()) // entering idle, not yet sustained
	clock.advance(2 * time.Second)
	require.Equal(t, 1.0, m.Tick())
}
