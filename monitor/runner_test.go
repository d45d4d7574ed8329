package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cloudnative-stats/statindex/monitor"
)

func TestRunnerUpdateNowTicksImmediatelyAndCachesResult(t *testing.T) {
	reader := &fakeActivityReader{downstream: 0, upstream: 0}
	m, err := monitor.New(monitor.Config{TotalThreshold: 1, SustainedIdleDuration: time.Second}, reader, time.Now)
	require.NoError(t, err)

	r := monitor.NewRunner(m, time.Hour)
	require.Equal(t, 0.0, r.MostRecentPressure())

	got := r.UpdateNow()
	require.Equal(t, 0.0, got)
	require.Equal(t, 0.0, r.MostRecentPressure())
}

func TestRunnerNotifiesPressureReceiversOnEveryTick(t *testing.T) {
	reader := &fakeActivityReader{downstream: 0, upstream: 0}
	m, err := monitor.New(monitor.Config{TotalThreshold: 1, SustainedIdleDuration: time.Second}, reader, time.Now)
	require.NoError(t, err)

	r := monitor.NewRunner(m, time.Hour)

	var received []float64
	r.AddPressureReceiver(func(p float64) {
		received = append(received, p)
	})

	r.UpdateNow()
	r.UpdateNow()

	require.Equal(t, []float64{0.0, 0.0}, received)
}

func TestRunnerSupportsMultiplePressureReceivers(t *testing.T) {
	reader := &fakeActivityReader{downstream: 0, upstream: 0}
	m, err := monitor.New(monitor.Config{TotalThreshold: 1, SustainedIdleDuration: time.Second}, reader, time.Now)
	require.NoError(t, err)

	r := monitor.NewRunner(m, time.Hour)

	var a, b int
	r.AddPressureReceiver(func(float64) { a++ })
	r.AddPressureReceiver(func(float64) { b++ })

	r.UpdateNow()

	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
}

func TestRunnerRunUntilStopsOnClosedChannel(t *testing.T) {
	reader := &fakeActivityReader{downstream: 0, upstream: 0}
	m, err := monitor.New(monitor.Config{TotalThreshold: 1, SustainedIdleDuration: time.Second}, reader, time.Now)
	require.NoError(t, err)

	r := monitor.NewRunner(m, 10*time.Millisecond)

	ticks := make(chan float64, 16)
	r.AddPressureReceiver(func(p float64) { ticks <- p })

	stop := make(chan struct{})
	r.RunUntil(stop)

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected at least one tick before timeout")
	}

	close(stop)
}
