// Package monitor implements IdleActivityMonitor, the representative
// consumer of the index layer: it sums a "downstream active" and an
// "upstream active" gauge subset via an ActivityStatsReader and reports
// resource pressure after a configurable sustained-idle duration, using
// deliberately inverted pressure semantics (1.0 means "take idle action").
package monitor

import (
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/cloudnative-stats/statindex/metrics"
)

// Config describes an IdleActivityMonitor's thresholds.
type Config struct {
	// TotalThreshold is required: the system is idle whenever
	// downstream+upstream active falls below it.
	TotalThreshold uint64
	// DownstreamThreshold and UpstreamThreshold are optional independent
	// trip wires; nil means "not configured".
	DownstreamThreshold *uint64
	UpstreamThreshold   *uint64
	// SustainedIdleDuration must be at least one second.
	SustainedIdleDuration time.Duration
}

// IdleActivityMonitor implements the per-tick algorithm from spec.md §4.6.
// It is safe for concurrent Tick calls, though in practice the resource
// monitor framework calls Tick from a single scheduling goroutine.
type IdleActivityMonitor struct {
	cfg    Config
	reader ActivityStatsReader
	now    func() time.Time

	mu        sync.Mutex
	idleSince *time.Time
}

// New constructs an IdleActivityMonitor. It fails with InvalidConfig if
// cfg.SustainedIdleDuration is below one second. now may be nil, in which
// case time.Now is used.
func New(cfg Config, reader ActivityStatsReader, now func() time.Time) (*IdleActivityMonitor, error) {
	if cfg.SustainedIdleDuration < time.Second {
		return nil, InvalidConfig("sustained_idle_duration must be at least 1 second")
	}
	if now == nil {
		now = time.Now
	}
	return &IdleActivityMonitor{cfg: cfg, reader: reader, now: now}, nil
}

// Tick runs one evaluation of the per-tick algorithm and returns the
// reported pressure: 0.0 ("do nothing") or 1.0 ("take idle action").
//
// The system is considered idle when ANY configured threshold trips: total
// activity below TotalThreshold, or (if set) downstream below
// DownstreamThreshold, or (if set) upstream below UpstreamThreshold. This OR
// semantics is intentional — see spec.md §9's Open Questions — and is
// stronger (easier to trip) than an AND interpretation would be.
func (m *IdleActivityMonitor) Tick() float64 {
	d := m.reader.DownstreamActive()
	u := m.reader.UpstreamActive()
	total := d + u
	now := m.now()

	idle := total < m.cfg.TotalThreshold
	if m.cfg.DownstreamThreshold != nil && d < *m.cfg.DownstreamThreshold {
		idle = true
	}
	if m.cfg.UpstreamThreshold != nil && u < *m.cfg.UpstreamThreshold {
		idle = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var pressure float64
	switch {
	case !idle:
		m.idleSince = nil
	case m.idleSince == nil:
		t := now
		m.idleSince = &t
	case now.Sub(*m.idleSince) >= m.cfg.SustainedIdleDuration:
		pressure = 1.0
	}

	metrics.IdleMonitorPressure.Set(pressure)
	klog.V(8).Infof("idle activity monitor: downstream=%d upstream=%d total=%d idle=%v pressure=%.1f", d, u, total, idle, pressure)
	return pressure
}
