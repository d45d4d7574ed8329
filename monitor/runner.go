package monitor

import (
	"time"

	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
)

// PressureCallback receives the pressure value produced by each Runner tick.
type PressureCallback func(pressure float64)

// Runner periodically calls an IdleActivityMonitor's Tick at a fixed
// interval and notifies registered callbacks, adapted from the teacher's
// periodicMetricLister (sigs.k8s.io/prometheus-adapter's
// pkg/external-provider/periodic_metric_lister.go): same
// wait.Until/wait.NeverStop scheduling, same AddNotificationReceiver/
// UpdateNow-shaped API, generalized from "refresh a metric list" to
// "re-evaluate idle pressure".
type Runner struct {
	monitor      *IdleActivityMonitor
	tickInterval time.Duration
	mostRecent   float64
	callbacks    []PressureCallback
}

// NewRunner creates a Runner that ticks monitor every interval once Run or
// RunUntil is called.
func NewRunner(monitor *IdleActivityMonitor, interval time.Duration) *Runner {
	return &Runner{
		monitor:      monitor,
		tickInterval: interval,
	}
}

// AddPressureReceiver registers a callback to be invoked with the pressure
// value produced by every future tick.
func (r *Runner) AddPressureReceiver(cb PressureCallback) {
	r.callbacks = append(r.callbacks, cb)
}

// MostRecentPressure returns the pressure value from the last completed
// tick, without forcing a new one.
func (r *Runner) MostRecentPressure() float64 {
	return r.mostRecent
}

// Run ticks the monitor forever, on tickInterval.
func (r *Runner) Run() {
	r.RunUntil(wait.NeverStop)
}

// RunUntil ticks the monitor on tickInterval until stopChan is closed.
func (r *Runner) RunUntil(stopChan <-chan struct{}) {
	go wait.Until(func() {
		if err := r.tick(); err != nil {
			utilruntime.HandleError(err)
		}
	}, r.tickInterval, stopChan)
}

// UpdateNow forces an immediate tick. Primarily for test purposes, mirroring
// the teacher's periodicMetricLister.UpdateNow.
func (r *Runner) UpdateNow() float64 {
	_ = r.tick()
	return r.mostRecent
}

func (r *Runner) tick() error {
	pressure := r.monitor.Tick()
	r.mostRecent = pressure
	r.notifyListeners(pressure)
	klog.V(6).Infof("idle activity monitor runner: tick pressure=%.1f", pressure)
	return nil
}

func (r *Runner) notifyListeners(pressure float64) {
	for _, cb := range r.callbacks {
		if cb != nil {
			cb(pressure)
		}
	}
}
