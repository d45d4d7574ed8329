// Command statindexdemo wires the whole statindex stack together end to end:
// it loads a declarative index configuration, builds a registry and an
// IndexedRegistry from it, creates a handful of demo metrics, and runs an
// IdleActivityMonitor against the resulting indices, printing the pressure
// value on every tick.
//
// It exists to exercise the library the way a real caller would, the same
// role the teacher's cmd/adapter plays for sigs.k8s.io/prometheus-adapter,
// scaled down to a single in-process binary with no external dependencies.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/cloudnative-stats/statindex/config"
	"github.com/cloudnative-stats/statindex/indexedregistry"
	"github.com/cloudnative-stats/statindex/monitor"
	"github.com/cloudnative-stats/statindex/registry"
)

type demoOptions struct {
	configFile            string
	tickInterval          time.Duration
	totalThreshold        uint64
	sustainedIdleDuration time.Duration
}

func (o *demoOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configFile, "config", o.configFile,
		"YAML file describing the indices to build (see config.MetricsIndexConfig)")
	cmd.Flags().DurationVar(&o.tickInterval, "tick-interval", o.tickInterval,
		"interval at which the idle activity monitor re-evaluates pressure")
	cmd.Flags().Uint64Var(&o.totalThreshold, "idle-total-threshold", o.totalThreshold,
		"total active value below which the system is considered idle")
	cmd.Flags().DurationVar(&o.sustainedIdleDuration, "idle-sustained-duration", o.sustainedIdleDuration,
		"how long idle must persist before pressure is reported as 1.0")
}

func (o *demoOptions) run() error {
	if o.configFile == "" {
		return fmt.Errorf("no index configuration file specified (use --config)")
	}

	cfg, err := config.FromFile(o.configFile)
	if err != nil {
		return fmt.Errorf("unable to load index configuration: %v", err)
	}

	reg := registry.NewRegistry()
	ir := indexedregistry.New(reg)

	factory := config.NewIndexFactory()
	if err := factory.BuildInto(ir, cfg); err != nil {
		return fmt.Errorf("unable to build indices from configuration: %v", err)
	}

	seedDemoMetrics(reg)

	downstream := ir.GetGaugeIndex("downstream-active")
	upstream := ir.GetGaugeIndex("upstream-active")
	if downstream == nil || upstream == nil {
		return fmt.Errorf("configuration must define gauge indices named %q and %q", "downstream-active", "upstream-active")
	}

	reader := monitor.NewSentinelOrIndexActivityReader(reg, "downstream.active.total", "upstream.active.total",
		monitor.NewIndexActivityReader(downstream, upstream))

	idleMonitor, err := monitor.New(monitor.Config{
		TotalThreshold:        o.totalThreshold,
		SustainedIdleDuration: o.sustainedIdleDuration,
	}, reader, time.Now)
	if err != nil {
		return fmt.Errorf("unable to construct idle activity monitor: %v", err)
	}

	runner := monitor.NewRunner(idleMonitor, o.tickInterval)
	runner.AddPressureReceiver(func(pressure float64) {
		klog.Infof("idle pressure: %.1f (downstream=%d upstream=%d)", pressure, downstream.Sum(), upstream.Sum())
	})
	runner.Run()

	select {}
}

func seedDemoMetrics(reg *registry.Registry) {
	d := reg.NewGauge("downstream.requests.active")
	d.Set(0)
	u := reg.NewGauge("upstream.requests.active")
	u.Set(0)
}

func newDemoCommand() *cobra.Command {
	o := &demoOptions{
		tickInterval:          5 * time.Second,
		totalThreshold:        1,
		sustainedIdleDuration: 30 * time.Second,
	}
	cmd := &cobra.Command{
		Use:   "statindexdemo",
		Short: "wires statindex's matcher/index/monitor stack together against a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run()
		},
	}
	o.addFlags(cmd)
	return cmd
}

func main() {
	if err := newDemoCommand().Execute(); err != nil {
		klog.Errorf("statindexdemo: %v", err)
		os.Exit(1)
	}
}
