package monitor

import "fmt"

// InvalidConfig is returned by New when the supplied Config cannot be used
// to construct an IdleActivityMonitor — currently, only when
// SustainedIdleDuration is below one second.
type InvalidConfig string

func (e InvalidConfig) Error() string {
	return fmt.Sprintf("invalid idle activity monitor config: %s", string(e))
}
