package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// HeartbeatOptions controls how long a claimed task may go without a
// heartbeat before the registry reassigns it to its queue.
type HeartbeatOptions struct {
	TimeoutSeconds int `json:"heartbeat-timeout" mapstructure:"heartbeat-timeout"`
}

// NewHeartbeatOptions creates a new HeartbeatOptions object with default parameters.
func NewHeartbeatOptions() *HeartbeatOptions {
	return &HeartbeatOptions{TimeoutSeconds: 60}
}

// Timeout returns the configured heartbeat timeout as a time.Duration.
func (h *HeartbeatOptions) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// Validate checks validation of HeartbeatOptions.
func (h *HeartbeatOptions) Validate() []error {
	var errs []error
	if h.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("--heartbeat-timeout %v must be a positive number of seconds", h.TimeoutSeconds))
	}
	return errs
}

// AddFlags adds flags for HeartbeatOptions to the specified FlagSet.
func (h *HeartbeatOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&h.TimeoutSeconds, "heartbeat-timeout", h.TimeoutSeconds,
		"Seconds a claimed task may go without a heartbeat before it is reassigned to its queue.")
}
