package pinger

import (
	"context"
	"time"
)

// Pinger is a component that can report its own health.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Statistics is the last known health of one pinger.
type Statistics struct {
	Name        string        `json:"name"`
	Ready       bool          `json:"ready"`
	Healthy     bool          `json:"healthy"`
	LastRun     time.Time     `json:"lastRun"`
	LastLatency time.Duration `json:"lastLatencyNs"`
	LastError   string        `json:"lastError,omitempty"`
	Successes   int           `json:"successes"`
	Failures    int           `json:"failures"`
}
