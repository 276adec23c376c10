package operations

import (
	"time"

	"github.com/skillcoder/coreportal/internal/logic/audit"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// Operation describes one invocation as seen by observers.
type Operation struct {
	ID     string
	Action audit.Action
	// Target is the audit target: a service name, a pod name or "Namespace: <ns>".
	Target string
	// Key is the notification key shared by every operation of the same kind on Target.
	Key    string
	Reason string
	User   string

	StartMessage string
	ErrorMessage string
	// Informational operations start with an info notification instead of a loading one.
	Informational bool

	StartedAt time.Time
}

// Result is the outcome of a successful operation.
type Result struct {
	Operation      Operation
	Details        string
	SuccessMessage string
	// Services holds copies of the affected services after completion. Deleted services are absent.
	Services   []cluster.Service
	Version    uint64
	FinishedAt time.Time
}

// Duration is the wall time from start to completion.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.Operation.StartedAt)
}

// Config tunes the simulator.
type Config struct {
	Delays Delays
	// FailureRate is the probability in [0,1] that an operation fails after its delay.
	FailureRate float64
}
