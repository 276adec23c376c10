package audit

import "time"

// Action tags an audit entry with the operation that produced it.
type Action string

const (
	ActionRestartService     Action = "RESTART_SERVICE"
	ActionStopService        Action = "STOP_SERVICE"
	ActionDeleteService      Action = "DELETE_SERVICE"
	ActionScaleService       Action = "SCALE_SERVICE"
	ActionRestartAllServices Action = "RESTART_ALL_SERVICES"
	ActionStopAllServices    Action = "STOP_ALL_SERVICES"
	ActionViewLogs           Action = "VIEW_LOGS"
	ActionDeletePod          Action = "DELETE_POD"
)

const (
	// LogKey is the storage key the audit log is persisted under.
	LogKey = "k8s-operation-logs"

	// DefaultCapacity is the number of most recent entries retained.
	DefaultCapacity = 100

	// DefaultUser is recorded when the invoking user is unknown.
	DefaultUser = "current-user"

	// timestampLayout renders ISO-8601 UTC timestamps with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Entry is one persisted audit record.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Action    Action `json:"action"`
	Target    string `json:"target"`
	Details   string `json:"details,omitempty"`
	User      string `json:"user"`
}

// FormatTimestamp renders t in the persisted timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
