package scheduler

const (
	// User is recorded in the audit log for scheduled restarts.
	User = "scheduler"

	resultSuccess = "success"
	resultError   = "error"
)
