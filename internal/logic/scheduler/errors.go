package scheduler

import "errors"

var (
	ErrMalformedSchedule = errors.New("malformed restart schedule")
	ErrInvalidCronSpec   = errors.New("invalid cron spec")
	ErrNotReady          = errors.New("restart scheduler is not ready")
)
