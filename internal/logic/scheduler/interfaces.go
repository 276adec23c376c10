package scheduler

import (
	"context"
	"time"

	"github.com/skillcoder/coreportal/internal/logic/operations"
)

// Restarter is the operation the scheduler triggers.
type Restarter interface {
	RestartService(ctx context.Context, name, reason string) (*operations.Result, error)
}

// CronParser computes schedule occurrences.
type CronParser interface {
	Validate(spec, tz string) error
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}
