package scheduler

import (
	"fmt"
	"strings"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// Schedule restarts Service whenever Spec fires.
type Schedule struct {
	Service string
	Spec    string
}

// ParseSchedules reads "svc=CRON;svc2=CRON". Blank entries are ignored.
func ParseSchedules(raw string) ([]Schedule, error) {
	var schedules []Schedule

	for part := range strings.SplitSeq(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		service, spec, ok := strings.Cut(part, "=")
		service = strings.TrimSpace(service)
		spec = strings.TrimSpace(spec)

		if !ok || spec == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSchedule, part)
		}

		if err := cluster.ValidateName(service); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrMalformedSchedule, part, err)
		}

		schedules = append(schedules, Schedule{Service: service, Spec: spec})
	}

	return schedules, nil
}
