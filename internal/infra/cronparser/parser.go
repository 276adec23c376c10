package cronparser

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cron "github.com/netresearch/go-cron"
)

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Parser computes next cron occurrences using go-cron. Parsed schedules are
// cached by their full spec, so repeated lookups on every tick stay cheap.
type Parser struct {
	mu    sync.Mutex
	cache map[string]cron.Schedule
}

// New creates a new cron parser.
func New() *Parser {
	return &Parser{cache: make(map[string]cron.Schedule)}
}

// Validate reports whether spec parses in tz.
func (p *Parser) Validate(spec, tz string) error {
	_, err := p.schedule(spec, tz)

	return err
}

// NextAfter returns the next cron occurrence strictly after `after`.
// If tz is non-empty and the spec has no CRON_TZ=/TZ= prefix, it prepends CRON_TZ=<tz>.
// Defaults to UTC when no tz is given.
func (p *Parser) NextAfter(
	spec,
	tz string,
	after time.Time,
) (time.Time, error) {
	schedule, err := p.schedule(spec, tz)
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(after), nil
}

func (p *Parser) schedule(spec, tz string) (cron.Schedule, error) {
	fullSpec := buildSpec(strings.TrimSpace(spec), tz)

	p.mu.Lock()
	defer p.mu.Unlock()

	if schedule, ok := p.cache[fullSpec]; ok {
		return schedule, nil
	}

	schedule, err := _parser.Parse(fullSpec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	p.cache[fullSpec] = schedule

	return schedule, nil
}

func buildSpec(spec, tz string) string {
	hasTZPrefix := strings.HasPrefix(spec, "CRON_TZ=") ||
		strings.HasPrefix(spec, "TZ=")

	if hasTZPrefix {
		return spec
	}

	if tz == "" {
		tz = "UTC"
	}

	return "CRON_TZ=" + tz + " " + spec
}
