package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
	"github.com/skillcoder/coreportal/internal/logic/operations"
)

type Service struct {
	logger     *slog.Logger
	restarter  Restarter
	parser     CronParser
	schedules  []Schedule
	tz         string
	tick       time.Duration
	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool
	started    atomic.Bool
	now        func() time.Time

	mu           sync.RWMutex
	next         []time.Time
	lastTickTime time.Time
}

// New validates every schedule and computes its first occurrence from now.
func New(
	logger *slog.Logger,
	restarter Restarter,
	parser CronParser,
	schedules []Schedule,
	tz string,
	tick time.Duration,
) (*Service, error) {
	for _, sch := range schedules {
		if err := parser.Validate(sch.Spec, tz); err != nil {
			return nil, fmt.Errorf("%w for %s: %w", ErrInvalidCronSpec, sch.Service, err)
		}
	}

	s := &Service{
		logger:    logger,
		restarter: restarter,
		parser:    parser,
		schedules: schedules,
		tz:        tz,
		tick:      tick,
		ready:     make(chan struct{}),
		doneCh:    make(chan struct{}),
		now:       time.Now,
		next:      make([]time.Time, len(schedules)),
	}

	if err := s.reset(s.now()); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "restart scheduler is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.RunCommand(ctx)

	return nil
}

func (s *Service) Name() string {
	return "restart-scheduler"
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		age := s.lastTickAge()
		if age > 2*s.tick {
			return fmt.Errorf("last schedule tick was too long ago: %s", age.Round(time.Second).String())
		}

		return nil
	default:
		return ErrNotReady
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.InfoContext(ctx, "shutting down restart scheduler")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before scheduler loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "restart scheduler loop exited")
	}

	return nil
}

// RunCommand checks schedules every tick until ctx is done.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.setLastTickTime(s.now())
	close(s.ready)

	s.logger.InfoContext(ctx, "restart scheduler started", "schedules", len(s.schedules), "tick", s.tick)

	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.RunDue(ctx, now)
			s.setLastTickTime(now)
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "terminating restart scheduler loop")

			return
		}
	}
}

// RunDue restarts every service whose schedule fired at or before now and
// returns how many restarts were attempted. Failures are logged only.
func (s *Service) RunDue(ctx context.Context, now time.Time) int {
	fired := 0

	for i, sch := range s.schedules {
		if s.inShutdown.Load() {
			return fired
		}

		s.mu.RLock()
		due := !now.Before(s.next[i])
		s.mu.RUnlock()

		if !due {
			continue
		}

		fired++
		s.restart(ctx, sch)

		next, err := s.parser.NextAfter(sch.Spec, s.tz, now)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to compute next restart", "service", sch.Service, "reason", err)

			continue
		}

		s.mu.Lock()
		s.next[i] = next
		s.mu.Unlock()
	}

	return fired
}

// Next returns the upcoming occurrence of each schedule, in configuration order.
func (s *Service) Next() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]time.Time(nil), s.next...)
}

func (s *Service) restart(ctx context.Context, sch Schedule) {
	logger := s.logger.With("service", sch.Service, "schedule", sch.Spec)
	reason := fmt.Sprintf("scheduled restart (%s)", sch.Spec)

	_, err := s.restarter.RestartService(operations.WithUser(ctx, User), sch.Service, reason)
	if err != nil {
		metrics.RecordScheduledRestart(sch.Service, resultError)
		logger.ErrorContext(ctx, "scheduled restart failed", "reason", err)

		return
	}

	metrics.RecordScheduledRestart(sch.Service, resultSuccess)
	logger.InfoContext(ctx, "scheduled restart done")
}

func (s *Service) reset(from time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sch := range s.schedules {
		next, err := s.parser.NextAfter(sch.Spec, s.tz, from)
		if err != nil {
			return fmt.Errorf("%w for %s: %w", ErrInvalidCronSpec, sch.Service, err)
		}

		s.next[i] = next
	}

	return nil
}

func (s *Service) lastTickAge() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.now().Sub(s.lastTickTime)
}

func (s *Service) setLastTickTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTickTime = t
}
