package operations

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/skillcoder/coreportal/internal/logic/cluster"
)

// Simulator runs mock cluster operations against a Registry.
type Simulator struct {
	logger    *slog.Logger
	registry  Registry
	names     *NameGenerator
	locks     *keyLock
	observers []Observer

	delays      Delays
	failureRate float64

	rngMu sync.Mutex
	rng   *rand.Rand

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	inShutdown atomic.Bool
	inflight   sync.WaitGroup
}

// New creates a Simulator. Observers are notified in the given order.
func New(
	logger *slog.Logger,
	reg Registry,
	names *NameGenerator,
	cfg Config,
	observers ...Observer,
) *Simulator {
	return &Simulator{
		logger:      logger,
		registry:    reg,
		names:       names,
		locks:       newKeyLock(),
		observers:   observers,
		delays:      cfg.Delays,
		failureRate: cfg.FailureRate,
		//nolint:gosec // display values and failure injection only
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:   time.Now,
		sleep: sleepContext,
	}
}

func (s *Simulator) Name() string {
	return "operation-simulator"
}

func (s *Simulator) Ping(_ context.Context) error {
	if s.inShutdown.Load() {
		return ErrShuttingDown
	}

	return nil
}

// Submit runs fn in the background with a context detached from ctx's cancellation.
// It returns the operation ID that fn's operation will use.
func (s *Simulator) Submit(ctx context.Context, fn func(ctx context.Context) error) (string, error) {
	if s.inShutdown.Load() {
		return "", ErrShuttingDown
	}

	id := OperationIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	opCtx := WithOperationID(context.WithoutCancel(ctx), id)

	s.inflight.Add(1)

	go func() {
		defer s.inflight.Done()

		if err := fn(opCtx); err != nil {
			s.logger.DebugContext(opCtx, "background operation failed", "operationID", id, "reason", err)
		}
	}()

	return id, nil
}

// Shutdown stops accepting submissions and waits for in-flight ones.
func (s *Simulator) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	done := make(chan struct{})

	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.InfoContext(ctx, "all operations finished")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for in-flight operations: %w", ctx.Err())
	}
}

// plan is one operation's recipe for execute.
type plan struct {
	op Operation
	// lockKeys are the services serialized by this operation.
	lockKeys []string
	// transitional is set on every lock key while the delay runs. Empty means none.
	transitional cluster.ServiceStatus
	delay        time.Duration
	precheck     func() error
	// apply produces the terminal registry state and fills res. Nil skips the write.
	apply func(services []cluster.Service, res *Result) ([]cluster.Service, error)
	// describe fills result fields that do not depend on registry state.
	describe func(res *Result)
}

func (s *Simulator) execute(ctx context.Context, p plan) (*Result, error) {
	op := p.op

	op.ID = OperationIDFrom(ctx)
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	if op.User == "" {
		op.User = UserFrom(ctx)
	}

	op.StartedAt = s.now()

	for _, o := range s.observers {
		o.OperationStarted(ctx, op)
	}

	res, err := s.perform(ctx, op, p)
	if err != nil {
		s.logger.DebugContext(ctx, "operation failed",
			"operationID", op.ID,
			"action", op.Action,
			"target", op.Target,
			"reason", err,
		)

		res = nil
	}

	for _, o := range s.observers {
		o.OperationFinished(ctx, op, res, err)
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *Simulator) perform(ctx context.Context, op Operation, p plan) (*Result, error) {
	if p.precheck != nil {
		if err := p.precheck(); err != nil {
			return nil, err
		}
	}

	unlock, err := s.locks.Lock(ctx, p.lockKeys...)
	if err != nil {
		return nil, fmt.Errorf("acquire target lock: %w", err)
	}
	defer unlock()

	var previous map[string]cluster.ServiceStatus

	if p.transitional != "" {
		previous, err = s.setTransitional(string(op.Action), p.lockKeys, p.transitional)
		if err != nil {
			return nil, err
		}
	}

	if err := s.wait(ctx, p.delay); err != nil {
		s.revert(ctx, previous, p.transitional)

		return nil, err
	}

	res := &Result{Operation: op}

	if p.apply == nil {
		res.Version = s.registry.Version()
	} else {
		version, err := s.registry.Update(string(op.Action), func(services []cluster.Service) ([]cluster.Service, error) {
			return p.apply(services, res)
		})
		if err != nil {
			s.revert(ctx, previous, p.transitional)

			return nil, fmt.Errorf("apply %s: %w", op.Action, err)
		}

		res.Version = version
	}

	if p.describe != nil {
		p.describe(res)
	}

	res.FinishedAt = s.now()

	return res, nil
}

func (s *Simulator) wait(ctx context.Context, d time.Duration) error {
	if err := s.sleep(ctx, d); err != nil {
		return fmt.Errorf("wait for operation: %w", err)
	}

	if s.shouldFail() {
		return ErrSimulatedFailure
	}

	return nil
}

func (s *Simulator) setTransitional(
	reason string,
	names []string,
	status cluster.ServiceStatus,
) (map[string]cluster.ServiceStatus, error) {
	previous := make(map[string]cluster.ServiceStatus, len(names))

	_, err := s.registry.Update(reason, func(services []cluster.Service) ([]cluster.Service, error) {
		for _, name := range names {
			idx := cluster.Find(services, name)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
			}

			previous[name] = services[idx].Status
			services[idx].Status = status
		}

		return services, nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// revert restores pre-operation statuses of services still showing transitional.
func (s *Simulator) revert(ctx context.Context, previous map[string]cluster.ServiceStatus, transitional cluster.ServiceStatus) {
	if len(previous) == 0 {
		return
	}

	_, err := s.registry.Update("revert", func(services []cluster.Service) ([]cluster.Service, error) {
		for name, status := range previous {
			idx := cluster.Find(services, name)
			if idx >= 0 && services[idx].Status == transitional {
				services[idx].Status = status
			}
		}

		return services, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to revert transitional status", "reason", err)
	}
}

func (s *Simulator) shouldFail() bool {
	if s.failureRate <= 0 {
		return false
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	return s.rng.Float64() < s.failureRate
}

// percent returns a display percentage in [base, base+spread).
func (s *Simulator) percent(base, spread int) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	return formatPercent(base + s.rng.IntN(spread))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
