package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/metrics"
)

const defaultPingTimeout = 1 * time.Second

// Optional interfaces a Pinger may implement to tune how it is checked.
type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}

type entry struct {
	pinger         Pinger
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration
	stats          Statistics
}

// Service pings registered components on an interval and keeps their last outcome.
type Service struct {
	logger     *slog.Logger
	interval   time.Duration
	mu         sync.RWMutex
	entries    map[string]*entry
	ready      chan struct{}
	inShutdown atomic.Bool
	started    atomic.Bool
	doneCh     chan struct{}
	inflight   sync.WaitGroup
}

func New(
	logger *slog.Logger,
	interval time.Duration,
) *Service {
	return &Service{
		logger:   logger,
		interval: interval,
		entries:  make(map[string]*entry),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Service) Name() string {
	return "pinger-service"
}

// Register adds a pinger. Names must be unique.
func (s *Service) Register(p Pinger) error {
	if p == nil {
		return ErrNilPinger
	}

	name := p.Name()

	e := &entry{
		pinger:         p,
		readyCritical:  true,
		healthCritical: true,
		timeout:        defaultPingTimeout,
		stats:          Statistics{Name: name},
	}

	if rc, ok := p.(readyCriticalPinger); ok {
		e.readyCritical = rc.PingerReadyCritical()
	}

	if hc, ok := p.(healthCriticalPinger); ok {
		e.healthCritical = hc.PingerCritical()
	}

	if tp, ok := p.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		e.timeout = tp.PingerTimeout()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	s.entries[name] = e

	s.logger.Info("pinger registered",
		"name", name,
		"readyCritical", e.readyCritical,
		"healthCritical", e.healthCritical,
		"timeout", e.timeout,
	)

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.run(ctx)

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.InfoContext(ctx, "shutting down pinger service")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
	}

	s.inflight.Wait()
	s.logger.InfoContext(ctx, "pinger loop exited")

	return nil
}

// GetStats returns the statistics of one pinger.
func (s *Service) GetStats(name string) (Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return Statistics{}, fmt.Errorf("get stats: %w: %s", ErrPingerNotFound, name)
	}

	return e.stats, nil
}

// GetAllStats returns the statistics of every pinger, sorted by name.
func (s *Service) GetAllStats() []Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Statistics, 0, len(s.entries))
	for _, name := range slices.Sorted(maps.Keys(s.entries)) {
		out = append(out, s.entries[name].stats)
	}

	return out
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.PingAll(ctx)
	close(s.ready)

	for {
		select {
		case <-ticker.C:
			if s.inShutdown.Load() {
				return
			}

			s.PingAll(ctx)
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// PingAll pings every registered component in parallel and waits for all of them.
func (s *Service) PingAll(ctx context.Context) {
	s.mu.RLock()
	entries := slices.Collect(maps.Values(s.entries))
	s.mu.RUnlock()

	var wg sync.WaitGroup

	for _, e := range entries {
		wg.Add(1)
		s.inflight.Add(1)

		go func() {
			defer wg.Done()
			defer s.inflight.Done()

			s.ping(ctx, e)
		}()
	}

	wg.Wait()
}

func (s *Service) ping(ctx context.Context, e *entry) {
	pingCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	err := e.pinger.Ping(pingCtx)
	latency := time.Since(start)

	name := e.stats.Name
	metrics.RecordComponentPing(name, latency, err)

	s.mu.Lock()
	st := &e.stats
	st.LastRun = start
	st.LastLatency = latency

	if err != nil {
		st.Failures++
		st.LastError = err.Error()
	} else {
		st.Successes++
		st.LastError = ""
	}

	st.Ready = !e.readyCritical || err == nil
	st.Healthy = !e.healthCritical || err == nil
	s.mu.Unlock()

	if err != nil {
		s.logger.DebugContext(ctx, "pinger error", "name", name, "latency", latency, "reason", err)
	}
}
