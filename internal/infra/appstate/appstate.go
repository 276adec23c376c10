package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

// State is the lifecycle phase of the application.
type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

const defaultShutdownersCount = 10

// AppState tracks the lifecycle and owns the registered components' shutdown.
type AppState struct {
	mu                  sync.RWMutex
	logger              *slog.Logger
	startedAt           time.Time
	readyAt             *time.Time
	terminatingAt       *time.Time
	state               State
	quit                <-chan os.Signal
	terminationFilePath string
	pinger              pingerServer
	shutdowners         []shutdown.Shutdowner
}

func New(
	logger *slog.Logger,
	appStart time.Time,
	terminationFilePath string,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:              logger,
		startedAt:           appStart,
		state:               StateInit,
		quit:                quit,
		terminationFilePath: terminationFilePath,
		pinger:              pinger,
		shutdowners:         make([]shutdown.Shutdowner, 0, defaultShutdownersCount),
	}
}

func (s *AppState) RegisterPinger(p pinger.Pinger) error {
	return s.pinger.Register(p)
}

// RegisterShutdowner adds a component. Components shut down in reverse order.
func (s *AppState) RegisterShutdowner(shutdowner shutdown.Shutdowner) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdowners = append(s.shutdowners, shutdowner)
}

func (s *AppState) GetAllStats() []pinger.Statistics {
	return s.pinger.GetAllStats()
}

func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return fmt.Errorf("set starting: %w", ErrInvalidStateTransition)
	}

	return s.setState(StateStarting)
}

// SetRunning marks the application ready. If the termination file already exists
// the process signals itself so shutdown starts right away.
func (s *AppState) SetRunning(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateStarting {
		s.mu.Unlock()

		return fmt.Errorf("set running: %w", ErrInvalidStateTransition)
	}

	now := time.Now()
	s.readyAt = &now
	err := s.setState(StateRunning)
	s.mu.Unlock()

	if shutdown.CheckTerminationFile(ctx, s.logger, s.terminationFilePath) {
		pid := os.Getpid()
		s.logger.InfoContext(ctx, "termination file found after initialization, sending SIGTERM", "pid", pid)

		if killErr := syscall.Kill(pid, syscall.SIGTERM); killErr != nil {
			s.logger.ErrorContext(ctx, "failed to send SIGTERM", "pid", pid, "reason", killErr)
		}
	}

	return err
}

func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return fmt.Errorf("set terminating: %w", ErrAlreadyTerminated)
	}

	now := time.Now()
	s.terminatingAt = &now

	return s.setState(StateTerminating)
}

func (s *AppState) setState(newState State) error {
	if s.state == StateTerminated {
		return fmt.Errorf("set state: %w", ErrAlreadyTerminated)
	}

	s.state = newState

	return nil
}

func (s *AppState) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) GetStartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.startedAt
}

func (s *AppState) GetUptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.startedAt)
}

// IsHealthy reports a running application whose health-critical components all respond.
func (s *AppState) IsHealthy() bool {
	if s.GetState() != StateRunning {
		return false
	}

	for _, st := range s.pinger.GetAllStats() {
		if !st.Healthy {
			return false
		}
	}

	return true
}

// IsReady reports whether requests should be routed to this instance.
func (s *AppState) IsReady() bool {
	s.mu.RLock()
	ready := s.state == StateRunning && s.readyAt != nil
	s.mu.RUnlock()

	if !ready {
		return false
	}

	for _, st := range s.pinger.GetAllStats() {
		if !st.Ready {
			return false
		}
	}

	return true
}

// Quit returns the channel that receives the termination signal.
func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

// Shutdown stops every registered component and marks the application terminated.
// Calling it again after termination is a no-op.
func (s *AppState) Shutdown(ctx context.Context) error {
	if s.GetState() == StateTerminated {
		return nil
	}

	if err := s.SetTerminating(ctx); err != nil {
		return fmt.Errorf("set terminating application state: %w", err)
	}

	s.mu.RLock()
	shutdowners := append([]shutdown.Shutdowner(nil), s.shutdowners...)
	s.mu.RUnlock()

	err := shutdown.GracefulShutdown(ctx, s.logger, shutdowners)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
