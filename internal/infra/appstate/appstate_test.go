package appstate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/infra/appstate"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
)

type staticPinger struct {
	name string
	err  error
}

func (p *staticPinger) Name() string { return p.name }

func (p *staticPinger) Ping(context.Context) error { return p.err }

type recordingShutdowner struct {
	name  string
	calls *[]string
}

func (s *recordingShutdowner) Name() string { return s.name }

func (s *recordingShutdowner) Shutdown(context.Context) error {
	*s.calls = append(*s.calls, s.name)

	return nil
}

func newState(t *testing.T) (*appstate.AppState, *pinger.Service) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	ps := pinger.New(logger, time.Second)
	missing := filepath.Join(t.TempDir(), "terminating")

	return appstate.New(logger, time.Now(), missing, make(chan os.Signal, 1), ps), ps
}

func TestAppState_StateTransitions(t *testing.T) {
	t.Parallel()

	t.Run("init to running", func(t *testing.T) {
		t.Parallel()

		s, _ := newState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.Equal(t, appstate.StateStarting, s.GetState())
		require.NoError(t, s.SetRunning(t.Context()))
		require.Equal(t, appstate.StateRunning, s.GetState())
	})

	t.Run("invalid: init to running", func(t *testing.T) {
		t.Parallel()

		s, _ := newState(t)
		require.ErrorIs(t, s.SetRunning(t.Context()), appstate.ErrInvalidStateTransition)
		require.Equal(t, appstate.StateInit, s.GetState())
	})

	t.Run("terminated cannot change", func(t *testing.T) {
		t.Parallel()

		s, _ := newState(t)
		require.NoError(t, s.SetStarting(t.Context()))
		require.NoError(t, s.SetRunning(t.Context()))
		require.NoError(t, s.Shutdown(t.Context()))
		require.Equal(t, appstate.StateTerminated, s.GetState())

		require.Error(t, s.SetStarting(t.Context()))
		require.ErrorIs(t, s.SetTerminating(t.Context()), appstate.ErrAlreadyTerminated)
		require.NoError(t, s.Shutdown(t.Context()))
	})
}

func TestAppState_ReadinessFollowsPingers(t *testing.T) {
	t.Parallel()

	s, ps := newState(t)
	failing := &staticPinger{name: "audit-log", err: errors.New("disk gone")}
	require.NoError(t, s.RegisterPinger(failing))

	require.False(t, s.IsReady())
	require.NoError(t, s.SetStarting(t.Context()))
	require.NoError(t, s.SetRunning(t.Context()))

	ps.PingAll(t.Context())
	require.False(t, s.IsReady())
	require.False(t, s.IsHealthy())

	failing.err = nil
	ps.PingAll(t.Context())
	require.True(t, s.IsReady())
	require.True(t, s.IsHealthy())
	require.Len(t, s.GetAllStats(), 1)
}

func TestAppState_ShutdownReverseOrder(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)

	var calls []string
	s.RegisterShutdowner(&recordingShutdowner{name: "http-server", calls: &calls})
	s.RegisterShutdowner(&recordingShutdowner{name: "operation-simulator", calls: &calls})

	require.NoError(t, s.Shutdown(t.Context()))
	require.Equal(t, []string{"operation-simulator", "http-server"}, calls)
}

func TestAppState_GetUptime(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)

	time.Sleep(10 * time.Millisecond)

	require.Greater(t, s.GetUptime(), time.Duration(0))
}
