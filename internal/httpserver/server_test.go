package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/coreportal/internal/httpserver"
	"github.com/skillcoder/coreportal/internal/infra/appstate"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
)

func newAppState(t *testing.T, running bool) *appstate.AppState {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	quit := make(chan os.Signal, 1)
	appState := appstate.New(logger, time.Now(), "", quit, pinger.New(logger, time.Second))

	if running {
		require.NoError(t, appState.SetStarting(t.Context()))
		require.NoError(t, appState.SetRunning(t.Context()))
	}

	return appState
}

func TestServer_Name(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(slog.New(slog.DiscardHandler), newAppState(t, false), nil, "")
	require.Equal(t, "http-server", srv.Name())
}

func TestServer_HealthEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		running bool
		path    string
		want    int
	}{
		{name: "healthz running", running: true, path: "/-/healthz", want: http.StatusOK},
		{name: "healthz starting", running: false, path: "/-/healthz", want: http.StatusServiceUnavailable},
		{name: "readyz running", running: true, path: "/-/readyz", want: http.StatusOK},
		{name: "readyz starting", running: false, path: "/-/readyz", want: http.StatusServiceUnavailable},
		{name: "status always", running: false, path: "/-/status", want: http.StatusOK},
		{name: "api absent without api", running: true, path: "/api/v1/services", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httpserver.New(slog.New(slog.DiscardHandler), newAppState(t, tt.running), nil, "")

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, tt.path, nil))

			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServer_Status(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(slog.New(slog.DiscardHandler), newAppState(t, true), nil, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/-/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		State      string            `json:"state"`
		Components []json.RawMessage `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(appstate.StateRunning), body.State)
	require.Empty(t, body.Components)
}

func TestServer_StartPingShutdown(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(slog.New(slog.DiscardHandler), newAppState(t, true), nil, "0")

	require.ErrorIs(t, srv.Ping(t.Context()), httpserver.ErrServerNotReady)

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	require.NoError(t, srv.Start(ctx))

	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		t.Fatal("server did not become ready")
	}

	require.NoError(t, srv.Ping(t.Context()))

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+srv.Addr()+"/-/healthz", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	require.NoError(t, srv.Shutdown(shutdownCtx))
	require.NoError(t, srv.Shutdown(shutdownCtx))
}

func TestMetricsServer(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewMetricsServer(slog.New(slog.DiscardHandler), "0")
	require.Equal(t, "metrics-server", srv.Name())
	require.Error(t, srv.Ping(t.Context()))

	require.NoError(t, srv.Start(t.Context()))
	<-srv.Ready()
	require.NoError(t, srv.Ping(t.Context()))

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+srv.Addr()+"/metrics", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "promhttp_metric_handler_requests_total")

	require.NoError(t, srv.Shutdown(t.Context()))
}
