package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/coreportal/internal/infra/pinger"
)

type statusResponse struct {
	State      string              `json:"state"`
	Uptime     string              `json:"uptime"`
	StartTime  time.Time           `json:"startTime"`
	UptimeSec  float64             `json:"uptimeSeconds"`
	Components []pinger.Statistics `json:"components"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("traceID", middleware.GetReqID(ctx))

	if !s.appState.IsHealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		logger.DebugContext(ctx, "health check failed")

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("traceID", middleware.GetReqID(ctx))

	if !s.appState.IsReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		logger.DebugContext(ctx, "readiness check failed")

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := s.appState.GetUptime()

	writeJSON(s.logger, w, r, http.StatusOK, statusResponse{
		State:      string(s.appState.GetState()),
		Uptime:     uptime.String(),
		StartTime:  s.appState.GetStartTime(),
		UptimeSec:  uptime.Seconds(),
		Components: s.appState.GetAllStats(),
	})
}
