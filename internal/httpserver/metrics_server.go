package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

const (
	defaultMetricsPort  = "9090"
	metricsWriteTimeout = 5 * time.Second
)

// MetricsServer serves Prometheus metrics on a dedicated port.
type MetricsServer struct {
	logger *slog.Logger
	port   string
	loop   *serveLoop
}

// NewMetricsServer creates a new metrics server that serves GET /metrics on the given port.
func NewMetricsServer(logger *slog.Logger, port string) *MetricsServer {
	if port == "" {
		port = defaultMetricsPort
	}

	return &MetricsServer{
		logger: logger,
		port:   port,
		loop:   newServeLoop(logger, "metrics server"),
	}
}

var _ shutdown.Shutdowner = (*MetricsServer)(nil)

func (s *MetricsServer) Name() string {
	return "metrics-server"
}

// Ping returns nil when the server is ready to serve.
func (s *MetricsServer) Ping(ctx context.Context) error {
	return s.loop.ping(ctx)
}

// Handler serves the default registry in text or OpenMetrics format and
// instruments its own scrapes.
func (s *MetricsServer) Handler() http.Handler {
	metricsHandler := promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)

	return mux
}

// Start starts the metrics HTTP server in a goroutine.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.loop.start(ctx, ":"+s.port, s.Handler(), metricsWriteTimeout)
}

// Ready returns a channel that is closed when the metrics server is ready.
func (s *MetricsServer) Ready() <-chan struct{} {
	return s.loop.ready
}

// Addr returns the bound address after Start.
func (s *MetricsServer) Addr() string {
	return s.loop.addr()
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.loop.shutdown(ctx)
}
