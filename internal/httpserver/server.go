package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

const apiPrefix = "/api/v1"

type Server struct {
	logger   *slog.Logger
	appState appstater
	api      *API
	port     string
	loop     *serveLoop
}

// New creates a new HTTP server instance. A nil api serves only the health endpoints.
func New(logger *slog.Logger, appState appstater, api *API, port string) *Server {
	if port == "" {
		port = defaultPort
	}

	return &Server{
		logger:   logger,
		appState: appState,
		api:      api,
		port:     port,
		loop:     newServeLoop(logger, "http server"),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

// Name returns the name of the server component
func (s *Server) Name() string {
	return "http-server"
}

// Ping returns nil once the server accepts connections.
func (s *Server) Ping(ctx context.Context) error {
	return s.loop.ping(ctx)
}

// Handler builds the router: health endpoints at the root and the API under /api/v1.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/-/healthz", s.handleHealthz)
	router.Get("/-/readyz", s.handleReadyz)
	router.Get("/-/status", s.handleStatus)

	if s.api != nil {
		router.Mount(apiPrefix, s.api.Routes())
	}

	return router
}

// Start listens on the configured port and serves in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	return s.loop.start(ctx, ":"+s.port, s.Handler(), writeTimeout)
}

// Addr returns the bound address after Start, useful with port 0.
func (s *Server) Addr() string {
	return s.loop.addr()
}

// Ready returns a channel that is closed when the HTTP server is ready to serve requests
func (s *Server) Ready() <-chan struct{} {
	return s.loop.ready
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.loop.shutdown(ctx)
}
