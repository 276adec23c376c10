package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skillcoder/coreportal/internal/adapters/outbound/fixtures"
	"github.com/skillcoder/coreportal/internal/adapters/outbound/k8s"
	"github.com/skillcoder/coreportal/internal/config"
	"github.com/skillcoder/coreportal/internal/httpserver"
	"github.com/skillcoder/coreportal/internal/infra/cronparser"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/infra/shutdown"
	"github.com/skillcoder/coreportal/internal/logic/authz"
	"github.com/skillcoder/coreportal/internal/logic/cluster"
	"github.com/skillcoder/coreportal/internal/logic/notify"
	"github.com/skillcoder/coreportal/internal/logic/operations"
	"github.com/skillcoder/coreportal/internal/logic/registry"
	"github.com/skillcoder/coreportal/internal/logic/scheduler"
)

type App struct {
	logger   *slog.Logger
	appState appstater
	pingers  component
	registry *registry.Store
	// components start concurrently; the pinger starts after all of them are ready.
	components []component
}

// New creates a new application instance with all dependencies wired.
// Components are registered as shutdowners in start order and stop in reverse.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers component,
) (_ *App, err error) {
	services, err := fixtures.Load(cfg.FixturesFile)
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}

	defaultRole, err := authz.ParseRole(cfg.DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("default role: %w", err)
	}

	schedules, err := scheduler.ParseSchedules(cfg.RestartSchedules)
	if err != nil {
		return nil, fmt.Errorf("parse restart schedules: %w", err)
	}

	auditLog, auditStore, err := OpenAuditLog(logger, cfg)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = auditStore.Close(context.Background())
		}
	}()

	appState.RegisterShutdowner(&closer{name: "audit-store", close: auditStore.Close})

	store := registry.New(logger.With("component", "registry"), services)
	sink := notify.New(logger, notify.DefaultHistoryLimit)

	sim := operations.New(logger, store, operations.NewNameGenerator(services),
		operations.Config{
			Delays:      operations.DefaultDelays().Scaled(cfg.OperationDelayScale),
			FailureRate: cfg.SimulatedFailureRate,
		},
		operations.NewAuditObserver(logger, auditLog),
		operations.NewNotifyObserver(sink),
		operations.NewMetricsObserver(),
	)

	restarts, err := scheduler.New(logger.With("component", "scheduler"), sim, cronparser.New(),
		schedules, cfg.ScheduleTZ, cfg.ScheduleTick)
	if err != nil {
		return nil, fmt.Errorf("create restart scheduler: %w", err)
	}

	api := httpserver.NewAPI(logger, httpserver.Dependencies{
		Simulator:     sim,
		Registry:      store,
		Audit:         auditLog,
		Notifications: sink,
		Renderer:      k8s.NewRenderer(logger),
		DefaultRole:   defaultRole,
		DefaultUser:   cfg.DefaultUser,
		Fixtures: func() ([]cluster.Service, error) {
			return fixtures.Load(cfg.FixturesFile)
		},
	})

	httpServer := httpserver.New(logger, appState, api, cfg.HTTPPort)
	metricsServer := httpserver.NewMetricsServer(logger, cfg.MetricsPort)

	monitored := []pinger.Pinger{auditLog, sim, restarts, httpServer, metricsServer}
	if auditStore.Pinger != nil {
		monitored = append(monitored, auditStore.Pinger)
	}

	for _, p := range monitored {
		if err := appState.RegisterPinger(p); err != nil {
			return nil, fmt.Errorf("register pinger: %w", err)
		}
	}

	if s, ok := pingers.(shutdown.Shutdowner); ok {
		appState.RegisterShutdowner(s)
	}

	appState.RegisterShutdowner(sim)
	appState.RegisterShutdowner(restarts)
	appState.RegisterShutdowner(metricsServer)
	appState.RegisterShutdowner(httpServer)

	logger.Info("application wired",
		"services", len(services),
		"auditBackend", cfg.AuditBackend,
		"schedules", len(schedules),
		"delayScale", cfg.OperationDelayScale,
		"failureRate", cfg.SimulatedFailureRate,
	)

	return &App{
		logger:     logger,
		appState:   appState,
		pingers:    pingers,
		registry:   store,
		components: []component{restarts, metricsServer, httpServer},
	}, nil
}

// Run starts the application and blocks until a termination signal arrives
// or ctx is cancelled, then shuts every component down.
func (a *App) Run(originCtx context.Context) error {
	if err := a.appState.SetStarting(originCtx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go shutdown.New(a.logger, a.appState).HandleSignals(ctx, cancel)
	go a.registry.ReportMetrics(ctx)

	if err := a.start(ctx); err != nil {
		cancel()

		return a.shutdown(originCtx, fmt.Errorf("start: %w", err))
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		cancel()

		return a.shutdown(originCtx, fmt.Errorf("set running: %w", err))
	}

	a.logger.InfoContext(ctx, "application is running")

	<-ctx.Done()

	return a.shutdown(originCtx, nil)
}

// start launches every component and waits for all of them to be ready,
// then starts the health pinger so its first round sees them serving.
func (a *App) start(ctx context.Context) error {
	var g errgroup.Group

	ready := make([]<-chan struct{}, 0, len(a.components))

	for _, c := range a.components {
		ready = append(ready, c.Ready())

		g.Go(func() error {
			if err := c.Start(ctx); err != nil {
				return fmt.Errorf("start %s: %w", c.Name(), err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	<-allChannelsClose(ctx, a.logger, ready...)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("wait for components: %w", err)
	}

	if err := a.pingers.Start(ctx); err != nil {
		return fmt.Errorf("start %s: %w", a.pingers.Name(), err)
	}

	select {
	case <-a.pingers.Ready():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for %s: %w", a.pingers.Name(), ctx.Err())
	}
}

func (a *App) shutdown(originCtx context.Context, cause error) error {
	a.logger.InfoContext(originCtx, "shutting down application")

	if err := a.appState.Shutdown(context.WithoutCancel(originCtx)); err != nil {
		a.logger.ErrorContext(originCtx, "graceful shutdown failed", "reason", err)

		if cause == nil {
			cause = err
		}
	}

	return cause
}

// allChannelsClose returns a channel that is closed once every channel in chans
// is closed or ctx is done, whichever comes first for each of them.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	var wg sync.WaitGroup

	for _, ch := range chans {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case <-ch:
			case <-ctx.Done():
				logger.DebugContext(ctx, "stopped waiting for component readiness", "reason", ctx.Err())
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// closer adapts a close function to shutdown.Shutdowner.
type closer struct {
	name  string
	close func(ctx context.Context) error
}

func (c *closer) Name() string {
	return c.name
}

func (c *closer) Shutdown(ctx context.Context) error {
	return c.close(ctx)
}
