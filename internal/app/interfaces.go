package app

import (
	"context"
	"os"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/appstate"
	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	GetAllStats() []pinger.Statistics
	RegisterShutdowner(shutdowner shutdown.Shutdowner)
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	SetTerminating(ctx context.Context) error
	GetStartTime() time.Time
	GetState() appstate.State
	GetUptime() time.Duration
	IsHealthy() bool
	IsReady() bool
	Shutdown(ctx context.Context) error
}

// component is a long-running part of the application started by Run.
type component interface {
	Name() string
	Start(ctx context.Context) error
	Ready() <-chan struct{}
}
