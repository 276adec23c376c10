package appstate

import (
	"context"

	"github.com/skillcoder/coreportal/internal/infra/pinger"
	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

// pingerServer is the health pinger the application state depends on.
type pingerServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
	Register(p pinger.Pinger) error
	GetAllStats() []pinger.Statistics
}
