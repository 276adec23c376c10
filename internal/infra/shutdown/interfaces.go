package shutdown

import (
	"context"
	"os"
)

// Shutdowner is a component that releases its resources on shutdown.
type Shutdowner interface {
	Name() string
	Shutdown(ctx context.Context) error
}

type quiter interface {
	Quit() <-chan os.Signal
}
