package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultTimeout bounds the whole graceful shutdown. In-flight simulated
// operations take up to a few seconds, so it leaves room for them to drain.
const DefaultTimeout = 10 * time.Second

// Notify returns a channel that receives SIGTERM and SIGINT.
// Call it first in main so no signal is missed during startup.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

type Handler struct {
	logger *slog.Logger
	quiter quiter
}

func New(logger *slog.Logger, quiter quiter) *Handler {
	return &Handler{
		logger: logger,
		quiter: quiter,
	}
}

// HandleSignals cancels the application context on the first termination signal.
func (h *Handler) HandleSignals(ctx context.Context, cancel func()) {
	select {
	case <-ctx.Done():
		h.logger.InfoContext(ctx, "terminating signal handler due to context done")

		return
	case sig := <-h.quiter.Quit():
		h.logger.InfoContext(ctx, "received termination signal, terminating", "signal", sig.String())
	}

	cancel()
}

// CheckTerminationFile reports whether the pod has been marked for termination
// through a file, as done by a preStop hook.
func CheckTerminationFile(ctx context.Context, logger *slog.Logger, path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.ErrorContext(ctx, "failed to check termination file", "path", path, "reason", err)
		}

		return false
	}

	logger.InfoContext(ctx, "termination file found", "path", path)

	return true
}

// GracefulShutdown shuts components down in reverse registration order and
// joins their errors. It keeps going when originCtx is already cancelled.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	shutdowners []Shutdowner,
) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), DefaultTimeout)
	defer cancel()

	var errs error

	for i := len(shutdowners) - 1; i >= 0; i-- {
		start := time.Now()
		component := shutdowners[i]
		name := component.Name()

		if err := component.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", name,
				"duration", time.Since(start),
				"reason", err,
			)

			errs = errors.Join(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		logger.InfoContext(ctx, "component shutdown completed",
			"component", name,
			"duration", time.Since(start),
		)
	}

	return errs
}
