package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/skillcoder/coreportal/internal/infra/shutdown"
)

func main() {
	appStart := time.Now()
	// Start listening for signals immediately as first thing, before any other initialization
	signals := shutdown.Notify()
	ctx := context.Background()

	err := newRootCommand(signals, appStart).ExecuteContext(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run", "reason", err)
		// Give the logger some time to flush
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}
}
