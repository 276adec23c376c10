package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// serveLoop is the listen, serve and shutdown lifecycle shared by the API and
// metrics servers. name prefixes every log message and error.
type serveLoop struct {
	logger     *slog.Logger
	name       string
	server     *http.Server
	listenAddr atomic.Value
	ready      chan struct{}
	inShutdown atomic.Bool
}

func newServeLoop(logger *slog.Logger, name string) *serveLoop {
	return &serveLoop{
		logger: logger,
		name:   name,
		ready:  make(chan struct{}),
	}
}

func (l *serveLoop) start(ctx context.Context, addr string, handler http.Handler, writeTimeout time.Duration) error {
	if l.inShutdown.Load() {
		l.logger.InfoContext(ctx, l.name+" is shutting down, skipping start")

		return nil
	}

	l.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%s listen tcp: %w", l.name, err)
	}

	l.listenAddr.Store(listener.Addr().String())
	l.logger.InfoContext(ctx, l.name+" listening", "addr", listener.Addr().String())

	go func() {
		close(l.ready)

		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.ErrorContext(ctx, l.name+" error", "reason", err)
		}
	}()

	return nil
}

func (l *serveLoop) ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ready:
		return nil
	default:
		return fmt.Errorf("%s: %w", l.name, ErrServerNotReady)
	}
}

func (l *serveLoop) addr() string {
	addr, _ := l.listenAddr.Load().(string)

	return addr
}

func (l *serveLoop) shutdown(ctx context.Context) error {
	if !l.inShutdown.CompareAndSwap(false, true) {
		l.logger.ErrorContext(ctx, l.name+" is already shutting down, skipping shutdown")

		return nil
	}

	if l.server == nil {
		return nil
	}

	l.logger.InfoContext(ctx, "shutting down "+l.name)

	if err := l.server.Shutdown(ctx); err != nil {
		l.logger.ErrorContext(ctx, "error shutting down "+l.name, "reason", err)

		return fmt.Errorf("%s shutdown: %w", l.name, err)
	}

	l.logger.InfoContext(ctx, l.name+" closed properly")

	return nil
}
