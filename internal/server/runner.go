// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reelbox/internal/events"
)

// Config for the daemon components.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration // defaults to 30s
	FlushInterval   time.Duration // 0 disables periodic flushes
	RetainEvents    time.Duration // 0 keeps the journal forever
}

// Flusher persists pending catalog and index state.
type Flusher interface {
	Flush() error
}

// Runner manages the HTTP server and the background jobs around it.
type Runner struct {
	handler http.Handler
	bus     *events.Bus
	log     *events.EventLog
	flusher Flusher
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner. bus, log and flusher may be nil, which
// disables the jobs that need them.
func NewRunner(handler http.Handler, bus *events.Bus, log *events.EventLog, flusher Flusher, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Runner{
		handler: handler,
		bus:     bus,
		log:     log,
		flusher: flusher,
		config:  cfg,
		logger:  logger.With("component", "runner"),
	}
}

// Run listens on the configured address and serves until the context is
// canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs every component on ln. It blocks until the context is canceled
// or a component fails, and returns nil after a clean shutdown.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{Handler: r.handler, ReadHeaderTimeout: 10 * time.Second}
	g.Go(func() error {
		r.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if r.bus != nil {
		sub := r.bus.Subscribe(64)
		g.Go(func() error {
			defer r.bus.Unsubscribe(sub)
			r.watchEvents(ctx, sub)
			return nil
		})
	}
	if r.flusher != nil && r.config.FlushInterval > 0 {
		g.Go(func() error {
			r.every(ctx, r.config.FlushInterval, r.flush)
			return nil
		})
	}
	if r.log != nil && r.config.RetainEvents > 0 {
		g.Go(func() error {
			r.prune()
			r.every(ctx, time.Hour, r.prune)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) watchEvents(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.logger.Debug("event", "type", e.EventType(), "entity", e.EntityType(), "id", e.EntityID())
		}
	}
}

func (r *Runner) every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// flush failures are logged and retried on the next tick.
func (r *Runner) flush() {
	if err := r.flusher.Flush(); err != nil {
		r.logger.Error("periodic flush failed", "error", err)
	}
}

func (r *Runner) prune() {
	n, err := r.log.Prune(r.config.RetainEvents)
	if err != nil {
		r.logger.Error("prune events failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("pruned events", "count", n)
	}
}
