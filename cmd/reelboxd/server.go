package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/reelbox/internal/api/v1"
	"github.com/vmunix/reelbox/internal/catalog"
	"github.com/vmunix/reelbox/internal/config"
	"github.com/vmunix/reelbox/internal/cover"
	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/migrations"
	"github.com/vmunix/reelbox/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", v1.RequestIDFrom(r.Context()),
		)
	})
}

// lockCatalog takes the single-owner lock beside the catalog store.
func lockCatalog(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog %s is in use by another reelboxd", path)
	}
	return lock, nil
}

func ensureDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(p, 0755); err != nil {
			return fmt.Errorf("create %s: %w", p, err)
		}
	}
	return nil
}

func runServer(configPath string) (err error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := ensureDirs(
		filepath.Dir(cfg.Catalog.Path),
		filepath.Dir(cfg.Index.Path),
		filepath.Dir(cfg.Database.Path),
		cfg.Media.ImagesDir,
	); err != nil {
		return err
	}

	lock, err := lockCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release catalog lock", "error", err)
		}
	}()

	// Open journal
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// === Catalog and index ===
	manager, err := library.Open(library.Options{
		CatalogPath: cfg.Catalog.Path,
		IndexPath:   cfg.Index.Path,
		Strategy:    catalog.Strategy(cfg.Catalog.Strategy),
		CacheSize:   cfg.Catalog.CacheSize,
		Recorder:    bus,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer func() {
		if cerr := manager.Close(); cerr != nil {
			logger.Error("close library", "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()
	logger.Info("catalog loaded",
		"path", cfg.Catalog.Path,
		"movies", manager.Size(),
		"strategy", manager.Strategy(),
	)

	// === HTTP API ===
	api, err := v1.New(v1.ServerDeps{
		Manager:   manager,
		Covers:    cover.NewGenerator(cfg.Media.ImagesDir, logger),
		EventLog:  eventLog,
		Logger:    logger,
		ImagesDir: cfg.Media.ImagesDir,
		AssetsDir: cfg.Media.AssetsDir,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	runner := server.NewRunner(
		logRequests(api.Handler(), logger),
		bus,
		eventLog,
		api,
		server.Config{
			Addr:          cfg.Addr(),
			FlushInterval: cfg.Catalog.FlushInterval,
			RetainEvents:  cfg.Database.RetainEvents,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting reelboxd", "version", version, "addr", cfg.Addr())
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("reelboxd stopped")
	return nil
}
