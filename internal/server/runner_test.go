package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/migrations"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

type countingFlusher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFlusher) Flush() error {
	f.calls.Add(1)
	return f.err
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestRunner_ServesUntilCanceled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	r := NewRunner(handler, nil, nil, nil, Config{}, testLogger())

	ln := listen(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == "ok"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_PeriodicFlush(t *testing.T) {
	flusher := &countingFlusher{err: errors.New("disk full")}
	r := NewRunner(http.NotFoundHandler(), nil, nil, flusher, Config{FlushInterval: 10 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, listen(t)) }()

	require.Eventually(t, func() bool { return flusher.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done, "flush failures are not fatal")
}

func TestRunner_DrainsBusAndPrunes(t *testing.T) {
	db := setupTestDB(t)
	log := events.NewEventLog(db)
	bus := events.NewBus(log, testLogger())
	defer bus.Close()

	old := events.NewMovieAdded("Marius", 1931, "Comédie")
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	_, err := log.Append(old)
	require.NoError(t, err)

	r := NewRunner(http.NotFoundHandler(), bus, log, nil, Config{RetainEvents: 24 * time.Hour}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, listen(t)) }()

	require.Eventually(t, func() bool {
		recent, err := log.Recent(10)
		return err == nil && len(recent) == 0
	}, 2*time.Second, 10*time.Millisecond)

	for range 100 {
		require.NoError(t, bus.Publish(ctx, events.NewMovieRemoved("Fanny")))
	}
	recent, err := log.Recent(200)
	require.NoError(t, err)
	assert.Len(t, recent, 100)

	cancel()
	assert.NoError(t, <-done)
}

func TestRunner_ListenError(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	r := NewRunner(http.NotFoundHandler(), nil, nil, nil, Config{Addr: ln.Addr().String()}, testLogger())
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
