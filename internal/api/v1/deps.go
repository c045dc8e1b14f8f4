package v1

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/movie"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// CoverGenerator derives poster images from a source picture.
type CoverGenerator interface {
	Create(src, name string) (movie.Cover, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Manager *library.Manager

	// Optional dependencies (nil if not configured)
	Covers   CoverGenerator
	EventLog *events.EventLog
	Logger   *slog.Logger

	ImagesDir string // served under /imgs/
	AssetsDir string // served under /assets/
	Version   string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Manager == nil {
		return fmt.Errorf("%w: library manager", ErrMissingDependency)
	}
	return nil
}
