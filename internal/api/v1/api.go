// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/movie"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
	maxBodyBytes    = 1 << 20
)

// Server is the v1 API server. The manager is not safe for concurrent use,
// so every handler holds mu while it touches the manager or the records it
// returns.
type Server struct {
	mu       sync.Mutex
	deps     ServerDeps
	registry *events.Registry
	logger   *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		deps:     deps,
		registry: events.DefaultRegistry(),
		logger:   logger.With("component", "api"),
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/{title}", s.getMovie)
	mux.HandleFunc("POST /api/v1/movies", s.addMovie)
	mux.HandleFunc("PUT /api/v1/movies/{title}", s.updateMovie)
	mux.HandleFunc("DELETE /api/v1/movies/{title}", s.deleteMovie)
	mux.HandleFunc("GET /api/v1/movies/{title}/synopsis", s.getSynopsis)
	mux.HandleFunc("PUT /api/v1/movies/{title}/synopsis", s.setSynopsis)
	mux.HandleFunc("GET /api/v1/movies/{title}/history", s.requireEventLog(s.movieHistory))

	// Search
	mux.HandleFunc("GET /api/v1/search", s.search)
	mux.HandleFunc("GET /api/v1/suggest", s.suggest)

	// Maintenance
	mux.HandleFunc("POST /api/v1/reindex", s.reindex)
	mux.HandleFunc("POST /api/v1/flush", s.flush)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Static files
	if s.deps.ImagesDir != "" {
		mux.Handle("GET /imgs/", http.StripPrefix("/imgs/", http.FileServer(http.Dir(s.deps.ImagesDir))))
	}
	if s.deps.AssetsDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.deps.AssetsDir))))
	}
}

// Handler returns the routes wrapped in the request ID middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return RequestID(mux)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeManagerError maps a manager error to its HTTP status.
func (s *Server) writeManagerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, library.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, library.ErrInconsistent):
		s.logger.Error("index drift", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INCONSISTENT", err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	return true
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) (int, bool) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, true
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return i, true
}

// pageParams reads offset and limit, clamping limit to maxPageSize.
func pageParams(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	offset, okOffset := queryInt(r, "offset", 0)
	limit, okLimit := queryInt(r, "limit", defaultPageSize)
	if !okOffset || !okLimit || offset < 0 || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative integers")
		return 0, 0, false
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit, true
}

// coverURL maps a cover path to the URL it is served under, or "" when the
// file lies outside the served directories.
func (s *Server) coverURL(path string) string {
	for _, m := range []struct{ dir, prefix string }{
		{s.deps.ImagesDir, "/imgs/"},
		{s.deps.AssetsDir, "/assets/"},
	} {
		if m.dir == "" {
			continue
		}
		rel, err := filepath.Rel(m.dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return m.prefix + filepath.ToSlash(rel)
	}
	return ""
}

// toResponse renders rec. Must be called with mu held.
func (s *Server) toResponse(rec *movie.Record) movieResponse {
	cover := rec.Cover.WithDefaults()
	return movieResponse{
		Title:        rec.Title(),
		Year:         rec.Year,
		Category:     rec.Category,
		Director:     rec.Director,
		Producer:     rec.Producer,
		Actors:       rec.Actors,
		Duration:     rec.Duration,
		DurationText: rec.DurationString(),
		VideoFile:    rec.VideoFile,
		Cover: coverResponse{
			Normal:    cover.Normal,
			Square:    cover.Square,
			NormalURL: s.coverURL(cover.Normal),
			SquareURL: s.coverURL(cover.Square),
		},
		Cached: s.deps.Manager.IsCached(rec.Title()),
	}
}
