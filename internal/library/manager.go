// Package library keeps the movie catalog and the search index in step.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/vmunix/reelbox/internal/catalog"
	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/movie"
	"github.com/vmunix/reelbox/internal/search"
)

//go:generate mockgen -source=manager.go -destination=mocks/mock_manager.go -package=mocks

// Index is the full-text index kept in sync with the catalog.
type Index interface {
	Add(doc search.Document) error
	Edit(oldTitle string, doc search.Document) error
	Remove(title string) error
	Clear() error
	Flush() error
	Search(query string, limit int) ([]search.Hit, error)
	TermCount() int
	DocumentCount() int
	Close() error
}

// Recorder journals catalog mutations.
type Recorder interface {
	Publish(ctx context.Context, e events.Event) error
}

// Result is a search hit resolved to its catalog record.
type Result struct {
	Record *movie.Record
	Score  float64
}

// Stats summarises the catalog and the index.
type Stats struct {
	Movies         int
	IndexTerms     int
	IndexDocuments int
	Strategy       catalog.Strategy
}

// Manager owns a catalog and its index. Every mutation goes through the
// index first so a failed index write leaves the catalog unchanged.
// A Manager is not safe for concurrent use.
type Manager struct {
	catalog  catalog.Catalog
	index    Index
	path     string
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder journals mutations through r.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New wraps an open catalog and index. path is where Flush saves the catalog.
func New(cat catalog.Catalog, idx Index, path string, opts ...Option) *Manager {
	m := &Manager{
		catalog: cat,
		index:   idx,
		path:    path,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "library")
	return m
}

// Options configures Open.
type Options struct {
	CatalogPath string
	IndexPath   string // "" keeps the index in memory
	Strategy    catalog.Strategy
	CacheSize   int
	Recorder    Recorder
	Logger      *slog.Logger
}

// Open creates the catalog store when missing, loads it with the configured
// strategy and opens the index. An index whose document count differs from
// the catalog size is rebuilt.
func Open(opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := catalog.EnsureStore(opts.CatalogPath); err != nil {
		return nil, err
	}
	cat, err := catalog.Open(opts.CatalogPath, opts.Strategy, opts.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	idx, err := search.Open(opts.IndexPath, logger)
	if err != nil {
		return nil, err
	}

	m := New(cat, idx, opts.CatalogPath, WithRecorder(opts.Recorder), WithLogger(logger))
	if idx.DocumentCount() != cat.Size() {
		m.logger.Info("rebuilding index", "movies", cat.Size(), "documents", idx.DocumentCount())
		if err := m.ReindexAll(); err != nil {
			_ = idx.Close()
			return nil, err
		}
	}
	return m, nil
}

func document(rec *movie.Record) (search.Document, error) {
	synopsis, err := rec.Synopsis()
	if err != nil {
		return search.Document{}, err
	}
	return search.Document{
		Title:    rec.Title(),
		Year:     rec.Year,
		Category: rec.Category,
		Director: rec.Director,
		Producer: rec.Producer,
		Actors:   rec.Actors,
		Synopsis: synopsis,
	}, nil
}

func (m *Manager) publish(e events.Event) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Publish(context.Background(), e); err != nil {
		m.logger.Warn("journal event failed", "type", e.EventType(), "error", err)
	}
}

// Add indexes rec and then appends it to the catalog.
func (m *Manager) Add(rec *movie.Record) error {
	if m.catalog.Exists(rec.Title()) {
		return fmt.Errorf("add %q: %w", rec.Title(), ErrDuplicate)
	}
	doc, err := document(rec)
	if err != nil {
		return fmt.Errorf("add %q: %w", rec.Title(), err)
	}
	if err := m.index.Add(doc); err != nil {
		return fmt.Errorf("add %q: index: %w", rec.Title(), err)
	}
	m.catalog.Add(rec)

	m.logger.Debug("movie added", "title", rec.Title())
	m.publish(events.NewMovieAdded(rec.Title(), rec.Year, rec.Category))
	return nil
}

// Remove drops title from the index and then from the catalog. An absent
// title is a no-op.
func (m *Manager) Remove(title string) error {
	if !m.catalog.Exists(title) {
		return nil
	}
	if err := m.index.Remove(title); err != nil {
		return fmt.Errorf("remove %q: index: %w", title, err)
	}
	m.catalog.Remove(title)

	m.logger.Debug("movie removed", "title", title)
	m.publish(events.NewMovieRemoved(title))
	return nil
}

// Reindex refreshes the index document of title from its current record.
func (m *Manager) Reindex(title string) error {
	rec, ok := m.catalog.Get(title)
	if !ok {
		return fmt.Errorf("reindex %q: %w", title, ErrNotFound)
	}
	doc, err := document(rec)
	if err != nil {
		return fmt.Errorf("reindex %q: %w", title, err)
	}
	if err := m.index.Edit(title, doc); err != nil {
		return fmt.Errorf("reindex %q: index: %w", title, err)
	}
	return nil
}

// ReindexAll rebuilds the index from every catalog record.
func (m *Manager) ReindexAll() error {
	if err := m.index.Clear(); err != nil {
		return fmt.Errorf("reindex: clear: %w", err)
	}
	for _, rec := range m.catalog.All() {
		doc, err := document(rec)
		if err != nil {
			return fmt.Errorf("reindex %q: %w", rec.Title(), err)
		}
		if err := m.index.Add(doc); err != nil {
			return fmt.Errorf("reindex %q: index: %w", rec.Title(), err)
		}
	}
	m.logger.Info("index rebuilt", "movies", m.catalog.Size())
	m.publish(events.NewCatalogReindexed(m.path, m.catalog.Size()))
	return nil
}

// Flush saves the catalog and flushes the index.
func (m *Manager) Flush() error {
	if err := m.catalog.Save(m.path); err != nil {
		return err
	}
	if err := m.index.Flush(); err != nil {
		return err
	}
	m.logger.Debug("catalog flushed", "path", m.path, "movies", m.catalog.Size())
	m.publish(events.NewCatalogFlushed(m.path, m.catalog.Size()))
	return nil
}

// Close flushes and closes the index. The index is closed even when the
// flush fails.
func (m *Manager) Close() error {
	flushErr := m.Flush()
	return errors.Join(flushErr, m.index.Close())
}

// Search resolves every index hit to its catalog record. A hit without a
// record means the index drifted from the catalog.
func (m *Manager) Search(query string, limit int) ([]Result, error) {
	hits, err := m.index.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		rec, ok := m.catalog.Get(h.Title)
		if !ok {
			return nil, &ConsistencyError{Title: h.Title}
		}
		results = append(results, Result{Record: rec, Score: h.Score})
	}
	return results, nil
}

// Suggest returns up to limit titles fuzzily matching pattern, best first.
func (m *Manager) Suggest(pattern string, limit int) []string {
	if pattern == "" {
		return nil
	}
	records := m.catalog.All()
	titles := make([]string, len(records))
	for i, rec := range records {
		titles[i] = rec.Title()
	}

	matches := fuzzy.Find(pattern, titles)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Str
	}
	return out
}

// SetSynopsis writes text through the record's provider, drops any cached
// copy and reindexes the record.
func (m *Manager) SetSynopsis(title, text string) error {
	rec, ok := m.catalog.Get(title)
	if !ok {
		return fmt.Errorf("set synopsis of %q: %w", title, ErrNotFound)
	}
	if err := rec.SetSynopsis(text); err != nil {
		return err
	}
	if c, ok := m.catalog.(catalog.Cache); ok {
		c.Invalidate(title)
	}
	if err := m.Reindex(title); err != nil {
		return err
	}
	m.publish(events.NewMovieUpdated(title, movie.SynopsisColumn))
	return nil
}

// Synopsis returns the synopsis of title. ok is false when title is absent.
func (m *Manager) Synopsis(title string) (text string, ok bool, err error) {
	rec, ok := m.catalog.Get(title)
	if !ok {
		return "", false, nil
	}
	text, err = rec.Synopsis()
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}

// Update applies p to the record of title and reindexes it.
func (m *Manager) Update(title string, p Patch) error {
	rec, ok := m.catalog.Get(title)
	if !ok {
		return fmt.Errorf("update %q: %w", title, ErrNotFound)
	}
	fields := p.apply(rec)
	if len(fields) == 0 {
		return nil
	}
	if err := m.Reindex(title); err != nil {
		return err
	}
	m.publish(events.NewMovieUpdated(title, fields...))
	return nil
}

func (m *Manager) Exists(title string) bool { return m.catalog.Exists(title) }

func (m *Manager) Get(title string) (*movie.Record, bool) { return m.catalog.Get(title) }

// Movies returns every record in catalog order.
func (m *Manager) Movies() []*movie.Record { return m.catalog.All() }

// Slice returns up to count records starting at offset.
func (m *Manager) Slice(offset, count int) []*movie.Record { return m.catalog.Slice(offset, count) }

func (m *Manager) Size() int { return m.catalog.Size() }

// IsCached reports whether the synopsis of title is cached. Always false for
// uncached catalogs.
func (m *Manager) IsCached(title string) bool {
	c, ok := m.catalog.(catalog.Cache)
	return ok && c.IsCached(title)
}

// Strategy names the catalog variant in use.
func (m *Manager) Strategy() catalog.Strategy {
	switch m.catalog.(type) {
	case *catalog.PerTitle:
		return catalog.StrategyTitle
	case *catalog.PerPage:
		return catalog.StrategyPage
	}
	return catalog.StrategyNone
}

func (m *Manager) Stats() Stats {
	return Stats{
		Movies:         m.catalog.Size(),
		IndexTerms:     m.index.TermCount(),
		IndexDocuments: m.index.DocumentCount(),
		Strategy:       m.Strategy(),
	}
}

// Path returns the catalog store path.
func (m *Manager) Path() string { return m.path }
