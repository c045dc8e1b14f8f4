package catalog

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/vmunix/reelbox/internal/csvstore"
	"github.com/vmunix/reelbox/internal/movie"
)

// PageSize is the number of consecutive records cached together.
const PageSize = 10

// PerPage keeps synopses in the backing store and caches them a page at a
// time. Page p holds the records at positions [p*PageSize, (p+1)*PageSize).
type PerPage struct {
	*Basic
	path   string
	pages  *simplelru.LRU[int, map[string]string]
	logger *slog.Logger
}

// NewPerPage loads the store at path with room for capacity cached pages.
func NewPerPage(path string, capacity int, logger *slog.Logger) (*PerPage, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("per-page catalog: %w", ErrInvalidCapacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &PerPage{
		Basic:  NewBasic(),
		path:   path,
		logger: logger.With("component", "catalog", "strategy", string(StrategyPage)),
	}
	lru, err := simplelru.NewLRU[int, map[string]string](capacity, func(page int, _ map[string]string) {
		cacheEvictions.WithLabelValues(string(StrategyPage)).Inc()
		c.logger.Debug("dropped cached page", "page", page)
	})
	if err != nil {
		return nil, fmt.Errorf("per-page catalog: %w", err)
	}
	c.pages = lru

	err = readStore(path, func(rec *movie.Record, _ string) {
		_ = rec.ChangeProvider(func(movie.Provider) movie.Provider {
			return movie.FromStore(rec.Title(), path)
		})
		c.Add(rec)
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("catalog loaded", "movies", c.Size(), "capacity", capacity)
	return c, nil
}

// Add wraps the provider of rec so reads go through the page cache. The page
// the record lands on is dropped since its cached copy lacks the record.
func (c *PerPage) Add(rec *movie.Record) bool {
	if c.Exists(rec.Title()) {
		return false
	}
	_ = rec.ChangeProvider(func(old movie.Provider) movie.Provider {
		return movie.NewCached(rec.Title(), movie.BaseProvider(old), c.SynopsisFromCache)
	})
	c.pages.Remove(c.Size() / PageSize)
	return c.Basic.Add(rec)
}

// Remove drops the record. Every later record shifts back one position, so
// the cached pages from the removed position onwards are dropped too.
func (c *PerPage) Remove(title string) {
	pos, ok := c.Position(title)
	if !ok {
		return
	}
	c.Basic.Remove(title)
	first := pos / PageSize
	for _, page := range c.pages.Keys() {
		if page >= first {
			c.pages.Remove(page)
		}
	}
}

// SynopsisFromCache returns the synopsis of title from its cached page,
// loading the page on a miss. ok is false when title is not in the catalog.
func (c *PerPage) SynopsisFromCache(title string) (string, bool, error) {
	pos, ok := c.Position(title)
	if !ok {
		return "", false, nil
	}
	page := pos / PageSize
	if entries, ok := c.pages.Get(page); ok {
		if text, ok := entries[title]; ok {
			cacheHits.WithLabelValues(string(StrategyPage)).Inc()
			return text, true, nil
		}
	}
	cacheMisses.WithLabelValues(string(StrategyPage)).Inc()

	c.pages.Remove(page)
	entries, err := c.loadPage(page)
	if err != nil {
		return "", false, err
	}
	c.pages.Add(page, entries)
	return entries[title], true, nil
}

// loadPage reads the synopses of the store-backed records on page in one
// pass over the store. Other records, and those without a store row, use
// their base provider.
func (c *PerPage) loadPage(page int) (map[string]string, error) {
	records := c.Slice(page*PageSize, PageSize)
	entries := make(map[string]string, len(records))
	wanted := make(map[string]bool, len(records))
	for _, rec := range records {
		if _, ok := movie.BaseProvider(rec.Provider()).(*movie.StoreSynopsis); ok {
			wanted[rec.Title()] = true
		}
	}
	if len(wanted) > 0 {
		if err := c.scanStore(wanted, entries); err != nil {
			return nil, fmt.Errorf("load page %d: %w", page, err)
		}
	}

	for _, rec := range records {
		if _, ok := entries[rec.Title()]; ok {
			continue
		}
		text, err := movie.BaseProvider(rec.Provider()).Synopsis()
		if err != nil {
			return nil, fmt.Errorf("load page %d: %w", page, err)
		}
		entries[rec.Title()] = text
	}
	c.logger.Debug("loaded page", "page", page, "movies", len(entries))
	return entries, nil
}

// scanStore fills entries with the stored synopsis of every wanted title.
// The whole store is read; when a title has several rows the last one wins.
func (c *PerPage) scanStore(wanted map[string]bool, entries map[string]string) error {
	var h csvstore.Header
	return csvstore.ReadFile(c.path, func(_ int, row []string) error {
		if h == nil {
			var err error
			h, err = csvstore.ParseHeader(row, movie.TitleColumn, movie.SynopsisColumn)
			return err
		}
		title := h.Field(row, movie.TitleColumn)
		if wanted[title] {
			entries[title] = h.Field(row, movie.SynopsisColumn)
		}
		return nil
	})
}

// IsCached reports whether the page currently holding title is cached. It
// does not affect recency.
func (c *PerPage) IsCached(title string) bool {
	pos, ok := c.Position(title)
	return ok && c.pages.Contains(pos/PageSize)
}

// Invalidate drops the page holding title.
func (c *PerPage) Invalidate(title string) {
	if pos, ok := c.Position(title); ok {
		c.pages.Remove(pos / PageSize)
	}
}

