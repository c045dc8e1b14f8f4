package catalog

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/vmunix/reelbox/internal/movie"
)

// PerTitle keeps synopses in the backing store and caches the most recently
// read ones, one entry per title.
type PerTitle struct {
	*Basic
	path   string
	cache  *simplelru.LRU[string, string]
	logger *slog.Logger
}

// NewPerTitle loads the store at path. Every loaded record reads its synopsis
// through the cache, falling back to the store row.
func NewPerTitle(path string, capacity int, logger *slog.Logger) (*PerTitle, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("per-title catalog: %w", ErrInvalidCapacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &PerTitle{
		Basic:  NewBasic(),
		path:   path,
		logger: logger.With("component", "catalog", "strategy", string(StrategyTitle)),
	}
	lru, err := simplelru.NewLRU[string, string](capacity, func(title string, _ string) {
		cacheEvictions.WithLabelValues(string(StrategyTitle)).Inc()
		c.logger.Debug("dropped cached synopsis", "title", title)
	})
	if err != nil {
		return nil, fmt.Errorf("per-title catalog: %w", err)
	}
	c.cache = lru

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

// Add wraps the provider of rec so reads go through the cache.
func (c *PerTitle) Add(rec *movie.Record) bool {
	if c.Exists(rec.Title()) {
		return false
	}
	_ = rec.ChangeProvider(func(old movie.Provider) movie.Provider {
		return movie.NewCached(rec.Title(), movie.BaseProvider(old), c.SynopsisFromCache)
	})
	return c.Basic.Add(rec)
}

// Remove drops the record and its cache entry.
func (c *PerTitle) Remove(title string) {
	c.cache.Remove(title)
	c.Basic.Remove(title)
}

// SynopsisFromCache returns the cached synopsis of title, reading it from the
// record's base provider on a miss. ok is false when title is not in the
// catalog.
func (c *PerTitle) SynopsisFromCache(title string) (string, bool, error) {
	if text, ok := c.cache.Get(title); ok {
		cacheHits.WithLabelValues(string(StrategyTitle)).Inc()
		return text, true, nil
	}
	rec, ok := c.Get(title)
	if !ok {
		return "", false, nil
	}
	cacheMisses.WithLabelValues(string(StrategyTitle)).Inc()

	text, err := movie.BaseProvider(rec.Provider()).Synopsis()
	if err != nil {
		return "", false, err
	}
	c.cache.Add(title, text)
	return text, true, nil
}

// IsCached reports whether title has a cache entry. It does not affect
// recency.
func (c *PerTitle) IsCached(title string) bool {
	return c.cache.Contains(title)
}

// Invalidate drops the cache entry of title.
func (c *PerTitle) Invalidate(title string) {
	c.cache.Remove(title)
}

