// Package catalog holds the in-memory movie collection and its persistence to
// the CSV backing store, with optional LRU caching of synopses.
package catalog

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vmunix/reelbox/internal/csvstore"
	"github.com/vmunix/reelbox/internal/movie"
)

// Catalog is an insertion-ordered collection of records, unique by title.
type Catalog interface {
	// Add appends rec unless a record with the same title exists. It reports
	// whether rec was added.
	Add(rec *movie.Record) bool
	// Remove drops the record with title, if any.
	Remove(title string)
	Get(title string) (*movie.Record, bool)
	Exists(title string) bool
	Position(title string) (int, bool)
	// Slice returns up to count records starting at offset.
	Slice(offset, count int) []*movie.Record
	All() []*movie.Record
	Size() int
	// Save writes every record to the store at path.
	Save(path string) error
}

// Cache is implemented by catalogs that cache synopses.
type Cache interface {
	SynopsisFromCache(title string) (string, bool, error)
	IsCached(title string) bool
	Invalidate(title string)
}

// Strategy selects the catalog variant.
type Strategy string

const (
	StrategyNone  Strategy = "none"
	StrategyTitle Strategy = "title"
	StrategyPage  Strategy = "page"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyNone, StrategyTitle, StrategyPage:
		return true
	}
	return false
}

// Open loads the store at path into the variant named by strategy.
// capacity is ignored for StrategyNone.
func Open(path string, strategy Strategy, capacity int, logger *slog.Logger) (Catalog, error) {
	var (
		c   Catalog
		err error
	)
	switch strategy {
	case StrategyNone, "":
		c, err = LoadBasic(path)
	case StrategyTitle:
		c, err = NewPerTitle(path, capacity, logger)
	case StrategyPage:
		c, err = NewPerPage(path, capacity, logger)
	default:
		return nil, fmt.Errorf("unknown catalog strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Basic keeps every record in memory with in-memory synopses.
type Basic struct {
	records []*movie.Record
	index   map[string]int
}

// NewBasic returns an empty catalog.
func NewBasic() *Basic {
	return &Basic{index: make(map[string]int)}
}

// LoadBasic reads the store at path. Records get Direct providers holding the
// stored synopsis.
func LoadBasic(path string) (*Basic, error) {
	c := NewBasic()
	err := readStore(path, func(rec *movie.Record, synopsis string) {
		_ = rec.ChangeProvider(func(movie.Provider) movie.Provider { return movie.Direct(synopsis) })
		c.Add(rec)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Basic) Add(rec *movie.Record) bool {
	if _, ok := c.index[rec.Title()]; ok {
		return false
	}
	c.index[rec.Title()] = len(c.records)
	c.records = append(c.records, rec)
	return true
}

func (c *Basic) Remove(title string) {
	pos, ok := c.index[title]
	if !ok {
		return
	}
	delete(c.index, title)
	copy(c.records[pos:], c.records[pos+1:])
	c.records[len(c.records)-1] = nil
	c.records = c.records[:len(c.records)-1]
	for i := pos; i < len(c.records); i++ {
		c.index[c.records[i].Title()] = i
	}
}

func (c *Basic) Get(title string) (*movie.Record, bool) {
	pos, ok := c.index[title]
	if !ok {
		return nil, false
	}
	return c.records[pos], true
}

func (c *Basic) Exists(title string) bool {
	_, ok := c.index[title]
	return ok
}

func (c *Basic) Position(title string) (int, bool) {
	pos, ok := c.index[title]
	return pos, ok
}

func (c *Basic) Slice(offset, count int) []*movie.Record {
	if offset < 0 || count <= 0 || offset >= len(c.records) {
		return nil
	}
	end := min(offset+count, len(c.records))
	out := make([]*movie.Record, end-offset)
	copy(out, c.records[offset:end])
	return out
}

func (c *Basic) All() []*movie.Record {
	out := make([]*movie.Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Basic) Size() int { return len(c.records) }

// Save replaces the store at path. The previous file stays readable until the
// new one is complete, so store-backed providers may read it while saving.
func (c *Basic) Save(path string) error {
	err := csvstore.WriteAtomic(path, func(w *csvstore.Writer) error {
		if err := w.WriteRow(Columns...); err != nil {
			return err
		}
		for _, rec := range c.records {
			synopsis, err := rec.Synopsis()
			if err != nil {
				return err
			}
			err = w.WriteRow(
				rec.Title(),
				strconv.Itoa(rec.Year),
				rec.Category,
				rec.Director,
				rec.Producer,
				strconv.Itoa(rec.Duration),
				rec.Actors,
				synopsis,
				rec.VideoFile,
				rec.Cover.Normal,
				rec.Cover.Square,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
