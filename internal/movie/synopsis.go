package movie

import (
	"fmt"

	"github.com/vmunix/reelbox/internal/csvstore"
)

// Store column names used by the synopsis providers.
const (
	TitleColumn    = "title"
	SynopsisColumn = "synopsis"
)

// Provider sources the synopsis of one movie.
type Provider interface {
	Synopsis() (string, error)
	SetSynopsis(text string) error
}

// DirectSynopsis keeps the text in memory.
type DirectSynopsis struct {
	text string
}

// Direct returns an in-memory provider holding text.
func Direct(text string) *DirectSynopsis {
	return &DirectSynopsis{text: text}
}

func (d *DirectSynopsis) Synopsis() (string, error) { return d.text, nil }

func (d *DirectSynopsis) SetSynopsis(text string) error {
	d.text = text
	return nil
}

// StoreSynopsis reads and writes the synopsis column of the store row keyed by
// title. Nothing is held in memory.
type StoreSynopsis struct {
	title string
	path  string
}

// FromStore returns a provider backed by the store at path.
func FromStore(title, path string) *StoreSynopsis {
	return &StoreSynopsis{title: title, path: path}
}

// Synopsis returns the stored text, or "" when the store has no row for the
// title.
func (s *StoreSynopsis) Synopsis() (string, error) {
	text, _, err := csvstore.GetField(s.path, s.title, TitleColumn, SynopsisColumn)
	if err != nil {
		return "", fmt.Errorf("synopsis of %q: %w", s.title, err)
	}
	return text, nil
}

// SetSynopsis rewrites the store with the new text.
func (s *StoreSynopsis) SetSynopsis(text string) error {
	if err := csvstore.EditField(s.path, s.title, text, TitleColumn, SynopsisColumn); err != nil {
		return fmt.Errorf("set synopsis of %q: %w", s.title, err)
	}
	return nil
}

// LookupFunc consults a cache owned by a catalog. ok is false on a miss.
type LookupFunc func(title string) (text string, ok bool, err error)

// CachedSynopsis answers reads from a lookup and falls back to its base
// provider. Writes go straight to the base provider and do not touch the
// cache, so a cached value can be stale until it is evicted or invalidated by
// the writer.
type CachedSynopsis struct {
	title  string
	base   Provider
	lookup LookupFunc
}

// NewCached wraps base.
func NewCached(title string, base Provider, lookup LookupFunc) *CachedSynopsis {
	return &CachedSynopsis{title: title, base: base, lookup: lookup}
}

func (c *CachedSynopsis) Synopsis() (string, error) {
	text, ok, err := c.lookup(c.title)
	if err != nil {
		return "", err
	}
	if ok {
		return text, nil
	}
	return c.base.Synopsis()
}

func (c *CachedSynopsis) SetSynopsis(text string) error {
	return c.base.SetSynopsis(text)
}

// Base returns the wrapped provider.
func (c *CachedSynopsis) Base() Provider { return c.base }

// BaseProvider unwraps a cached provider; any other provider is returned as is.
func BaseProvider(p Provider) Provider {
	if c, ok := p.(*CachedSynopsis); ok {
		return c.base
	}
	return p
}
