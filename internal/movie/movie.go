// Package movie defines the movie record and the strategies used to source
// its synopsis.
package movie

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default cover paths, served from the assets directory.
const (
	DefaultNormalCover = "./assets/default_normal.jpg"
	DefaultSquareCover = "./assets/default_square.jpg"
)

// ErrNilProvider is returned when a provider change yields no provider.
var ErrNilProvider = errors.New("nil synopsis provider")

// Cover holds the two image derivatives of a movie poster.
type Cover struct {
	Normal string // 240x320
	Square string // 240x240
}

// DefaultCover returns the placeholder cover.
func DefaultCover() Cover {
	return Cover{Normal: DefaultNormalCover, Square: DefaultSquareCover}
}

// WithDefaults fills empty paths with the placeholder paths.
func (c Cover) WithDefaults() Cover {
	if c.Normal == "" {
		c.Normal = DefaultNormalCover
	}
	if c.Square == "" {
		c.Square = DefaultSquareCover
	}
	return c
}

// Record is a movie entry. The title is its identity and never changes; the
// other metadata fields may be edited in place.
type Record struct {
	title string

	Year      int
	Category  string
	Producer  string
	Director  string
	Actors    string
	Duration  int // minutes
	Cover     Cover
	VideoFile string

	synopsis Provider
}

// New creates a record owning p. A nil p is replaced by an empty Direct
// provider.
func New(title string, p Provider) *Record {
	if p == nil {
		p = Direct("")
	}
	return &Record{title: title, Cover: DefaultCover(), synopsis: p}
}

// Title returns the record's identity.
func (r *Record) Title() string { return r.title }

// Synopsis resolves the synopsis through the current provider.
func (r *Record) Synopsis() (string, error) { return r.synopsis.Synopsis() }

// SetSynopsis writes the synopsis through the current provider.
func (r *Record) SetSynopsis(text string) error { return r.synopsis.SetSynopsis(text) }

// Provider returns the provider currently owned by the record.
func (r *Record) Provider() Provider { return r.synopsis }

// ChangeProvider hands the current provider to fn and keeps what it returns.
// If fn returns nil the record keeps its current provider.
func (r *Record) ChangeProvider(fn func(old Provider) Provider) error {
	next := fn(r.synopsis)
	if next == nil {
		return fmt.Errorf("change provider of %q: %w", r.title, ErrNilProvider)
	}
	r.synopsis = next
	return nil
}

// Equal reports whether both records represent the same movie.
func (r *Record) Equal(o *Record) bool {
	return o != nil && r.title == o.title
}

// DurationString formats the duration as "2h 7min", or "45min" under an hour.
func (r *Record) DurationString() string {
	var b strings.Builder
	if h := r.Duration / 60; h != 0 {
		b.WriteString(strconv.Itoa(h))
		b.WriteString("h ")
	}
	b.WriteString(strconv.Itoa(r.Duration % 60))
	b.WriteString("min")
	return b.String()
}

// String returns a compact one-line description.
func (r *Record) String() string {
	parts := []string{r.title}
	for _, s := range []string{r.Director, r.Producer, r.Category, r.Actors} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, strconv.Itoa(r.Year))
	return strings.Join(parts, " - ")
}
