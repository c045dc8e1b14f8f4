package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reelbox/internal/movie"
)

func readSynopsis(t *testing.T, c Catalog, title string) string {
	t.Helper()
	rec, ok := c.Get(title)
	require.True(t, ok, "missing %s", title)
	s, err := rec.Synopsis()
	require.NoError(t, err)
	return s
}

func cachedTitles(c interface {
	Cache
	All() []*movie.Record
}) []string {
	var out []string
	for _, rec := range c.All() {
		if c.IsCached(rec.Title()) {
			out = append(out, rec.Title())
		}
	}
	return out
}

func rangeTitles(from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("f%d", i))
	}
	return out
}

func TestNewPerTitle_InvalidCapacity(t *testing.T) {
	_, err := NewPerTitle(writeStore(t, 1), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestPerTitle_LeastRecentlyUsed(t *testing.T) {
	c, err := NewPerTitle(writeStore(t, 6), 2, nil)
	require.NoError(t, err)
	assert.Empty(t, cachedTitles(c))

	for _, title := range []string{"f4", "f3", "f4", "f2"} {
		assert.Equal(t, "synopsis of "+title, readSynopsis(t, c, title))
	}

	assert.Equal(t, []string{"f2", "f4"}, cachedTitles(c))
}

func TestPerTitle_IsCachedKeepsRecency(t *testing.T) {
	c, err := NewPerTitle(writeStore(t, 3), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f0")
	readSynopsis(t, c, "f1")
	// f0 stays least recently used
	assert.True(t, c.IsCached("f0"))
	readSynopsis(t, c, "f2")

	assert.Equal(t, []string{"f1", "f2"}, cachedTitles(c))
}

func TestPerTitle_RemovePurgesCache(t *testing.T) {
	c, err := NewPerTitle(writeStore(t, 3), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f1")
	require.True(t, c.IsCached("f1"))

	c.Remove("f1")
	assert.False(t, c.IsCached("f1"))
	assert.False(t, c.Exists("f1"))

	_, ok, err := c.SynopsisFromCache("f1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPerTitle_AddedRecordUsesCache(t *testing.T) {
	c, err := NewPerTitle(writeStore(t, 1), 1, nil)
	require.NoError(t, err)

	rec := movie.New("Regain", movie.Direct("Panturle"))
	require.True(t, c.Add(rec))
	assert.IsType(t, &movie.CachedSynopsis{}, rec.Provider())

	assert.Equal(t, "Panturle", readSynopsis(t, c, "Regain"))
	assert.True(t, c.IsCached("Regain"))
}

func TestPerTitle_InvalidateAfterWrite(t *testing.T) {
	c, err := NewPerTitle(writeStore(t, 2), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, "synopsis of f1", readSynopsis(t, c, "f1"))

	rec, _ := c.Get("f1")
	require.NoError(t, rec.SetSynopsis("rewritten"))
	// the write bypasses the cache until the entry is dropped
	assert.Equal(t, "synopsis of f1", readSynopsis(t, c, "f1"))

	c.Invalidate("f1")
	assert.Equal(t, "rewritten", readSynopsis(t, c, "f1"))
}

func TestPerTitle_SaveToOwnStore(t *testing.T) {
	path := writeStore(t, 4)
	c, err := NewPerTitle(path, 1, nil)
	require.NoError(t, err)
	c.Add(movie.New("extra", movie.Direct("added later")))

	require.NoError(t, c.Save(path))

	reloaded, err := LoadBasic(path)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Size())
	assert.Equal(t, "synopsis of f3", readSynopsis(t, reloaded, "f3"))
	assert.Equal(t, "added later", readSynopsis(t, reloaded, "extra"))
}

func TestNewPerPage_InvalidCapacity(t *testing.T) {
	_, err := NewPerPage(writeStore(t, 1), -1, nil)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestPerPage_LoadsWholePage(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 52), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, "synopsis of f25", readSynopsis(t, c, "f25"))
	assert.Equal(t, rangeTitles(20, 29), cachedTitles(c))

	assert.Equal(t, "synopsis of f30", readSynopsis(t, c, "f30"))
	assert.Equal(t, rangeTitles(20, 39), cachedTitles(c))
}

func TestPerPage_PartialLastPage(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 52), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f20")
	readSynopsis(t, c, "f50")

	want := append(rangeTitles(20, 29), "f50", "f51")
	assert.Equal(t, want, cachedTitles(c))
}

func TestPerPage_EvictsLeastRecentlyUsedPage(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 52), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f0")
	readSynopsis(t, c, "f10")
	readSynopsis(t, c, "f5") // refreshes page 0
	readSynopsis(t, c, "f20")

	want := append(rangeTitles(0, 9), rangeTitles(20, 29)...)
	assert.Equal(t, want, cachedTitles(c))
}

func TestPerPage_RemoveDropsShiftedPages(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 52), 3, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f5")
	readSynopsis(t, c, "f25")
	readSynopsis(t, c, "f35")

	c.Remove("f25")

	assert.False(t, c.IsCached("f25"))
	assert.Equal(t, rangeTitles(0, 9), cachedTitles(c))
	// f30 now sits on page 2
	assert.Equal(t, "synopsis of f30", readSynopsis(t, c, "f30"))
	assert.True(t, c.IsCached("f20"))
}

func TestPerPage_AddedRecordFallsBackToProvider(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 11), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f10")
	require.True(t, c.Add(movie.New("Angèle", movie.Direct("Saturnin"))))
	assert.False(t, c.IsCached("Angèle"))

	assert.Equal(t, "Saturnin", readSynopsis(t, c, "Angèle"))
	assert.True(t, c.IsCached("Angèle"))
	assert.True(t, c.IsCached("f10"))
}

func TestPerPage_InvalidateAfterWrite(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 12), 2, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f11")
	rec, _ := c.Get("f11")
	require.NoError(t, rec.SetSynopsis("rewritten"))

	c.Invalidate("f11")
	assert.False(t, c.IsCached("f10"))
	assert.Equal(t, "rewritten", readSynopsis(t, c, "f11"))
}

func TestPerPage_InMemoryRecordIgnoresStaleStoreRow(t *testing.T) {
	path := writeStore(t, 3)
	c, err := NewPerPage(path, 2, nil)
	require.NoError(t, err)

	require.True(t, c.Add(movie.New("Angèle", movie.Direct("Saturnin"))))
	require.NoError(t, c.Save(path))

	rec, _ := c.Get("Angèle")
	require.NoError(t, rec.SetSynopsis("Albin"))
	c.Invalidate("Angèle")

	assert.Equal(t, "Albin", readSynopsis(t, c, "Angèle"))
	assert.Equal(t, "synopsis of f1", readSynopsis(t, c, "f1"))
}

func TestPerPage_LastDuplicateStoreRowWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	data := strings.Join(Columns, ",") + "\n" +
		"Regain,1937,Drame,Marcel Pagnol,,150,,première version,,,\n" +
		"Angèle,1934,Drame,Marcel Pagnol,,150,,Saturnin,,,\n" +
		"Regain,1937,Drame,Marcel Pagnol,,150,,version corrigée,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := NewPerPage(path, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 2, c.Size())

	text, ok, err := c.SynopsisFromCache("Regain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "version corrigée", text)
	assert.Equal(t, "Saturnin", readSynopsis(t, c, "Angèle"))
}

func TestPerPage_IsCachedFollowsPageKey(t *testing.T) {
	c, err := NewPerPage(writeStore(t, 15), 1, nil)
	require.NoError(t, err)

	readSynopsis(t, c, "f12")
	for _, title := range rangeTitles(10, 14) {
		assert.True(t, c.IsCached(title), title)
	}
	assert.False(t, c.IsCached("f9"))
	assert.False(t, c.IsCached("Topaze"))

	readSynopsis(t, c, "f3")
	assert.False(t, c.IsCached("f12"))
	assert.True(t, c.IsCached("f0"))
}
