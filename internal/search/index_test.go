package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitTitles(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Title
	}
	return out
}

func newMemoryIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"l", "ete", "a", "marseille", "1931"}, Tokenize("L'Été à Marseille (1931)"))
	assert.Empty(t, Tokenize(" ,;- "))
}

func TestSearch_FieldWeights(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "Raimu"}))
	require.NoError(t, idx.Add(Document{Title: "Marius", Actors: "Raimu, Pierre Fresnay"}))
	require.NoError(t, idx.Add(Document{Title: "Le Schpountz", Synopsis: "Irénée admire raimu."}))
	require.NoError(t, idx.Add(Document{Title: "Germinal", Director: "Claude Berri"}))

	hits, err := idx.Search("RAIMU", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Raimu", "Marius", "Le Schpountz"}, hitTitles(hits))
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
}

func TestSearch_AccentsAndLimit(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "César", Year: 1936}))
	require.NoError(t, idx.Add(Document{Title: "Fanny", Year: 1932}))
	require.NoError(t, idx.Add(Document{Title: "Marius", Year: 1931}))

	hits, err := idx.Search("cesar", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"César"}, hitTitles(hits))

	hits, err = idx.Search("1931 1932 1936", 2)
	require.NoError(t, err)
	// equal scores fall back to title order
	assert.Equal(t, []string{"César", "Fanny"}, hitTitles(hits))
}

func TestSearch_FuzzyExpansion(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "Marius"}))
	require.NoError(t, idx.Add(Document{Title: "Fanny"}))

	hits, err := idx.Search("mariu", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Marius"}, hitTitles(hits))

	hits, err = idx.Search("zzzz", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_EditRemoveClear(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "Angèle", Actors: "Fernandel"}))
	require.NoError(t, idx.Add(Document{Title: "Regain", Actors: "Fernandel"}))
	assert.Equal(t, 2, idx.DocumentCount())

	require.NoError(t, idx.Edit("Angèle", Document{Title: "Angèle", Actors: "Orane Demazis"}))
	hits, err := idx.Search("fernandel", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Regain"}, hitTitles(hits))

	require.NoError(t, idx.Remove("Regain"))
	require.NoError(t, idx.Remove("Regain"))
	assert.Equal(t, 1, idx.DocumentCount())
	hits, err = idx.Search("fernandel", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Clear())
	assert.Zero(t, idx.DocumentCount())
	assert.Zero(t, idx.TermCount())
}

func TestIndex_TitlesAreDistinctDocuments(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "Сталкер", Director: "Andreï Tarkovski"}))
	require.NoError(t, idx.Add(Document{Title: "Солярис", Director: "Andreï Tarkovski"}))
	require.NoError(t, idx.Add(Document{Title: "Alien!"}))
	require.NoError(t, idx.Add(Document{Title: "Alien?"}))
	assert.Equal(t, 4, idx.DocumentCount())

	hits, err := idx.Search("tarkovski", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Сталкер", "Солярис"}, hitTitles(hits))

	require.NoError(t, idx.Remove("Солярис"))
	require.NoError(t, idx.Remove("Alien?"))
	hits, err = idx.Search("tarkovski alien", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Сталкер", "Alien!"}, hitTitles(hits))
}

func TestIndex_TermCount(t *testing.T) {
	idx := newMemoryIndex(t)
	require.NoError(t, idx.Add(Document{Title: "La Femme du boulanger", Director: "Marcel Pagnol"}))
	require.NoError(t, idx.Add(Document{Title: "La Fille du puisatier", Director: "Marcel Pagnol"}))

	// la femme du boulanger fille puisatier marcel pagnol
	assert.Equal(t, 8, idx.TermCount())
}

func TestIndex_FlushPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "index.db")

	idx, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Add(Document{Title: "Topaze", Synopsis: "Un instituteur honnête."}))
	require.NoError(t, idx.Add(Document{Title: "Сталкер", Director: "Tarkovski"}))
	require.NoError(t, idx.Add(Document{Title: "Солярис", Director: "Tarkovski"}))
	require.NoError(t, idx.Flush())
	require.NoError(t, idx.Add(Document{Title: "Merlusse"}))
	require.NoError(t, idx.Close())

	idx, err = Open(path, nil)
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 3, idx.DocumentCount())
	hits, err := idx.Search("honnete", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Topaze"}, hitTitles(hits))
	hits, err = idx.Search("tarkovski", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Сталкер", "Солярис"}, hitTitles(hits))
}

func TestIndex_FlushAfterClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Add(Document{Title: "Topaze"}))
	require.NoError(t, idx.Flush())
	require.NoError(t, idx.Clear())
	require.NoError(t, idx.Flush())
	require.NoError(t, idx.Close())

	idx, err = Open(path, nil)
	require.NoError(t, err)
	defer idx.Close()
	assert.Zero(t, idx.DocumentCount())
}

func TestIndex_Closed(t *testing.T) {
	idx, err := Open("", nil)
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	assert.ErrorIs(t, idx.Add(Document{Title: "x"}), ErrClosed)
	assert.ErrorIs(t, idx.Flush(), ErrClosed)
	_, err = idx.Search("x", 1)
	assert.ErrorIs(t, err, ErrClosed)
}
