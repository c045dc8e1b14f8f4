package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoviesList_Table(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies").
		RespondJSON(ListMoviesResponse{
			Items: []MovieResponse{
				{Title: "Marius", Year: 1931, Category: "Comédie", Director: "Alexander Korda", DurationText: "2h 7min"},
				{Title: "Angèle", Category: "Drame", Director: "Marcel Pagnol", DurationText: "2h 30min"},
			},
			Total: 7,
		}).
		Build()

	out, err := runCommand(t, srv.URL, "movies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Marius")
	assert.Contains(t, out, "1931")
	assert.Contains(t, out, "2h 7min")
	assert.Contains(t, out, "Showing 1-2 of 7")
}

func TestMoviesList_Empty(t *testing.T) {
	srv := newMockServer(t).RespondJSON(ListMoviesResponse{}).Build()

	out, err := runCommand(t, srv.URL, "movies", "list")
	require.NoError(t, err)
	assert.Equal(t, "No movies\n", out)
}

func TestMoviesShow(t *testing.T) {
	synopsis := "Près de Tarascon, une abbaye abrite de vieux comédiens."
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/La Fin du jour").
		RespondJSON(MovieResponse{
			Title:        "La Fin du jour",
			Year:         1939,
			Director:     "Julien Duvivier",
			DurationText: "1h 48min",
			Synopsis:     &synopsis,
		}).
		Build()

	out, err := runCommand(t, srv.URL, "movies", "show", "La Fin du jour")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "La Fin du jour (1939)\n"))
	assert.Contains(t, out, "Julien Duvivier")
	assert.Contains(t, out, synopsis)
}

func TestMoviesShow_NotFound(t *testing.T) {
	srv := newMockServer(t).RespondAPIError(http.StatusNotFound, "NOT_FOUND", "Movie not found").Build()

	_, err := runCommand(t, srv.URL, "movies", "show", "Topaze")
	require.Error(t, err)
	assert.Equal(t, `no movie titled "Topaze"`, err.Error())
}

func TestMoviesEdit_OnlyChangedFlags(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/Regain").
		ExpectPUT().
		ExpectBody(map[string]any{"director": "Marcel Pagnol", "duration": float64(150)}).
		RespondJSON(MovieResponse{Title: "Regain"}).
		Build()

	out, err := runCommand(t, srv.URL, "movies", "edit", "Regain", "--director", "Marcel Pagnol", "--duration", "150")
	require.NoError(t, err)
	assert.Equal(t, "Updated Regain\n", out)
}

func TestMoviesRemove(t *testing.T) {
	srv := newMockServer(t).ExpectDELETE().ExpectPath("/api/v1/movies/Fanny").RespondStatus(http.StatusNoContent).Build()

	out, err := runCommand(t, srv.URL, "movies", "rm", "Fanny")
	require.NoError(t, err)
	assert.Equal(t, "Removed Fanny\n", out)
}

func TestSearch_NoResults(t *testing.T) {
	srv := newMockServer(t).
		ExpectQuery("q", "zorro est arrivé").
		RespondJSON(SearchResponse{Query: "zorro est arrivé"}).
		Build()

	out, err := runCommand(t, srv.URL, "search", "zorro", "est", "arrivé")
	require.NoError(t, err)
	assert.Equal(t, "No results for \"zorro est arrivé\"\n", out)
}

func TestSuggest(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/suggest").
		RespondJSON(SuggestResponse{Titles: []string{"Fanny", "La Fin du jour"}}).
		Build()

	out, err := runCommand(t, srv.URL, "suggest", "fan")
	require.NoError(t, err)
	assert.Equal(t, "Fanny\nLa Fin du jour\n", out)
}

func TestStatus(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		RespondJSON(StatusResponse{Status: "ok", Version: "1.0.0", Movies: 52, IndexDocuments: 52, IndexTerms: 910, Strategy: "page"}).
		Build()

	out, err := runCommand(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Movies:     52")
	assert.Contains(t, out, "Caching:    page")
	assert.Contains(t, out, "52 documents, 910 terms")
}

func TestFlush(t *testing.T) {
	srv := newMockServer(t).ExpectPOST().ExpectPath("/api/v1/flush").RespondJSON(StatusResponse{Movies: 3}).Build()

	out, err := runCommand(t, srv.URL, "flush")
	require.NoError(t, err)
	assert.Equal(t, "Flushed 3 movies\n", out)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "http://unused", "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[catalog]")

	_, err = runCommand(t, "http://unused", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTimeAgo(tt.d))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "César", truncate("César", 5))
	assert.Equal(t, "La Tri...", truncate("La Trilogie", 9))
	assert.Equal(t, "La", truncate("La Trilogie", 2))
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Title", "Year"}, [][]string{{"Marius", "1931"}, {"Fanny"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "Marius")
	assert.Contains(t, out, "1931")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestEvents_Table(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/events").
		ExpectQuery("type", "movie.removed").
		RespondJSON(ListEventsResponse{Items: []EventResponse{{
			ID: 7, EventType: "movie.removed", EntityType: "movie", EntityID: "Fanny",
			OccurredAt: time.Now().Add(-2 * time.Hour),
		}}, Total: 1}).
		Build()

	out, err := runCommand(t, srv.URL, "events", "--type", "movie.removed")
	require.NoError(t, err)
	assert.Contains(t, out, "movie.removed")
	assert.Contains(t, out, "Fanny")
	assert.Contains(t, out, "2h ago")
}

func TestMoviesHistory_Empty(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movies/Topaze/history").
		RespondJSON(ListEventsResponse{}).
		Build()

	out, err := runCommand(t, srv.URL, "movies", "history", "Topaze")
	require.NoError(t, err)
	assert.Equal(t, "No events\n", out)
}
