package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventMovieAdded, func() Event { return &MovieAdded{} })

	raw := RawEvent{
		EventType: EventMovieAdded,
		Payload:   `{"type":"movie.added","entity_type":"movie","entity_id":"Regain","occurred_at":"2024-01-01T00:00:00Z","title":"Regain","year":1937}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	added, ok := event.(*MovieAdded)
	require.True(t, ok)
	assert.Equal(t, "Regain", added.Title)
	assert.Equal(t, 1937, added.Year)
	assert.Equal(t, "Regain", added.EntityID())
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: "unknown.event", Payload: `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventMovieRemoved, func() Event { return &MovieRemoved{} })

	_, err := registry.Unmarshal(RawEvent{EventType: EventMovieRemoved, Payload: `{invalid json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	registry := DefaultRegistry()

	published := []Event{
		NewMovieAdded("Angèle", 1934, "drame"),
		NewMovieRemoved("Angèle"),
		NewMovieUpdated("Regain", "synopsis"),
		NewCatalogReindexed("movies.csv", 3),
		NewCatalogFlushed("movies.csv", 3),
	}
	for _, e := range published {
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	raws, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, raws, len(published))
	for _, raw := range raws {
		e, err := registry.Unmarshal(raw)
		require.NoError(t, err, raw.EventType)
		assert.Equal(t, raw.EventType, e.EventType())
		assert.Equal(t, raw.EntityID, e.EntityID())
	}
}

func TestDefaultRegistry_Known(t *testing.T) {
	r := DefaultRegistry()
	assert.True(t, r.Known(EventMovieAdded))
	assert.True(t, r.Known(EventCatalogFlushed))
	assert.False(t, r.Known("movie.exploded"))
}
