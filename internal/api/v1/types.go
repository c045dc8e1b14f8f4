// internal/api/v1/types.go
package v1

import (
	"time"

	"github.com/vmunix/reelbox/internal/catalog"
)

// coverResponse holds the filesystem paths and URLs of a movie poster.
type coverResponse struct {
	Normal    string `json:"normal"`
	Square    string `json:"square"`
	NormalURL string `json:"normal_url,omitempty"`
	SquareURL string `json:"square_url,omitempty"`
}

// movieResponse is the API representation of a movie.
type movieResponse struct {
	Title        string        `json:"title"`
	Year         int           `json:"year"`
	Category     string        `json:"category"`
	Director     string        `json:"director"`
	Producer     string        `json:"producer"`
	Actors       string        `json:"actors"`
	Duration     int           `json:"duration"`
	DurationText string        `json:"duration_text"`
	VideoFile    string        `json:"video_file"`
	Cover        coverResponse `json:"cover"`
	Synopsis     *string       `json:"synopsis,omitempty"`
	Cached       bool          `json:"cached"`
}

// listMoviesResponse is the response for GET /movies.
type listMoviesResponse struct {
	Items  []movieResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// addMovieRequest is the request body for POST /movies.
type addMovieRequest struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	Director    string `json:"director"`
	Producer    string `json:"producer"`
	Actors      string `json:"actors"`
	Duration    int    `json:"duration"`
	Synopsis    string `json:"synopsis"`
	VideoFile   string `json:"video_file"`
	CoverSource string `json:"cover_source"`
}

// updateMovieRequest is the request body for PUT /movies/{title}. Absent
// fields are left unchanged.
type updateMovieRequest struct {
	Year        *int    `json:"year"`
	Category    *string `json:"category"`
	Director    *string `json:"director"`
	Producer    *string `json:"producer"`
	Actors      *string `json:"actors"`
	Duration    *int    `json:"duration"`
	VideoFile   *string `json:"video_file"`
	Synopsis    *string `json:"synopsis"`
	CoverSource *string `json:"cover_source"`
}

type synopsisRequest struct {
	Synopsis string `json:"synopsis"`
}

type synopsisResponse struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Cached   bool   `json:"cached"` // cached before this read
}

type searchResult struct {
	Movie movieResponse `json:"movie"`
	Score float64       `json:"score"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type suggestResponse struct {
	Query  string   `json:"query"`
	Titles []string `json:"titles"`
}

type statusResponse struct {
	Status         string           `json:"status"`
	Version        string           `json:"version,omitempty"`
	Movies         int              `json:"movies"`
	IndexTerms     int              `json:"index_terms"`
	IndexDocuments int              `json:"index_documents"`
	Strategy       catalog.Strategy `json:"strategy"`
	CatalogPath    string           `json:"catalog_path"`
}

// EventResponse is a journaled event.
type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}
