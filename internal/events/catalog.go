package events

// Entity types
const (
	EntityMovie   = "movie"
	EntityCatalog = "catalog"
)

// Event type constants
const (
	EventMovieAdded       = "movie.added"
	EventMovieRemoved     = "movie.removed"
	EventMovieUpdated     = "movie.updated"
	EventCatalogReindexed = "catalog.reindexed"
	EventCatalogFlushed   = "catalog.flushed"
)

// MovieAdded is emitted when a movie joins the catalog.
type MovieAdded struct {
	BaseEvent
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Category string `json:"category,omitempty"`
}

// NewMovieAdded builds a MovieAdded event.
func NewMovieAdded(title string, year int, category string) *MovieAdded {
	return &MovieAdded{
		BaseEvent: NewBaseEvent(EventMovieAdded, EntityMovie, title),
		Title:     title,
		Year:      year,
		Category:  category,
	}
}

// MovieRemoved is emitted when a movie leaves the catalog.
type MovieRemoved struct {
	BaseEvent
	Title string `json:"title"`
}

// NewMovieRemoved builds a MovieRemoved event.
func NewMovieRemoved(title string) *MovieRemoved {
	return &MovieRemoved{
		BaseEvent: NewBaseEvent(EventMovieRemoved, EntityMovie, title),
		Title:     title,
	}
}

// MovieUpdated is emitted when a movie's metadata or synopsis changes.
type MovieUpdated struct {
	BaseEvent
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// NewMovieUpdated builds a MovieUpdated event.
func NewMovieUpdated(title string, fields ...string) *MovieUpdated {
	return &MovieUpdated{
		BaseEvent: NewBaseEvent(EventMovieUpdated, EntityMovie, title),
		Title:     title,
		Fields:    fields,
	}
}

// CatalogReindexed is emitted after the whole index is rebuilt.
type CatalogReindexed struct {
	BaseEvent
	Movies int `json:"movies"`
}

// NewCatalogReindexed builds a CatalogReindexed event for the store at path.
func NewCatalogReindexed(path string, movies int) *CatalogReindexed {
	return &CatalogReindexed{
		BaseEvent: NewBaseEvent(EventCatalogReindexed, EntityCatalog, path),
		Movies:    movies,
	}
}

// CatalogFlushed is emitted after the catalog and index are persisted.
type CatalogFlushed struct {
	BaseEvent
	Movies int `json:"movies"`
}

// NewCatalogFlushed builds a CatalogFlushed event for the store at path.
func NewCatalogFlushed(path string, movies int) *CatalogFlushed {
	return &CatalogFlushed{
		BaseEvent: NewBaseEvent(EventCatalogFlushed, EntityCatalog, path),
		Movies:    movies,
	}
}
