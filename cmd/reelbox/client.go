package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the reelbox server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new reelbox API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Code = ""
			apiErr.Message = string(bytes.TrimSpace(respBody))
		}
		return apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body, result any) error {
	return c.do(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

func moviePath(title string) string {
	return "/api/v1/movies/" + url.PathEscape(title)
}

// API response types (mirror server types)

type CoverResponse struct {
	Normal    string `json:"normal"`
	Square    string `json:"square"`
	NormalURL string `json:"normal_url,omitempty"`
	SquareURL string `json:"square_url,omitempty"`
}

type MovieResponse struct {
	Title        string        `json:"title"`
	Year         int           `json:"year"`
	Category     string        `json:"category"`
	Director     string        `json:"director"`
	Producer     string        `json:"producer"`
	Actors       string        `json:"actors"`
	Duration     int           `json:"duration"`
	DurationText string        `json:"duration_text"`
	VideoFile    string        `json:"video_file"`
	Cover        CoverResponse `json:"cover"`
	Synopsis     *string       `json:"synopsis,omitempty"`
	Cached       bool          `json:"cached"`
}

type ListMoviesResponse struct {
	Items  []MovieResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type SynopsisResponse struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Cached   bool   `json:"cached"`
}

type SearchResult struct {
	Movie MovieResponse `json:"movie"`
	Score float64       `json:"score"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

type SuggestResponse struct {
	Query  string   `json:"query"`
	Titles []string `json:"titles"`
}

type StatusResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Movies         int    `json:"movies"`
	IndexTerms     int    `json:"index_terms"`
	IndexDocuments int    `json:"index_documents"`
	Strategy       string `json:"strategy"`
	CatalogPath    string `json:"catalog_path"`
}

type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// AddMovieRequest is the body of an add.
type AddMovieRequest struct {
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	Category    string `json:"category,omitempty"`
	Director    string `json:"director,omitempty"`
	Producer    string `json:"producer,omitempty"`
	Actors      string `json:"actors,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	Synopsis    string `json:"synopsis,omitempty"`
	VideoFile   string `json:"video_file,omitempty"`
	CoverSource string `json:"cover_source,omitempty"`
}

// UpdateMovieRequest is the body of a partial update. Nil fields are left
// unchanged.
type UpdateMovieRequest struct {
	Year        *int    `json:"year,omitempty"`
	Category    *string `json:"category,omitempty"`
	Director    *string `json:"director,omitempty"`
	Producer    *string `json:"producer,omitempty"`
	Actors      *string `json:"actors,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	VideoFile   *string `json:"video_file,omitempty"`
	Synopsis    *string `json:"synopsis,omitempty"`
	CoverSource *string `json:"cover_source,omitempty"`
}

// ListOptions filters and orders a movie listing.
type ListOptions struct {
	Offset    int
	Limit     int
	Sort      string
	Desc      bool
	Title     string
	Category  string
	Director  string
	Year      int
	YearDelta int
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
		if o.Desc {
			v.Set("order", "desc")
		}
	}
	if o.Title != "" {
		v.Set("title", o.Title)
	}
	if o.Category != "" {
		v.Set("category", o.Category)
	}
	if o.Director != "" {
		v.Set("director", o.Director)
	}
	if o.Year != 0 {
		v.Set("year", strconv.Itoa(o.Year))
		if o.YearDelta != 0 {
			v.Set("year_delta", strconv.Itoa(o.YearDelta))
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Movies(opts ListOptions) (*ListMoviesResponse, error) {
	var resp ListMoviesResponse
	if err := c.get("/api/v1/movies"+opts.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Movie(title string) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.get(moviePath(title), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddMovie(req AddMovieRequest) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.post("/api/v1/movies", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateMovie(title string, req UpdateMovieRequest) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.put(moviePath(title), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteMovie(title string) error {
	return c.delete(moviePath(title))
}

func (c *Client) Synopsis(title string) (*SynopsisResponse, error) {
	var resp SynopsisResponse
	if err := c.get(moviePath(title)+"/synopsis", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetSynopsis(title, text string) error {
	return c.put(moviePath(title)+"/synopsis", map[string]string{"synopsis": text}, nil)
}

func (c *Client) Search(query string, limit int) (*SearchResponse, error) {
	v := url.Values{"q": {query}}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var resp SearchResponse
	if err := c.get("/api/v1/search?"+v.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Suggest(pattern string, limit int) (*SuggestResponse, error) {
	v := url.Values{"q": {pattern}}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var resp SuggestResponse
	if err := c.get("/api/v1/suggest?"+v.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Reindex() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post("/api/v1/reindex", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Flush() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post("/api/v1/flush", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int, since time.Time, eventType string) (*ListEventsResponse, error) {
	v := url.Values{"limit": {strconv.Itoa(limit)}}
	if !since.IsZero() {
		v.Set("since", since.UTC().Format(time.RFC3339))
	}
	if eventType != "" {
		v.Set("type", eventType)
	}
	var resp ListEventsResponse
	if err := c.get("/api/v1/events?"+v.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MovieHistory(title string) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(moviePath(title)+"/history", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
