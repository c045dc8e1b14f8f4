package v1

import (
	"net/http"
)

const (
	defaultSearchLimit  = 20
	defaultSuggestLimit = 10
)

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "q is required")
		return
	}
	limit, ok := queryInt(r, "limit", defaultSearchLimit)
	if !ok || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.deps.Manager.Search(query, limit)
	if err != nil {
		s.writeManagerError(w, r, err)
		return
	}

	resp := searchResponse{Query: query, Results: make([]searchResult, len(results))}
	for i, res := range results {
		resp.Results[i] = searchResult{Movie: s.toResponse(res.Record), Score: res.Score}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, ok := queryInt(r, "limit", defaultSuggestLimit)
	if !ok || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return
	}

	s.mu.Lock()
	titles := s.deps.Manager.Suggest(query, limit)
	s.mu.Unlock()

	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Query: query, Titles: titles})
}

func (s *Server) reindex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Manager.ReindexAll(); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) flush(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Manager.Flush(); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.status())
}

// status must be called with mu held.
func (s *Server) status() statusResponse {
	stats := s.deps.Manager.Stats()
	return statusResponse{
		Status:         "ok",
		Version:        s.deps.Version,
		Movies:         stats.Movies,
		IndexTerms:     stats.IndexTerms,
		IndexDocuments: stats.IndexDocuments,
		Strategy:       stats.Strategy,
		CatalogPath:    s.deps.Manager.Path(),
	}
}

// Flush saves the catalog and the index while holding the server lock, so
// it is safe to call from background jobs.
func (s *Server) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Manager.Flush()
}
