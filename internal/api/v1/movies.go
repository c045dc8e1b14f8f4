package v1

import (
	"net/http"

	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/movie"
)

// listMovies serves a page of the catalog. Without filters or sorting the
// page is cut straight from catalog order; otherwise the whole catalog is
// selected and sorted first.
func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var cmp movie.Comparator
	if field := q.Get("sort"); field != "" {
		order := q.Get("order")
		if order != "" && order != "asc" && order != "desc" {
			writeError(w, http.StatusBadRequest, "INVALID_ORDER", "order must be asc or desc")
			return
		}
		c, known := movie.ByField(movie.SortField(field), order != "desc")
		if !known {
			writeError(w, http.StatusBadRequest, "INVALID_SORT", "unknown sort field: "+field)
			return
		}
		cmp = c
	}

	year, okYear := queryInt(r, "year", 0)
	yearDelta, okDelta := queryInt(r, "year_delta", 0)
	duration, okDuration := queryInt(r, "duration", 0)
	durationDelta, okDurationDelta := queryInt(r, "duration_delta", 0)
	if !okYear || !okDelta || !okDuration || !okDurationDelta {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", "year, year_delta, duration and duration_delta must be integers")
		return
	}

	filtered := cmp != nil || year != 0 || duration != 0 ||
		q.Get("category") != "" || q.Get("director") != "" || q.Get("title") != ""

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.deps.Manager
	var (
		records []*movie.Record
		total   int
	)
	if !filtered {
		records = m.Slice(offset, limit)
		total = m.Size()
	} else {
		all := m.Movies()
		if v := q.Get("title"); v != "" {
			all = movie.SelectByTitleFuzzy(all, v)
		}
		if v := q.Get("category"); v != "" {
			all = movie.SelectByCategory(all, v)
		}
		if v := q.Get("director"); v != "" {
			all = movie.SelectByDirector(all, v)
		}
		if year != 0 {
			all = movie.SelectByYear(all, year, yearDelta)
		}
		if duration != 0 {
			all = movie.SelectByDuration(all, duration, durationDelta)
		}
		if cmp != nil {
			movie.Sort(all, cmp)
		}
		total = len(all)
		records = window(all, offset, limit)
	}

	resp := listMoviesResponse{
		Items:  make([]movieResponse, len(records)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, rec := range records {
		resp.Items[i] = s.toResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

func window(records []*movie.Record, offset, limit int) []*movie.Record {
	if offset >= len(records) {
		return nil
	}
	end := min(offset+limit, len(records))
	return records[offset:end]
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.deps.Manager.Get(title)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	resp := s.toResponse(rec)
	text, err := rec.Synopsis()
	if err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	resp.Synopsis = &text
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}
	if req.Duration < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_DURATION", "duration must not be negative")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.deps.Manager
	if m.Exists(req.Title) {
		writeError(w, http.StatusConflict, "DUPLICATE", "Movie already exists")
		return
	}

	rec := movie.New(req.Title, movie.Direct(req.Synopsis))
	rec.Year = req.Year
	rec.Category = req.Category
	rec.Director = req.Director
	rec.Producer = req.Producer
	rec.Actors = req.Actors
	rec.Duration = req.Duration
	rec.VideoFile = req.VideoFile
	if req.CoverSource != "" {
		rec.Cover = s.createCover(req.CoverSource, req.Title)
	}

	if err := m.Add(rec); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	resp := s.toResponse(rec)
	resp.Synopsis = &req.Synopsis
	writeJSON(w, http.StatusCreated, resp)
}

// createCover runs the cover generator. Failures fall back to the
// placeholder; a missing poster never fails the request.
func (s *Server) createCover(src, title string) movie.Cover {
	if s.deps.Covers == nil {
		s.logger.Warn("cover source ignored, no generator configured", "title", title)
		return movie.DefaultCover()
	}
	c, err := s.deps.Covers.Create(src, title)
	if err != nil {
		return movie.DefaultCover()
	}
	return c
}

func (s *Server) updateMovie(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	var req updateMovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Duration != nil && *req.Duration < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_DURATION", "duration must not be negative")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.deps.Manager
	rec, ok := m.Get(title)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}

	patch := library.Patch{
		Year:      req.Year,
		Category:  req.Category,
		Director:  req.Director,
		Producer:  req.Producer,
		Actors:    req.Actors,
		Duration:  req.Duration,
		VideoFile: req.VideoFile,
	}
	if req.CoverSource != nil {
		c := s.createCover(*req.CoverSource, title)
		patch.Cover = &c
	}
	if err := m.Update(title, patch); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	if req.Synopsis != nil {
		if err := m.SetSynopsis(title, *req.Synopsis); err != nil {
			s.writeManagerError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.toResponse(rec))
}

// deleteMovie removes a movie. Deleting an absent title succeeds.
func (s *Server) deleteMovie(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Manager.Remove(title); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSynopsis(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.deps.Manager
	cached := m.IsCached(title)
	text, ok, err := m.Synopsis(title)
	if err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, synopsisResponse{Title: title, Synopsis: text, Cached: cached})
}

func (s *Server) setSynopsis(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	var req synopsisRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deps.Manager.SetSynopsis(title, req.Synopsis); err != nil {
		s.writeManagerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, synopsisResponse{Title: title, Synopsis: req.Synopsis})
}
