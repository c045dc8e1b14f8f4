package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/reelbox/internal/events"
)

// listEvents returns the journal. With since (RFC 3339) it lists events from
// that instant oldest first; otherwise the latest limit events newest first.
// type keeps only events of one registered type.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", defaultPageSize)
	if !ok || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be a non-negative integer")
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	eventType := r.URL.Query().Get("type")
	if eventType != "" && !s.registry.Known(eventType) {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "unknown event type: "+eventType)
		return
	}

	var (
		raw []events.RawEvent
		err error
	)
	if v := r.URL.Query().Get("since"); v != "" {
		since, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		raw, err = s.deps.EventLog.Since(since)
	} else if eventType != "" {
		raw, err = s.deps.EventLog.Recent(maxPageSize)
	} else {
		raw, err = s.deps.EventLog.Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	if eventType != "" {
		kept := raw[:0]
		for _, e := range raw {
			if e.EventType == eventType {
				kept = append(kept, e)
			}
		}
		raw = kept
	}
	if len(raw) > limit {
		raw = raw[:limit]
	}

	writeJSON(w, http.StatusOK, s.eventList(raw))
}

// movieHistory returns every journaled event of one title, oldest first. It
// also answers for titles that have since been removed.
func (s *Server) movieHistory(w http.ResponseWriter, r *http.Request) {
	raw, err := s.deps.EventLog.ForEntity(events.EntityMovie, r.PathValue("title"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.eventList(raw))
}

func (s *Server) eventList(raw []events.RawEvent) listEventsResponse {
	resp := listEventsResponse{
		Items: make([]EventResponse, len(raw)),
		Total: len(raw),
	}
	for i, e := range raw {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
		if ev, err := s.registry.Unmarshal(e); err == nil {
			resp.Items[i].Data = ev
		} else {
			s.logger.Warn("undecodable event", "id", e.ID, "type", e.EventType, "error", err)
		}
	}
	return resp
}
