package http

import (
	"net/http"

	"gatherly/internal/core"
	applog "gatherly/internal/log"
)

type toggleSavedResponse struct {
	Saved bool               `json:"saved"`
	Event core.CalendarEvent `json:"event"`
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Saved.List()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to read saved events", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if events == nil {
		events = []core.CalendarEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

// handleToggleSaved saves the event when absent and removes it when present.
func (s *Server) handleToggleSaved(w http.ResponseWriter, r *http.Request) {
	var event core.CalendarEvent
	if err := decodeJSON(r, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := event.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.deps.Saved.Toggle(event)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to toggle saved event",
			applog.FieldEventID, event.ID, applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, toggleSavedResponse{Saved: saved, Event: event})
}

func (s *Server) handleBuildNewsletter(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Newsletters.Build(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNewsletters(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Newsletters.List(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
