package http

import (
	"net/http"

	"gatherly/internal/core"
	"gatherly/internal/ics"
	applog "gatherly/internal/log"
)

type createGroupRequest struct {
	Name    string      `json:"name"`
	Creator core.Member `json:"creator"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := s.deps.Groups.CreateGroup(r.Context(), req.Name, req.Creator)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.Groups.ListGroups(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.deps.Groups.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

type joinGroupRequest struct {
	InviteCode string      `json:"invite_code"`
	Member     core.Member `json:"member"`
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := s.deps.Groups.JoinGroup(r.Context(), req.InviteCode, req.Member)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleListGroupEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Groups.ListEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

type addEventRequest struct {
	Event   core.CalendarEvent `json:"event"`
	AddedBy string             `json:"added_by"`
}

func (s *Server) handleAddGroupEvent(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	var req addEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Groups.AddEvent(r.Context(), groupID, req.Event, req.AddedBy); err != nil {
		respondDomainError(w, err)
		return
	}
	s.invalidateGroupEvents(groupID)
	s.logger.InfoContext(r.Context(), "event added",
		applog.FieldGroupID, groupID,
		applog.FieldEventID, req.Event.ID)
	respondJSON(w, http.StatusCreated, req.Event)
}

func (s *Server) handleRemoveGroupEvent(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if err := s.deps.Groups.RemoveEvent(r.Context(), groupID, r.PathValue("eventID")); err != nil {
		respondDomainError(w, err)
		return
	}
	s.invalidateGroupEvents(groupID)
	w.WriteHeader(http.StatusNoContent)
}

type renameEventRequest struct {
	CustomName string `json:"custom_name"`
}

func (s *Server) handleRenameGroupEvent(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	var req renameEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Groups.RenameEvent(r.Context(), groupID, r.PathValue("eventID"), req.CustomName); err != nil {
		respondDomainError(w, err)
		return
	}
	s.invalidateGroupEvents(groupID)
	w.WriteHeader(http.StatusNoContent)
}

// handleGroupCalendarICS serves the group calendar as an iCalendar feed.
func (s *Server) handleGroupCalendarICS(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	g, err := s.deps.Groups.GetGroup(r.Context(), groupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	events, err := s.groupEvents(r.Context(), groupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	_, _ = w.Write([]byte(ics.Export(g, events)))
}
