package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gatherly/internal/calendar"
	"gatherly/internal/core"
	applog "gatherly/internal/log"
)

type calendarResponse struct {
	Window calendar.Window      `json:"window"`
	Months []calendar.MonthGrid `json:"months"`
}

type scrollRequest struct {
	DistanceTop    float64 `json:"distance_top"`
	DistanceBottom float64 `json:"distance_bottom"`
}

type scrollResponse struct {
	Window    calendar.Window `json:"window"`
	Decision  string          `json:"decision"`
	Prepended int             `json:"prepended"`
}

type completeRequest struct {
	Edge string `json:"edge"`
}

// parseRef resolves the reference date from year/month query parameters,
// defaulting to the current month. Month is 0-based.
func (s *Server) parseRef(r *http.Request) time.Time {
	now := s.now()
	year, month := now.Year(), int(now.Month())-1
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
}

// parseWindow reads start/end overrides, falling back to the expander's
// current window.
func (s *Server) parseWindow(r *http.Request) calendar.Window {
	w := s.expander.Window()
	if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			w.Start = n
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			w.End = n
		}
	}
	return w
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ref := s.parseRef(r)
	window := s.parseWindow(r)
	if window.Months() == 0 {
		respondError(w, http.StatusUnprocessableEntity, "window is empty")
		return
	}

	grids := s.gridCache.Build(ref, window)
	respondJSON(w, http.StatusOK, calendarResponse{Window: window, Months: grids})
}

func (s *Server) handleCalendarScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp := s.expander.OnScroll(req.DistanceTop, req.DistanceBottom)
	if exp.Decision != calendar.NoChange {
		s.logger.DebugContext(r.Context(), "window expanded",
			applog.FieldOperation, applog.OpExpand,
			applog.FieldWindow, exp.Window.String(),
			"decision", exp.Decision.String())
	}
	respondJSON(w, http.StatusOK, scrollResponse{
		Window:    exp.Window,
		Decision:  exp.Decision.String(),
		Prepended: exp.Prepended,
	})
}

// handleCalendarComplete acknowledges a finished expansion, re-arming the
// edge for further growth.
func (s *Server) handleCalendarComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Edge {
	case "top":
		s.expander.Complete(calendar.EdgeTop)
	case "bottom":
		s.expander.Complete(calendar.EdgeBottom)
	default:
		respondError(w, http.StatusUnprocessableEntity, "edge must be top or bottom")
		return
	}
	respondJSON(w, http.StatusOK, scrollResponse{Window: s.expander.Window(), Decision: calendar.NoChange.String()})
}

type catalogResponse struct {
	Events      []core.CalendarEvent `json:"events"`
	Dropped     int                  `json:"dropped"`
	Fallback    bool                 `json:"fallback"`
	RefreshedAt time.Time            `json:"refreshed_at"`
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	snap := s.deps.Catalog.Current(r.Context())
	respondJSON(w, http.StatusOK, catalogResponse{
		Events:      snap.Events,
		Dropped:     snap.Dropped,
		Fallback:    snap.Fallback,
		RefreshedAt: snap.RefreshedAt,
	})
}

type groupMonth struct {
	Grid   calendar.MonthGrid   `json:"grid"`
	Events calendar.DateBuckets `json:"events"`
}

type groupCalendarResponse struct {
	Window  calendar.Window `json:"window"`
	Dropped int             `json:"dropped"`
	Months  []groupMonth    `json:"months"`
}

// handleGroupCalendar joins month grids with the group's events binned by
// canonical date.
func (s *Server) handleGroupCalendar(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	ref := s.parseRef(r)
	window := s.parseWindow(r)
	if window.Months() == 0 {
		respondError(w, http.StatusUnprocessableEntity, "window is empty")
		return
	}

	events, err := s.groupEvents(r.Context(), groupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	buckets, dropped := calendar.Bin(events, s.now(), time.Local)
	grids := s.gridCache.Build(ref, window)

	months := make([]groupMonth, len(grids))
	for i, g := range grids {
		months[i] = groupMonth{Grid: g, Events: buckets.ForMonth(g)}
	}
	if dropped > 0 {
		s.logger.DebugContext(r.Context(), "events dropped during binning",
			applog.FieldGroupID, groupID,
			applog.FieldDropped, dropped)
	}
	respondJSON(w, http.StatusOK, groupCalendarResponse{Window: window, Dropped: dropped, Months: months})
}

type dateResponse struct {
	Date   string               `json:"date"`
	Events []core.CalendarEvent `json:"events"`
}

// handleGroupDate serves one canonical date's events, the re-fetch target
// behind multi-event day taps.
func (s *Server) handleGroupDate(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	date := r.PathValue("date")

	events, err := s.deps.Groups.EventsOnDate(r.Context(), groupID, date, s.now())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dateResponse{Date: date, Events: events})
}
