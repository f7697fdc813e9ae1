// Package http exposes the JSON API: calendar windows, groups and their
// shared events, expenses, saved events and newsletters.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gatherly/internal/cache"
	"gatherly/internal/calendar"
	"gatherly/internal/catalog"
	"gatherly/internal/core"
	applog "gatherly/internal/log"
	"gatherly/internal/middleware/ratelimit"
	"gatherly/internal/middleware/security"
	"gatherly/internal/middleware/trace"
	"gatherly/internal/saved"
	"gatherly/internal/services"
)

// Deps carries the collaborators the server orchestrates.
type Deps struct {
	Groups      *services.GroupService
	Expenses    *services.ExpenseService
	Newsletters *services.NewsletterService
	Catalog     *catalog.Service
	Saved       *saved.Store
}

// Config holds the server's own knobs.
type Config struct {
	Addr          string
	InitialWindow calendar.Window
	Expander      calendar.ExpanderConfig
}

// Server is the API server. The calendar core (expander, grid cache) is owned
// here; domain writes go through the services.
type Server struct {
	http.Server

	deps Deps

	expander  *calendar.Expander
	gridCache *calendar.GridCache

	// groupEventsCache shortcuts the per-request event reload for the busy
	// group calendar endpoints. Invalidated on every group event mutation.
	groupEventsCache *cache.LRU[[]core.CalendarEvent]
	janitor          *cache.Janitor

	limiter *ratelimit.Limiter
	logger  *applog.Logger
	now     func() time.Time

	shutdownOnce sync.Once
}

func NewServer(cfg Config, deps Deps, logger *applog.Logger) *Server {
	if cfg.InitialWindow.Months() == 0 {
		cfg.InitialWindow = calendar.Window{Start: -2, End: 3}
	}

	s := &Server{
		deps:             deps,
		expander:         calendar.NewExpander(cfg.InitialWindow, cfg.Expander),
		gridCache:        calendar.NewGridCache(),
		groupEventsCache: cache.NewLRU[[]core.CalendarEvent](100, 5*time.Minute),
		janitor:          cache.NewJanitor(logger),
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:           logger.WithComponent(applog.ComponentHTTP),
		now:              time.Now,
	}
	s.janitor.Register(s.groupEventsCache)
	s.janitor.Start(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/events", s.handleListCatalog)

	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("POST /api/calendar/scroll", s.handleCalendarScroll)
	mux.HandleFunc("POST /api/calendar/complete", s.handleCalendarComplete)

	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups", s.handleListGroups)
	mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	mux.HandleFunc("POST /api/groups/join", s.handleJoinGroup)

	mux.HandleFunc("GET /api/groups/{id}/events", s.handleListGroupEvents)
	mux.HandleFunc("POST /api/groups/{id}/events", s.handleAddGroupEvent)
	mux.HandleFunc("DELETE /api/groups/{id}/events/{eventID}", s.handleRemoveGroupEvent)
	mux.HandleFunc("PUT /api/groups/{id}/events/{eventID}/name", s.handleRenameGroupEvent)

	mux.HandleFunc("GET /api/groups/{id}/calendar", s.handleGroupCalendar)
	mux.HandleFunc("GET /api/groups/{id}/calendar.ics", s.handleGroupCalendarICS)
	mux.HandleFunc("GET /api/groups/{id}/dates/{date}", s.handleGroupDate)

	mux.HandleFunc("GET /api/groups/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/groups/{id}/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/groups/{id}/expenses/{expenseID}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/groups/{id}/expenses/{expenseID}/settle", s.handleSettleExpense)
	mux.HandleFunc("GET /api/groups/{id}/expenses/summary", s.handleExpenseSummary)

	mux.HandleFunc("GET /api/saved-events", s.handleListSaved)
	mux.HandleFunc("POST /api/saved-events/toggle", s.handleToggleSaved)

	mux.HandleFunc("POST /api/groups/{id}/newsletter", s.handleBuildNewsletter)
	mux.HandleFunc("GET /api/groups/{id}/newsletters", s.handleListNewsletters)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.middleware(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// middleware wires the chain: request tracing, security headers, rate
// limiting on mutating methods.
func (s *Server) middleware(mux http.Handler, logger *applog.Logger) http.Handler {
	limited := s.limiter.Middleware(security.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})(mux)

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			mux.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	}))

	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = trace.NewMiddleware(security.ExtractClientIP, logger).Middleware(handler)
	handler = applog.Middleware(logger)(handler)
	return handler
}

// Shutdown stops the HTTP server and the background goroutines exactly once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

const groupEventsKeyPrefix = "events:"

// groupEvents loads a group's events through the LRU cache.
func (s *Server) groupEvents(ctx context.Context, groupID string) ([]core.CalendarEvent, error) {
	key := groupEventsKeyPrefix + groupID
	if events, ok := s.groupEventsCache.Get(key); ok {
		return events, nil
	}
	events, err := s.deps.Groups.ListEvents(ctx, groupID)
	if err != nil {
		return nil, err
	}
	s.groupEventsCache.Set(key, events)
	return events, nil
}

func (s *Server) invalidateGroupEvents(groupID string) {
	s.groupEventsCache.Delete(groupEventsKeyPrefix + groupID)
}
