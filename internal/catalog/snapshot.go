package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gatherly/internal/core"
	"gatherly/internal/log"
)

// Snapshot is one immutable view of the catalog. Consumers get the slice
// as-is and must not mutate it.
type Snapshot struct {
	Events      []core.CalendarEvent
	Dropped     int
	Fallback    bool
	RefreshedAt time.Time
}

// Service owns the current catalog snapshot. Refreshes are collapsed through
// singleflight so a cron tick and a cold-start request racing each other hit
// upstream once.
type Service struct {
	source Source
	logger *log.Logger
	now    func() time.Time

	mu    sync.RWMutex
	snap  Snapshot
	group singleflight.Group
}

// NewService creates the snapshot service. A nil source means the built-in
// fallback catalog is served.
func NewService(source Source, logger *log.Logger) *Service {
	return &Service{
		source: source,
		logger: logger.WithComponent(log.ComponentCatalog),
		now:    time.Now,
	}
}

// Current returns the latest snapshot, refreshing first if none was taken.
func (s *Service) Current(ctx context.Context) Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if !snap.RefreshedAt.IsZero() {
		return snap
	}
	snap, _ = s.Refresh(ctx)
	return snap
}

// Refresh fetches and parses the catalog, replacing the snapshot. A fetch
// failure keeps serving: when no previous snapshot exists the fallback
// catalog takes its place, otherwise the stale snapshot stays.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.snap, err
	}
	return v.(Snapshot), nil
}

func (s *Service) refresh(ctx context.Context) (Snapshot, error) {
	now := s.now()

	if s.source == nil {
		snap := Snapshot{Events: FallbackEvents(now), Fallback: true, RefreshedAt: now}
		s.store(snap)
		return snap, nil
	}

	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.mu.RLock()
		current := s.snap
		s.mu.RUnlock()
		if !current.RefreshedAt.IsZero() {
			s.logger.WarnContext(ctx, "catalog refresh failed, serving stale snapshot",
				log.FieldError, err.Error(),
				log.FieldEventCount, len(current.Events))
			return current, err
		}
		s.logger.WarnContext(ctx, "catalog refresh failed, serving fallback",
			log.FieldError, err.Error())
		snap := Snapshot{Events: FallbackEvents(now), Fallback: true, RefreshedAt: now}
		s.store(snap)
		return snap, err
	}

	events, dropped := Parse(records)
	snap := Snapshot{Events: events, Dropped: dropped, RefreshedAt: now}
	s.store(snap)
	s.logger.InfoContext(ctx, "catalog refreshed",
		log.FieldOperation, log.OpRefresh,
		log.FieldEventCount, len(events),
		log.FieldDropped, dropped)
	return snap, nil
}

func (s *Service) store(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
