package saved

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"gatherly/internal/core"
)

const listKey = "saved-events"

// Store persists the saved-events list on disk. The whole list lives under a
// single key and is rewritten on every toggle; the set stays small enough
// that read-modify-write is cheaper than per-event keys.
type Store struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

func NewStore(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1 << 20,
		}),
	}
}

// List returns the saved events in save order.
func (s *Store) List() ([]core.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() ([]core.CalendarEvent, error) {
	if !s.d.Has(listKey) {
		return nil, nil
	}
	raw, err := s.d.Read(listKey)
	if err != nil {
		return nil, fmt.Errorf("read saved events: %w", err)
	}
	var events []core.CalendarEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode saved events: %w", err)
	}
	return events, nil
}

func (s *Store) write(events []core.CalendarEvent) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode saved events: %w", err)
	}
	if err := s.d.Write(listKey, raw); err != nil {
		return fmt.Errorf("write saved events: %w", err)
	}
	return nil
}

// Toggle saves the event when absent and removes it when present, keyed by
// event ID. It reports whether the event is saved after the call.
func (s *Store) Toggle(event core.CalendarEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.read()
	if err != nil {
		return false, err
	}
	for i, e := range events {
		if e.ID == event.ID {
			events = append(events[:i], events[i+1:]...)
			return false, s.write(events)
		}
	}
	events = append(events, event)
	return true, s.write(events)
}

// IsSaved reports whether an event ID is in the saved list.
func (s *Store) IsSaved(eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.read()
	if err != nil {
		return false, err
	}
	for _, e := range events {
		if e.ID == eventID {
			return true, nil
		}
	}
	return false, nil
}
