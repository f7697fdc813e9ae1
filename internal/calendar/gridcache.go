package calendar

import (
	"sync"
	"time"
)

type gridKey struct {
	year   int
	month  int
	window Window
}

// GridCache memoizes the grids built for one window at a time. The common
// case is the initial default window being requested on every render pass;
// any other (reference month, window) pair misses and the caller's rebuild
// overwrites the slot. Inject one per screen lifecycle rather than sharing a
// package-level instance.
type GridCache struct {
	mu    sync.Mutex
	key   gridKey
	grids []MonthGrid
	valid bool
}

// NewGridCache returns an empty single-slot cache.
func NewGridCache() *GridCache {
	return &GridCache{}
}

func keyFor(ref time.Time, w Window) gridKey {
	return gridKey{year: ref.Year(), month: int(ref.Month()) - 1, window: w}
}

// Get returns the cached grids when the reference month and window exactly
// match the last Put, nil otherwise.
func (c *GridCache) Get(ref time.Time, w Window) []MonthGrid {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.key != keyFor(ref, w) {
		return nil
	}
	return c.grids
}

// Put stores grids for the given reference month and window, replacing
// whatever was cached before.
func (c *GridCache) Put(ref time.Time, w Window, grids []MonthGrid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = keyFor(ref, w)
	c.grids = grids
	c.valid = true
}

// Build returns grids for the window, from cache on an exact match and by
// building (and caching) otherwise.
func (c *GridCache) Build(ref time.Time, w Window) []MonthGrid {
	if grids := c.Get(ref, w); grids != nil {
		return grids
	}
	grids := BuildWindow(ref, w)
	c.Put(ref, w, grids)
	return grids
}

// Invalidate clears the slot.
func (c *GridCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.grids = nil
}
