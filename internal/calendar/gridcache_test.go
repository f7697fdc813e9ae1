package calendar

import (
	"reflect"
	"testing"
	"time"
)

func TestGridCacheExactMatch(t *testing.T) {
	c := NewGridCache()
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	w := Window{Start: -2, End: 3}

	if got := c.Get(ref, w); got != nil {
		t.Fatal("empty cache returned grids")
	}

	built := c.Build(ref, w)
	if len(built) != 5 {
		t.Fatalf("built %d grids, want 5", len(built))
	}

	// Same reference month, same window: hit. A different day in the same
	// month still hits, since the key is the month.
	later := time.Date(2024, time.March, 28, 0, 0, 0, 0, time.UTC)
	if got := c.Get(later, w); !reflect.DeepEqual(got, built) {
		t.Fatal("same month+window should hit the cache")
	}

	// Any other window misses.
	if got := c.Get(ref, Window{Start: -5, End: 3}); got != nil {
		t.Fatal("different window should miss")
	}
	// Any other reference month misses.
	april := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	if got := c.Get(april, w); got != nil {
		t.Fatal("different reference month should miss")
	}
}

func TestGridCacheOverwriteOnMismatch(t *testing.T) {
	c := NewGridCache()
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	c.Build(ref, Window{Start: -2, End: 3})
	wide := c.Build(ref, Window{Start: -5, End: 6})
	if len(wide) != 11 {
		t.Fatalf("built %d grids, want 11", len(wide))
	}

	// The old window no longer hits; the new one does.
	if got := c.Get(ref, Window{Start: -2, End: 3}); got != nil {
		t.Fatal("stale window survived overwrite")
	}
	if got := c.Get(ref, Window{Start: -5, End: 6}); got == nil {
		t.Fatal("fresh window missing after overwrite")
	}
}

func TestGridCacheInvalidate(t *testing.T) {
	c := NewGridCache()
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	w := Window{Start: -1, End: 1}

	c.Build(ref, w)
	c.Invalidate()
	if got := c.Get(ref, w); got != nil {
		t.Fatal("invalidated cache returned grids")
	}
}
