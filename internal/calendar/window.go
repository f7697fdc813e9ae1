package calendar

import (
	"fmt"
	"sync"
)

// Window is a contiguous range [Start, End) of signed month offsets relative
// to a reference date. {Start: -2, End: 3} covers two months back through two
// months ahead.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Months returns the number of months the window covers.
func (w Window) Months() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// Edge identifies which end of the window an expansion applies to.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeTop {
		return "top"
	}
	return "bottom"
}

// Decision is the outcome of a scroll check.
type Decision int

const (
	NoChange Decision = iota
	ExpandTop
	ExpandBottom
)

func (d Decision) String() string {
	switch d {
	case ExpandTop:
		return "expand_top"
	case ExpandBottom:
		return "expand_bottom"
	default:
		return "no_change"
	}
}

// ExpanderConfig bounds how far and how fast a window may grow.
type ExpanderConfig struct {
	// MinStart and MaxEnd cap the total materialized range.
	MinStart int
	MaxEnd   int
	// Step is how many months each expansion adds.
	Step int
	// EdgeThreshold is the scroll distance below which an edge counts as near.
	EdgeThreshold float64
}

// DefaultExpanderConfig mirrors the initial five-month window growing in
// three-month steps, two years in either direction at most.
func DefaultExpanderConfig() ExpanderConfig {
	return ExpanderConfig{
		MinStart:      -24,
		MaxEnd:        25,
		Step:          3,
		EdgeThreshold: 800,
	}
}

// Expansion reports the window after a scroll check. Prepended is the number
// of months added before the old start; the consumer must compensate its
// scroll offset by the height of those months in one atomic adjustment before
// acknowledging the expansion with Complete.
type Expansion struct {
	Window    Window   `json:"window"`
	Decision  Decision `json:"-"`
	Prepended int      `json:"prepended"`
}

// Expander owns the current window and applies scroll-driven growth with
// single-flight suppression per edge: once an expansion is handed out for an
// edge, further scroll events for that edge return NoChange until the
// consumer calls Complete for it. Safe for concurrent use.
type Expander struct {
	mu       sync.Mutex
	window   Window
	cfg      ExpanderConfig
	inFlight [2]bool
}

// NewExpander creates an Expander over the initial window. A non-positive
// step or threshold falls back to the defaults.
func NewExpander(initial Window, cfg ExpanderConfig) *Expander {
	def := DefaultExpanderConfig()
	if cfg.Step <= 0 {
		cfg.Step = def.Step
	}
	if cfg.EdgeThreshold <= 0 {
		cfg.EdgeThreshold = def.EdgeThreshold
	}
	if cfg.MinStart == 0 && cfg.MaxEnd == 0 {
		cfg.MinStart, cfg.MaxEnd = def.MinStart, def.MaxEnd
	}
	return &Expander{window: initial, cfg: cfg}
}

// Window returns the current window.
func (e *Expander) Window() Window {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}

// OnScroll evaluates the distances from the top and bottom of rendered
// content and expands at most one edge. The top edge wins when both are near.
// Expansion steps are clamped at the configured bounds; an edge at its bound
// never expands.
func (e *Expander) OnScroll(distanceTop, distanceBottom float64) Expansion {
	e.mu.Lock()
	defer e.mu.Unlock()

	if distanceTop < e.cfg.EdgeThreshold && !e.inFlight[EdgeTop] && e.window.Start > e.cfg.MinStart {
		step := e.cfg.Step
		if e.window.Start-step < e.cfg.MinStart {
			step = e.window.Start - e.cfg.MinStart
		}
		e.window.Start -= step
		e.inFlight[EdgeTop] = true
		return Expansion{Window: e.window, Decision: ExpandTop, Prepended: step}
	}

	if distanceBottom < e.cfg.EdgeThreshold && !e.inFlight[EdgeBottom] && e.window.End < e.cfg.MaxEnd {
		step := e.cfg.Step
		if e.window.End+step > e.cfg.MaxEnd {
			step = e.cfg.MaxEnd - e.window.End
		}
		e.window.End += step
		e.inFlight[EdgeBottom] = true
		return Expansion{Window: e.window, Decision: ExpandBottom}
	}

	return Expansion{Window: e.window, Decision: NoChange}
}

// Complete clears the in-flight flag for an edge, re-enabling expansion there.
// Call it after the new months are laid out and the scroll offset compensated.
func (e *Expander) Complete(edge Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if edge == EdgeTop || edge == EdgeBottom {
		e.inFlight[edge] = false
	}
}
