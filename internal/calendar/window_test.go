package calendar

import "testing"

func testConfig() ExpanderConfig {
	return ExpanderConfig{
		MinStart:      -12,
		MaxEnd:        13,
		Step:          3,
		EdgeThreshold: 500,
	}
}

func TestOnScrollExpandsTopOnce(t *testing.T) {
	e := NewExpander(Window{Start: -2, End: 3}, testConfig())

	exp := e.OnScroll(100, 5000)
	if exp.Decision != ExpandTop {
		t.Fatalf("decision = %v, want expand_top", exp.Decision)
	}
	if exp.Window.Start != -5 || exp.Window.End != 3 {
		t.Fatalf("window = %v, want [-5,3)", exp.Window)
	}
	if exp.Prepended != 3 {
		t.Fatalf("prepended = %d, want 3", exp.Prepended)
	}

	// A second scroll event before the in-flight flag clears is suppressed.
	again := e.OnScroll(100, 5000)
	if again.Decision != NoChange {
		t.Fatalf("in-flight expansion not suppressed: %v", again.Decision)
	}
	if again.Window.Start != -5 {
		t.Fatalf("window moved while suppressed: %v", again.Window)
	}

	// After the consumer acknowledges layout, the edge expands again.
	e.Complete(EdgeTop)
	third := e.OnScroll(100, 5000)
	if third.Decision != ExpandTop || third.Window.Start != -8 {
		t.Fatalf("post-Complete scroll: decision=%v window=%v", third.Decision, third.Window)
	}
}

func TestOnScrollExpandsBottom(t *testing.T) {
	e := NewExpander(Window{Start: -2, End: 3}, testConfig())

	exp := e.OnScroll(5000, 100)
	if exp.Decision != ExpandBottom {
		t.Fatalf("decision = %v, want expand_bottom", exp.Decision)
	}
	if exp.Window.End != 6 || exp.Window.Start != -2 {
		t.Fatalf("window = %v, want [-2,6)", exp.Window)
	}
	if exp.Prepended != 0 {
		t.Fatalf("bottom expansion must not report prepended months, got %d", exp.Prepended)
	}
}

func TestOnScrollFarFromEdges(t *testing.T) {
	e := NewExpander(Window{Start: -2, End: 3}, testConfig())
	if exp := e.OnScroll(5000, 5000); exp.Decision != NoChange {
		t.Fatalf("decision = %v, want no_change", exp.Decision)
	}
}

func TestOnScrollClampsAtBounds(t *testing.T) {
	e := NewExpander(Window{Start: -11, End: 3}, testConfig())

	// One month of headroom: the step is clamped to it.
	exp := e.OnScroll(100, 5000)
	if exp.Decision != ExpandTop || exp.Window.Start != -12 || exp.Prepended != 1 {
		t.Fatalf("clamped expansion: decision=%v window=%v prepended=%d", exp.Decision, exp.Window, exp.Prepended)
	}

	// At the bound, the edge never expands again.
	e.Complete(EdgeTop)
	if exp := e.OnScroll(100, 5000); exp.Decision != NoChange {
		t.Fatalf("expanded past MinStart: %v", exp.Window)
	}
}

func TestOnScrollEdgesIndependent(t *testing.T) {
	e := NewExpander(Window{Start: -2, End: 3}, testConfig())

	if exp := e.OnScroll(100, 5000); exp.Decision != ExpandTop {
		t.Fatalf("decision = %v, want expand_top", exp.Decision)
	}
	// Top is in flight, but bottom still expands.
	if exp := e.OnScroll(5000, 100); exp.Decision != ExpandBottom {
		t.Fatalf("bottom edge blocked by top in-flight: %v", exp.Decision)
	}
}

func TestWindowMonths(t *testing.T) {
	cases := []struct {
		w    Window
		want int
	}{
		{Window{Start: -2, End: 3}, 5},
		{Window{Start: 0, End: 0}, 0},
		{Window{Start: 3, End: 1}, 0},
	}
	for _, tc := range cases {
		if got := tc.w.Months(); got != tc.want {
			t.Errorf("%v Months() = %d, want %d", tc.w, got, tc.want)
		}
	}
}
