package ics

import (
	"strings"
	"testing"

	ical "github.com/arran4/golang-ical"

	"gatherly/internal/core"
)

func TestExport(t *testing.T) {
	group := core.Group{ID: "g1", Name: "Beach Crew"}
	events := []core.CalendarEvent{
		{ID: "concert", Title: "Open Air Concert", StartDate: "2024-07-19", StartTime: "19:30", Category: "music"},
		{ID: "fair", Title: "Street Fair", StartDate: "2024-07-20", CustomName: "Our Fair"},
		{ID: "undated", Title: "Sometime", StartDate: "next week"},
	}

	out := Export(group, events)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("exported calendar does not parse: %v", err)
	}
	parsed := cal.Events()
	if len(parsed) != 2 {
		t.Fatalf("events = %d, want 2 (undated skipped)", len(parsed))
	}

	summaries := make(map[string]bool)
	for _, ev := range parsed {
		if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
			summaries[p.Value] = true
		}
	}
	if !summaries["Open Air Concert"] {
		t.Error("missing the concert summary")
	}
	if !summaries["Our Fair"] {
		t.Error("custom name should be the fair's summary")
	}

	if !strings.Contains(out, "CATEGORIES:music") {
		t.Error("concert should carry its category")
	}
	if !strings.Contains(out, "VALUE=DATE") {
		t.Error("timeless event should export as all-day")
	}
}

func TestExportEmptyGroup(t *testing.T) {
	out := Export(core.Group{ID: "g1", Name: "Quiet Crew"}, nil)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("output is not a calendar:\n%s", out)
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty group should export no events")
	}
}
