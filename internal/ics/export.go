// Package ics renders a group calendar as an iCalendar feed so members can
// subscribe from their own calendar apps.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"gatherly/internal/core"
)

const prodID = "-//gatherly//group calendar//EN"

// Export serializes the group's events into an iCalendar document. Events
// without a canonical start date are skipped; events without a start time
// become all-day entries.
func Export(group core.Group, events []core.CalendarEvent) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetName(group.Name)

	for _, e := range events {
		if !core.IsCanonicalDate(e.StartDate) {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@gatherly", e.ID))
		ev.SetSummary(e.DisplayName())
		if e.Category != "" {
			ev.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}

		if start, err := parseStart(e.StartDate, e.StartTime); err == nil {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(time.Hour))
		} else {
			day, _ := time.Parse("2006-01-02", e.StartDate)
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}

	return cal.Serialize()
}

func parseStart(date, clock string) (time.Time, error) {
	if clock == "" {
		return time.Time{}, fmt.Errorf("no start time")
	}
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
}
