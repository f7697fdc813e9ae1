package catalog

import (
	"fmt"
	"time"

	"gatherly/internal/core"
)

// FallbackEvents returns a small built-in catalog so the app stays usable
// when no upstream feed is configured or the feed is down. One event each
// for last month, this month and next month.
func FallbackEvents(now time.Time) []core.CalendarEvent {
	month := func(offset int, day int) string {
		t := time.Date(now.Year(), now.Month()+time.Month(offset), day, 0, 0, 0, 0, time.UTC)
		return t.Format("2006-01-02")
	}
	return []core.CalendarEvent{
		{
			ID:        fmt.Sprintf("fallback-%s-1", month(-1, 12)),
			Title:     "Neighborhood Potluck",
			StartDate: month(-1, 12),
			Category:  "community",
			IsFree:    true,
		},
		{
			ID:        fmt.Sprintf("fallback-%s-2", month(0, 8)),
			Title:     "Farmers Market",
			StartDate: month(0, 8),
			StartTime: "09:00",
			Category:  "food",
			IsFree:    true,
		},
		{
			ID:         fmt.Sprintf("fallback-%s-3", month(1, 21)),
			Title:      "Open Air Concert",
			StartDate:  month(1, 21),
			StartTime:  "19:30",
			Category:   "music",
			PriceCents: 1500,
		},
	}
}
