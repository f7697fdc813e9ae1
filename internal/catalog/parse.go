package catalog

import (
	"math"
	"strings"

	"gatherly/internal/core"
)

// Record is one untyped catalog entry as delivered by the feed. Field names
// vary between feed versions, so reading goes through accessor helpers.
type Record map[string]any

func (r Record) str(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func (r Record) boolean(keys ...string) bool {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// priceCents reads the price as integer cents. Feeds deliver either a
// decimal string ("12.50") or a JSON number of whole currency units.
func (r Record) priceCents(keys ...string) int64 {
	for _, key := range keys {
		v, ok := r[key]
		if !ok {
			continue
		}
		switch p := v.(type) {
		case string:
			if cents, err := core.ParseDecimalToCents(p); err == nil {
				return cents
			}
		case float64:
			// Binary floats undershoot values like 0.29*100; round, never
			// truncate.
			return int64(math.Round(p * 100))
		}
	}
	return 0
}

func (r Record) tags(key string) []string {
	v, ok := r[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var tags []string
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// Parse converts raw records into calendar events. Records without an ID or
// title are dropped and counted; everything else passes through untouched,
// including raw date text, which binning canonicalizes later.
func Parse(records []Record) ([]core.CalendarEvent, int) {
	events := make([]core.CalendarEvent, 0, len(records))
	dropped := 0
	for _, r := range records {
		e := core.CalendarEvent{
			ID:         strings.TrimSpace(r.str("id", "event_id", "uid")),
			Title:      strings.TrimSpace(r.str("title", "name")),
			StartDate:  r.str("start_date", "startDate", "date"),
			StartTime:  r.str("start_time", "startTime", "time"),
			Color:      r.str("color"),
			Category:   r.str("category"),
			Tags:       r.tags("tags"),
			PriceCents: r.priceCents("price", "cost"),
			IsFree:     r.boolean("is_free", "free"),
			Currency:   r.str("currency"),
		}
		if err := e.Validate(); err != nil {
			dropped++
			continue
		}
		events = append(events, e)
	}
	return events, dropped
}
