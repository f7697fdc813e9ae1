package calendar

import (
	"regexp"
	"strings"
	"time"

	"gatherly/internal/core"
)

// DateBuckets groups events by canonical YYYY-MM-DD key. Slice order within a
// bucket is the input order.
type DateBuckets map[string][]core.CalendarEvent

// fallbackDate recognizes the placeholder shape some catalog records carry,
// e.g. "FALLBACK - Sat, July 19": a weekday name, a month name, and a day.
var fallbackDate = regexp.MustCompile(`(?i)\b(?:sun|mon|tue|wed|thu|fri|sat)[a-z]*,?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)

// isoInstant requires a digit on both sides of the 'T' so weekday names like
// "Tue" and "Thu" never trip the timestamp rule.
var isoInstant = regexp.MustCompile(`\dT\d`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// looseLayouts are the last-resort parse shapes, tried in the caller's
// location so a plain date never shifts across midnight.
var looseLayouts = []string{
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"2 January 2006",
}

// NormalizeDate reduces a free-form date string to the canonical YYYY-MM-DD
// key, or reports failure. Rules apply in order, first match wins:
//
//  1. already canonical: kept as-is;
//  2. a " to " range: only the part before the separator counts;
//  3. an ISO instant (digit-T-digit, or ends in 'Z'): the date is taken from
//     UTC fields, never local ones, so evenings west of UTC don't slip a day;
//  4. the weekday/month-name/day fallback shape: parsed against now's year
//     (events from another year will mis-display; the data carries no year);
//  5. a loose layout parsed at local midnight in loc.
//
// Anything else fails.
func NormalizeDate(s string, now time.Time, loc *time.Location) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if core.IsCanonicalDate(s) {
		return s, true
	}
	if before, _, found := strings.Cut(s, " to "); found {
		return NormalizeDate(before, now, loc)
	}
	if isoInstant.MatchString(s) || strings.HasSuffix(s, "Z") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC().Format("2006-01-02"), true
		}
		// Zone-less timestamps are treated as already-UTC instants.
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t.Format("2006-01-02"), true
		}
		return "", false
	}
	if m := fallbackDate.FindStringSubmatch(s); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])]
		day := atoiDay(m[2])
		if day >= 1 && day <= 31 {
			t := time.Date(now.Year(), month, day, 0, 0, 0, 0, loc)
			// Reject rolled-over impossible days like "Feb 30".
			if t.Day() == day && t.Month() == month {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	}
	for _, layout := range looseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func atoiDay(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// Bin normalizes each event's StartDate and groups the events by canonical
// date. Events whose date cannot be normalized are dropped (returned as a
// count, never an error) rather than placed in a null bucket. Binning the
// same input twice yields identical buckets.
func Bin(events []core.CalendarEvent, now time.Time, loc *time.Location) (DateBuckets, int) {
	if loc == nil {
		loc = time.Local
	}
	buckets := make(DateBuckets)
	dropped := 0
	for _, e := range events {
		key, ok := NormalizeDate(e.StartDate, now, loc)
		if !ok {
			dropped++
			continue
		}
		e.StartDate = key
		buckets[key] = append(buckets[key], e)
	}
	return buckets, dropped
}

// ForMonth filters buckets down to the dates inside one grid's month.
func (b DateBuckets) ForMonth(g MonthGrid) DateBuckets {
	prefix := time.Date(g.Year, time.Month(g.Month+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-")
	out := make(DateBuckets)
	for key, events := range b {
		if strings.HasPrefix(key, prefix) {
			out[key] = events
		}
	}
	return out
}
