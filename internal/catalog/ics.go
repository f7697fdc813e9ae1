package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ICSClient reads the catalog from a published ICS calendar instead of a
// JSON feed. Each VEVENT becomes one record keyed by its UID.
type ICSClient struct {
	httpClient *http.Client
	url        string
}

func NewICSClient(url string, timeout time.Duration) *ICSClient {
	return &ICSClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

func (c *ICSClient) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build ics request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics feed returned status %d", resp.StatusCode)
	}

	cal, err := ical.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse ics feed: %w", err)
	}

	records := make([]Record, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		if r, ok := recordFromVEvent(ve); ok {
			records = append(records, r)
		}
	}
	return records, nil
}

func recordFromVEvent(ve *ical.VEvent) (Record, bool) {
	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return nil, false
	}
	r := Record{"id": uid.Value}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		r["title"] = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		r["category"] = p.Value
	}

	if start, err := ve.GetStartAt(); err == nil {
		r["start_date"] = start.Format("2006-01-02")
		if hhmm := start.Format("15:04"); hhmm != "00:00" {
			r["start_time"] = hhmm
		}
		return r, true
	}

	// All-day events carry a bare YYYYMMDD DTSTART that GetStartAt rejects.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil && !strings.Contains(p.Value, "T") {
		if t, err := time.Parse("20060102", p.Value); err == nil {
			r["start_date"] = t.Format("2006-01-02")
			return r, true
		}
	}
	return r, true
}
