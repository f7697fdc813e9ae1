package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:concert-1
SUMMARY:Open Air Concert
DTSTART:20240719T193000Z
DTEND:20240719T220000Z
CATEGORIES:music
END:VEVENT
BEGIN:VEVENT
UID:fair-2
SUMMARY:Street Fair
DTSTART;VALUE=DATE:20240720
END:VEVENT
BEGIN:VEVENT
SUMMARY:No UID here
DTSTART:20240721T100000Z
END:VEVENT
END:VCALENDAR
`

func TestICSClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte(sampleICS))
	}))
	defer srv.Close()

	client := NewICSClient(srv.URL, 5*time.Second)
	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The UID-less VEVENT is skipped at the source.
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	events, dropped := Parse(records)
	if dropped != 0 || len(events) != 2 {
		t.Fatalf("Parse = %d events, %d dropped", len(events), dropped)
	}

	concert := events[0]
	if concert.ID != "concert-1" || concert.Title != "Open Air Concert" {
		t.Fatalf("concert = %+v", concert)
	}
	if concert.StartDate != "2024-07-19" || concert.StartTime != "19:30" {
		t.Fatalf("concert start = %q %q", concert.StartDate, concert.StartTime)
	}
	if concert.Category != "music" {
		t.Fatalf("concert category = %q", concert.Category)
	}

	fair := events[1]
	if fair.ID != "fair-2" || fair.StartDate != "2024-07-20" || fair.StartTime != "" {
		t.Fatalf("fair = %+v", fair)
	}
}

func TestICSClientBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewICSClient(srv.URL, 5*time.Second)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch returned nil error for 404")
	}
}
