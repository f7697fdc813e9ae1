package catalog

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	records := []Record{
		{
			"id":         "e1",
			"title":      "Farmers Market",
			"start_date": "2024-07-19",
			"start_time": "09:00",
			"category":   "food",
			"is_free":    true,
			"tags":       []any{"outdoor", "weekly"},
		},
		{
			"event_id": "e2",
			"name":     "Concert",
			"date":     "2024-07-20T19:30:00Z",
			"price":    "25.00",
			"currency": "EUR",
		},
		{
			"id":    "e3",
			"title": "Fair",
			"date":  "FALLBACK - Sat, July 19",
			"cost":  12.5,
		},
		{"title": "no id"},
		{"id": "no-title"},
		{"id": "  ", "title": "blank id"},
	}

	events, dropped := Parse(records)
	if dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
	if len(events) != 3 {
		t.Fatalf("parsed %d events, want 3", len(events))
	}

	e1 := events[0]
	if e1.ID != "e1" || e1.Title != "Farmers Market" || !e1.IsFree {
		t.Fatalf("e1 = %+v", e1)
	}
	if !reflect.DeepEqual(e1.Tags, []string{"outdoor", "weekly"}) {
		t.Fatalf("e1 tags = %v", e1.Tags)
	}

	// Alternate field names map to the same event shape.
	e2 := events[1]
	if e2.ID != "e2" || e2.Title != "Concert" || e2.StartDate != "2024-07-20T19:30:00Z" {
		t.Fatalf("e2 = %+v", e2)
	}
	if e2.PriceCents != 2500 || e2.Currency != "EUR" {
		t.Fatalf("e2 price = %d %s", e2.PriceCents, e2.Currency)
	}

	// Numeric prices are whole units; raw date text passes through for
	// binning to sort out.
	e3 := events[2]
	if e3.PriceCents != 1250 {
		t.Fatalf("e3 price = %d, want 1250", e3.PriceCents)
	}
	if e3.StartDate != "FALLBACK - Sat, July 19" {
		t.Fatalf("e3 date = %q", e3.StartDate)
	}
}

func TestParsePriceRounding(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{0.29, 29},
		{19.99, 1999},
		{12.5, 1250},
		{0, 0},
	}
	for _, tc := range cases {
		events, _ := Parse([]Record{{"id": "e", "title": "t", "price": tc.price}})
		if len(events) != 1 || events[0].PriceCents != tc.want {
			t.Errorf("price %v = %d cents, want %d", tc.price, events[0].PriceCents, tc.want)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	events, dropped := Parse(nil)
	if len(events) != 0 || dropped != 0 {
		t.Fatalf("Parse(nil) = %d events, %d dropped", len(events), dropped)
	}
}
