package core

import (
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		GroupID:     "g1",
		Description: "campsite",
		Amount:      Money{Cents: 1200},
		PaidBy:      "ana",
		Date:        time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
	}{
		{"empty group", func(x *Expense) { x.GroupID = " " }},
		{"empty description", func(x *Expense) { x.Description = "" }},
		{"zero amount", func(x *Expense) { x.Amount.Cents = 0 }},
		{"negative amount", func(x *Expense) { x.Amount.Cents = -5 }},
		{"empty payer", func(x *Expense) { x.PaidBy = "" }},
		{"zero date", func(x *Expense) { x.Date = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := valid
			tc.mutate(&x)
			if err := x.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestIsCanonicalDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-07-19", true},
		{"2024-7-19", false},
		{"2024-07-19T05:00:00Z", false},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCanonicalDate(tc.in); got != tc.ok {
			t.Errorf("IsCanonicalDate(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

func TestCalendarEventDisplayName(t *testing.T) {
	e := CalendarEvent{ID: "e1", Title: "Jazz Night"}
	if e.DisplayName() != "Jazz Night" {
		t.Fatalf("got %q", e.DisplayName())
	}
	e.CustomName = "Ben's birthday jazz"
	if e.DisplayName() != "Ben's birthday jazz" {
		t.Fatalf("got %q", e.DisplayName())
	}
}
