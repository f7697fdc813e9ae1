// Package calendar implements the deterministic calendar core: month grid
// geometry, scroll-driven window expansion, event-to-date binning, and a
// single-slot grid cache. Nothing in this package performs I/O.
package calendar

import "time"

// MonthGrid describes the display geometry of one calendar month laid out in
// seven columns. Cells holds a 0 for every blank leading/trailing cell and the
// day-of-month (1..N) for real days. Month is 0-based (January = 0) to match
// the offset arithmetic used throughout this package.
type MonthGrid struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Days  int   `json:"days"`
	Cells []int `json:"cells"`
	Rows  int   `json:"rows"`
}

// BuildMonthGrid returns the grid for the given year and 0-based month.
//
// It is total: any integer month is accepted and normalized by calendar
// rollover (month 13 of year Y becomes February of year Y+1), so callers can
// feed raw signed offsets without range checks. Day counts follow the
// proleptic Gregorian calendar, leap years included.
func BuildMonthGrid(year, month int) MonthGrid {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), int(first.Month())-1

	// Day 0 of the next month is the last day of this one.
	days := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
	startWeekday := int(first.Weekday()) // 0 = Sunday

	rows := (startWeekday + days + 6) / 7
	cells := make([]int, rows*7)
	for d := 1; d <= days; d++ {
		cells[startWeekday+d-1] = d
	}

	return MonthGrid{
		Year:  year,
		Month: month,
		Days:  days,
		Cells: cells,
		Rows:  rows,
	}
}

// BuildWindow returns one grid per month offset in [w.Start, w.End) relative
// to the reference date's month, in ascending offset order.
func BuildWindow(ref time.Time, w Window) []MonthGrid {
	if w.End <= w.Start {
		return nil
	}
	grids := make([]MonthGrid, 0, w.End-w.Start)
	for off := w.Start; off < w.End; off++ {
		grids = append(grids, BuildMonthGrid(ref.Year(), int(ref.Month())-1+off))
	}
	return grids
}
