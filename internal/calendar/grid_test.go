package calendar

import (
	"reflect"
	"testing"
	"time"
)

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

func TestBuildMonthGridDayCounts(t *testing.T) {
	// Every month of a leap year, a non-leap year, and the century
	// exception years.
	for _, year := range []int{1900, 1999, 2000, 2023, 2024, 2100} {
		for month := 0; month < 12; month++ {
			g := BuildMonthGrid(year, month)
			want := daysInMonth(year, month)
			if g.Days != want {
				t.Errorf("%d-%02d: Days = %d, want %d", year, month+1, g.Days, want)
			}
			nonNull := 0
			last := 0
			for _, c := range g.Cells {
				if c != 0 {
					nonNull++
					if c != last+1 {
						t.Errorf("%d-%02d: cells not ascending at %d", year, month+1, c)
					}
					last = c
				}
			}
			if nonNull != want {
				t.Errorf("%d-%02d: %d non-null cells, want %d", year, month+1, nonNull, want)
			}
			if g.Rows != (len(g.Cells)+6)/7 || len(g.Cells)%7 != 0 {
				t.Errorf("%d-%02d: rows %d inconsistent with %d cells", year, month+1, g.Rows, len(g.Cells))
			}
			if g.Rows < 4 || g.Rows > 6 {
				t.Errorf("%d-%02d: rows = %d, want 4..6", year, month+1, g.Rows)
			}
		}
	}
}

func TestBuildMonthGridLeapFebruary(t *testing.T) {
	if g := BuildMonthGrid(2024, 1); g.Days != 29 {
		t.Errorf("Feb 2024 days = %d, want 29", g.Days)
	}
	if g := BuildMonthGrid(2023, 1); g.Days != 28 {
		t.Errorf("Feb 2023 days = %d, want 28", g.Days)
	}
	if g := BuildMonthGrid(2000, 1); g.Days != 29 {
		t.Errorf("Feb 2000 days = %d, want 29", g.Days)
	}
	if g := BuildMonthGrid(2100, 1); g.Days != 28 {
		t.Errorf("Feb 2100 days = %d, want 28", g.Days)
	}
}

func TestBuildMonthGridLeadingBlanks(t *testing.T) {
	// Feb 1 2024 is a Thursday, Mar 1 2024 a Friday.
	feb := BuildMonthGrid(2024, 1)
	if feb.Cells[3] != 0 || feb.Cells[4] != 1 {
		t.Errorf("Feb 2024: want 4 leading blanks, cells start %v", feb.Cells[:7])
	}
	mar := BuildMonthGrid(2024, 2)
	if mar.Cells[4] != 0 || mar.Cells[5] != 1 {
		t.Errorf("Mar 2024: want 5 leading blanks, cells start %v", mar.Cells[:7])
	}
}

func TestBuildMonthGridSixRows(t *testing.T) {
	// August 2026 has 31 days and starts on a Saturday: 6 + 31 = 37 cells
	// before padding, so six rows.
	g := BuildMonthGrid(2026, 7)
	if g.Rows != 6 {
		t.Fatalf("Aug 2026 rows = %d, want 6", g.Rows)
	}
}

func TestBuildMonthGridFourRows(t *testing.T) {
	// February 2026 has 28 days and starts on a Sunday: exactly 4 rows.
	g := BuildMonthGrid(2026, 1)
	if g.Rows != 4 {
		t.Fatalf("Feb 2026 rows = %d, want 4", g.Rows)
	}
}

func TestBuildMonthGridRollover(t *testing.T) {
	// Month 13 of 2023 is February 2024; month -1 of 2024 is December 2023.
	g := BuildMonthGrid(2023, 13)
	if g.Year != 2024 || g.Month != 1 {
		t.Fatalf("month 13 of 2023 normalized to %d-%02d", g.Year, g.Month+1)
	}
	g = BuildMonthGrid(2024, -1)
	if g.Year != 2023 || g.Month != 11 {
		t.Fatalf("month -1 of 2024 normalized to %d-%02d", g.Year, g.Month+1)
	}
}

func TestBuildMonthGridIdempotent(t *testing.T) {
	a := BuildMonthGrid(2024, 6)
	b := BuildMonthGrid(2024, 6)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("grids differ: %+v vs %+v", a, b)
	}
}

func TestBuildWindowAroundReference(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	grids := BuildWindow(ref, Window{Start: -1, End: 1})
	if len(grids) != 2 {
		t.Fatalf("got %d grids, want 2", len(grids))
	}

	feb, mar := grids[0], grids[1]
	if feb.Year != 2024 || feb.Month != 1 || feb.Days != 29 {
		t.Fatalf("first grid is %d-%02d (%d days), want Feb 2024 with 29", feb.Year, feb.Month+1, feb.Days)
	}
	if mar.Year != 2024 || mar.Month != 2 || mar.Days != 31 {
		t.Fatalf("second grid is %d-%02d (%d days), want Mar 2024 with 31", mar.Year, mar.Month+1, mar.Days)
	}

	wantFeb := []int{
		0, 0, 0, 0, 1, 2, 3,
		4, 5, 6, 7, 8, 9, 10,
		11, 12, 13, 14, 15, 16, 17,
		18, 19, 20, 21, 22, 23, 24,
		25, 26, 27, 28, 29, 0, 0,
	}
	if !reflect.DeepEqual(feb.Cells, wantFeb) {
		t.Errorf("Feb 2024 cells = %v", feb.Cells)
	}

	wantMar := []int{
		0, 0, 0, 0, 0, 1, 2,
		3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 16,
		17, 18, 19, 20, 21, 22, 23,
		24, 25, 26, 27, 28, 29, 30,
		31, 0, 0, 0, 0, 0, 0,
	}
	if !reflect.DeepEqual(mar.Cells, wantMar) {
		t.Errorf("Mar 2024 cells = %v", mar.Cells)
	}
}

func TestBuildWindowEmpty(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if grids := BuildWindow(ref, Window{Start: 2, End: 2}); grids != nil {
		t.Fatalf("expected nil for empty window, got %v", grids)
	}
}

func TestBuildWindowCrossesYear(t *testing.T) {
	ref := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	grids := BuildWindow(ref, Window{Start: -2, End: 2})
	want := []struct{ y, m int }{{2023, 10}, {2023, 11}, {2024, 0}, {2024, 1}}
	for i, g := range grids {
		if g.Year != want[i].y || g.Month != want[i].m {
			t.Errorf("grid[%d] = %d-%02d, want %d-%02d", i, g.Year, g.Month+1, want[i].y, want[i].m+1)
		}
	}
}
