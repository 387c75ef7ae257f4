package recurrence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewWindow(t *testing.T) {
	t.Run("valid_range", func(t *testing.T) {
		w, err := NewWindow(date(2025, 7, 1), date(2025, 7, 31))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !w.Start.Equal(date(2025, 7, 1)) || !w.End.Equal(date(2025, 7, 31)) {
			t.Errorf("unexpected window: %v", w)
		}
	})

	t.Run("single_day", func(t *testing.T) {
		if _, err := NewWindow(date(2025, 7, 1), date(2025, 7, 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		if _, err := NewWindow(date(2025, 7, 31), date(2025, 7, 1)); err != ErrEndBeforeStart {
			t.Fatalf("expected ErrEndBeforeStart, got %v", err)
		}
	})

	t.Run("strips_time_of_day", func(t *testing.T) {
		w, err := NewWindow(
			time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC),
			time.Date(2025, 7, 31, 8, 0, 0, 0, time.UTC),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Start.Hour() != 0 || w.End.Hour() != 0 {
			t.Errorf("expected midnight boundaries, got %v..%v", w.Start, w.End)
		}
	})
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		lastDay int
	}{
		{2025, time.July, 31},
		{2025, time.June, 30},
		{2025, time.February, 28},
		{2024, time.February, 29}, // leap year
	}

	for _, tt := range tests {
		w := MonthWindow(tt.year, tt.month)
		if w.Start.Day() != 1 {
			t.Errorf("%v %d: expected start on the 1st, got %v", tt.month, tt.year, w.Start)
		}
		if w.End.Day() != tt.lastDay {
			t.Errorf("%v %d: expected end on day %d, got %v", tt.month, tt.year, tt.lastDay, w.End)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := MonthWindow(2025, time.July)

	if !w.Contains(date(2025, 7, 1)) {
		t.Error("expected start day to be contained")
	}
	if !w.Contains(date(2025, 7, 31)) {
		t.Error("expected end day to be contained (inclusive)")
	}
	if w.Contains(date(2025, 6, 30)) || w.Contains(date(2025, 8, 1)) {
		t.Error("expected days outside the window to be excluded")
	}
}

func TestExpand(t *testing.T) {
	fifty := decimal.RequireFromString("50.00")

	t.Run("one_occurrence_per_month", func(t *testing.T) {
		// Day 15 over a 3-month window: exactly one occurrence per month.
		w, _ := NewWindow(date(2025, 7, 1), date(2025, 9, 30))
		occs := Expand(Template{Amount: fifty, Day: 15}, w)

		if len(occs) != 3 {
			t.Fatalf("expected 3 occurrences, got %d", len(occs))
		}
		for i, want := range []time.Time{date(2025, 7, 15), date(2025, 8, 15), date(2025, 9, 15)} {
			if !occs[i].Date.Equal(want) {
				t.Errorf("occurrence %d: expected %v, got %v", i, want, occs[i].Date)
			}
			if !occs[i].Amount.Equal(fifty) {
				t.Errorf("occurrence %d: expected amount 50.00, got %s", i, occs[i].Amount)
			}
		}
	})

	t.Run("window_end_inclusive", func(t *testing.T) {
		w, _ := NewWindow(date(2025, 7, 1), date(2025, 7, 15))
		occs := Expand(Template{Amount: fifty, Day: 15}, w)
		if len(occs) != 1 {
			t.Fatalf("expected occurrence on the window's last day, got %d", len(occs))
		}
	})

	t.Run("end_date_before_window", func(t *testing.T) {
		end := date(2025, 6, 30)
		w := MonthWindow(2025, time.July)
		occs := Expand(Template{Amount: fifty, Day: 15, EndDate: &end}, w)
		if len(occs) != 0 {
			t.Fatalf("expected no occurrences for an exhausted template, got %d", len(occs))
		}
	})

	t.Run("end_date_inside_window", func(t *testing.T) {
		// End date between the first and second occurrence: only the
		// occurrences up to and including the end date survive.
		end := date(2025, 8, 20)
		w, _ := NewWindow(date(2025, 7, 1), date(2025, 9, 30))
		occs := Expand(Template{Amount: fifty, Day: 15, EndDate: &end}, w)
		if len(occs) != 2 {
			t.Fatalf("expected 2 occurrences before the end date, got %d", len(occs))
		}
	})

	t.Run("end_date_on_occurrence_day", func(t *testing.T) {
		// Non-strict comparison: an occurrence exactly on the end date counts.
		end := date(2025, 8, 15)
		w, _ := NewWindow(date(2025, 7, 1), date(2025, 9, 30))
		occs := Expand(Template{Amount: fifty, Day: 15, EndDate: &end}, w)
		if len(occs) != 2 {
			t.Fatalf("expected the occurrence on the end date to count, got %d occurrences", len(occs))
		}
		if !occs[1].Date.Equal(date(2025, 8, 15)) {
			t.Errorf("expected last occurrence on 2025-08-15, got %v", occs[1].Date)
		}
	})

	t.Run("day_31_skips_short_months", func(t *testing.T) {
		// February never reaches day 31, so that month contributes nothing.
		w, _ := NewWindow(date(2025, 1, 1), date(2025, 3, 31))
		occs := Expand(Template{Amount: fifty, Day: 31}, w)
		if len(occs) != 2 {
			t.Fatalf("expected January and March only, got %d occurrences", len(occs))
		}
		if !occs[0].Date.Equal(date(2025, 1, 31)) || !occs[1].Date.Equal(date(2025, 3, 31)) {
			t.Errorf("unexpected occurrence dates: %v, %v", occs[0].Date, occs[1].Date)
		}
	})

	t.Run("carries_category", func(t *testing.T) {
		catID := uint(7)
		w := MonthWindow(2025, time.July)
		occs := Expand(Template{Amount: fifty, Day: 1, CategoryID: &catID, Description: "Rent"}, w)
		if len(occs) != 1 {
			t.Fatalf("expected 1 occurrence, got %d", len(occs))
		}
		if occs[0].CategoryID == nil || *occs[0].CategoryID != catID {
			t.Error("expected occurrence to carry the template's category")
		}
		if occs[0].Description != "Rent" {
			t.Errorf("expected description to carry over, got %q", occs[0].Description)
		}
	})

	t.Run("invalid_day", func(t *testing.T) {
		w := MonthWindow(2025, time.July)
		if occs := Expand(Template{Amount: fifty, Day: 0}, w); len(occs) != 0 {
			t.Errorf("expected no occurrences for day 0, got %d", len(occs))
		}
		if occs := Expand(Template{Amount: fifty, Day: 32}, w); len(occs) != 0 {
			t.Errorf("expected no occurrences for day 32, got %d", len(occs))
		}
	})
}
