// Package recurrence implements the window and expansion rules for
// recurring fixed expenses. A fixed-expense row is a template: its stored
// date is only the first occurrence, and the occurrences that actually
// count toward a balance are derived here, on the fly, for the queried
// window. Nothing in this package touches storage.
package recurrence

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEndBeforeStart is returned by NewWindow when the window is inverted.
var ErrEndBeforeStart = errors.New("window end date is before start date")

// Window is an inclusive range of whole calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// DateOnly strips the time-of-day component, keeping year/month/day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewWindow builds a window from explicit start and end dates, both
// inclusive. Time-of-day components are discarded.
func NewWindow(start, end time.Time) (Window, error) {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return Window{}, ErrEndBeforeStart
	}
	return Window{Start: start, End: end}, nil
}

// MonthWindow builds the window covering a full calendar month,
// from the first day through the last day inclusive.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether the given day falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Template describes a recurring fixed expense to be projected onto
// calendar days. Day is the day of month (1-31) the expense recurs on;
// EndDate, when set, is the last day an occurrence may fall on.
type Template struct {
	Amount      decimal.Decimal
	Description string
	CategoryID  *uint
	Day         int
	EndDate     *time.Time
}

// Occurrence is a single, non-persisted projection of a template onto a
// concrete calendar day within a window.
type Occurrence struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  *uint
}

// Expand walks every calendar day of the window and emits one occurrence
// for each day whose day-of-month equals the template's recurrence day.
//
// Rules:
//   - An end date before the window start means the template is exhausted
//     and contributes nothing.
//   - No occurrence is emitted after the end date (inclusive comparison:
//     an occurrence exactly on the end date still counts).
//   - A recurrence day that a month does not reach (e.g. 31 in February)
//     is skipped for that month, not clamped.
func Expand(tpl Template, w Window) []Occurrence {
	if tpl.Day < 1 || tpl.Day > 31 {
		return nil
	}

	var end *time.Time
	if tpl.EndDate != nil {
		e := DateOnly(*tpl.EndDate)
		if e.Before(w.Start) {
			return nil
		}
		end = &e
	}

	var out []Occurrence
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if d.Day() != tpl.Day {
			continue
		}
		if end != nil && d.After(*end) {
			break
		}
		out = append(out, Occurrence{
			Date:        d,
			Amount:      tpl.Amount,
			Description: tpl.Description,
			CategoryID:  tpl.CategoryID,
		})
	}
	return out
}
