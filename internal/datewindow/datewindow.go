// Package datewindow enforces the navigable booking window (today through
// today plus a configured number of days) and builds the calendar grid used
// for month browsing.
package datewindow

import (
	"time"

	"github.com/example/roombook/internal/interval"
)

// Window is the inclusive span of days within which browsing and booking are
// permitted.
type Window struct {
	Today  time.Time
	MaxDay time.Time
}

// NewWindow anchors a window to now's calendar day, extending maxForwardDays
// into the future.
func NewWindow(now time.Time, maxForwardDays int) Window {
	today := interval.StartOfDay(now)
	return Window{
		Today:  today,
		MaxDay: interval.AddDays(today, maxForwardDays),
	}
}

// Clamp normalizes day to midnight and forces it inside the window. Clamping
// is idempotent, so every mutation point (stepper, calendar cell, raw date
// input) can apply it unconditionally.
func (w Window) Clamp(day time.Time) time.Time {
	d := interval.StartOfDay(day)
	if d.Before(w.Today) {
		return w.Today
	}
	if d.After(w.MaxDay) {
		return w.MaxDay
	}
	return d
}

// Contains reports whether day lies inside the window.
func (w Window) Contains(day time.Time) bool {
	d := interval.StartOfDay(day)
	return !d.Before(w.Today) && !d.After(w.MaxDay)
}

// StepDay moves current by delta days, clamped to the window.
func (w Window) StepDay(current time.Time, delta int) time.Time {
	return w.Clamp(interval.AddDays(interval.StartOfDay(current), delta))
}

// CanStepBack reports whether a previous-day step from current would move at
// all; callers disable the control when it would not.
func (w Window) CanStepBack(current time.Time) bool {
	return interval.StartOfDay(current).After(w.Today)
}

// CanStepForward reports whether a next-day step from current would move.
func (w Window) CanStepForward(current time.Time) bool {
	return interval.StartOfDay(current).Before(w.MaxDay)
}

// GridCell is one slot of the 42-cell month grid.
type GridCell struct {
	Day            time.Time
	InCurrentMonth bool
	Selectable     bool
}

// gridCells is six full weeks.
const gridCells = 42

// MonthGrid builds the calendar grid for the month containing monthAnchor:
// exactly 42 cells starting from the Sunday on or before the 1st. Cells
// outside the month are marked InCurrentMonth=false but follow the same
// window rule as any other day.
func (w Window) MonthGrid(monthAnchor time.Time) []GridCell {
	anchor := interval.StartOfDay(monthAnchor)
	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	start := interval.AddDays(firstOfMonth, -int(firstOfMonth.Weekday()))

	cells := make([]GridCell, 0, gridCells)
	for i := 0; i < gridCells; i++ {
		day := interval.AddDays(start, i)
		cells = append(cells, GridCell{
			Day:            day,
			InCurrentMonth: day.Month() == firstOfMonth.Month() && day.Year() == firstOfMonth.Year(),
			Selectable:     w.Contains(day),
		})
	}
	return cells
}

// Direction identifies a month navigation step.
type Direction int

const (
	// DirectionPrev navigates to the previous month.
	DirectionPrev Direction = -1
	// DirectionNext navigates to the following month.
	DirectionNext Direction = 1
)

// CanNavigateMonth reports whether the month arrow in the given direction
// should be enabled: previous requires the prior month to still contain a
// reachable day, next requires the following month to start inside the
// window.
func (w Window) CanNavigateMonth(monthAnchor time.Time, direction Direction) bool {
	anchor := interval.StartOfDay(monthAnchor)
	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	switch direction {
	case DirectionPrev:
		lastOfPrev := interval.AddDays(firstOfMonth, -1)
		return !lastOfPrev.Before(w.Today)
	case DirectionNext:
		firstOfNext := firstOfMonth.AddDate(0, 1, 0)
		return !firstOfNext.After(w.MaxDay)
	default:
		return false
	}
}
