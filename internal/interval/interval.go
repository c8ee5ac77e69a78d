// Package interval provides the pure time arithmetic the booking engine is
// built on: day boundaries, half-open overlap tests, and hour-slot bounds.
// All functions are total over well-formed inputs and keep the location of
// the anchor time, so callers operate in the viewer's wall-clock frame.
package interval

import "time"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayBounds returns the half-open interval covering the calendar day of day:
// midnight to midnight of the following day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := StartOfDay(day)
	return start, start.AddDate(0, 0, 1)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Zero-length intervals never overlap
// anything.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HourSlotBounds returns the half-open interval [day+hour:00, day+hour+1:00)
// anchored to the calendar day of day.
func HourSlotBounds(day time.Time, hour int) (time.Time, time.Time) {
	start := StartOfDay(day).Add(time.Duration(hour) * time.Hour)
	return start, start.Add(time.Hour)
}

// AddDays returns the day n calendar days after day, normalized to midnight.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
