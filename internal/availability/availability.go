// Package availability converts a room's bookings into the per-day busy/free
// model the selection engine validates picks against.
package availability

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/interval"
)

// BusySet holds the hour-slot starts occupied by confirmed bookings on one
// calendar day.
type BusySet map[int]struct{}

// Contains reports whether the slot starting at hour is busy.
func (s BusySet) Contains(hour int) bool {
	_, ok := s[hour]
	return ok
}

// Hours returns the busy hour starts in ascending order.
func (s BusySet) Hours() []int {
	if len(s) == 0 {
		return nil
	}
	hours := make([]int, 0, len(s))
	for hour := range s {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	return hours
}

// Fingerprint returns a stable key for the set. Two sets with the same busy
// hours produce the same fingerprint, so callers can detect that fresh
// booking data changed the availability picture mid-selection.
func (s BusySet) Fingerprint() string {
	hours := s.Hours()
	if len(hours) == 0 {
		return ""
	}
	parts := make([]string, len(hours))
	for i, hour := range hours {
		parts[i] = strconv.Itoa(hour)
	}
	return strings.Join(parts, ",")
}

// BusyHours computes the BusySet for day from the supplied bookings.
//
// Only CONFIRMED bookings whose interval overlaps the day contribute. Each
// hour in [minHour, maxHour) is marked busy when its slot bounds overlap the
// booking interval, so a 09:30-10:30 booking occupies both hour 9 and hour
// 10. Bookings entirely outside business hours contribute nothing, and an
// inverted interval (end before start) is treated as empty.
func BusyHours(day time.Time, bookings []booking.Booking, minHour, maxHour int) BusySet {
	busy := make(BusySet)
	if len(bookings) == 0 {
		return busy
	}

	dayStart, dayEnd := interval.DayBounds(day)
	for _, b := range bookings {
		if b.Status != booking.StatusConfirmed {
			continue
		}
		if !interval.Overlaps(b.StartTime, b.EndTime, dayStart, dayEnd) {
			continue
		}
		for hour := minHour; hour < maxHour; hour++ {
			slotStart, slotEnd := interval.HourSlotBounds(day, hour)
			if interval.Overlaps(slotStart, slotEnd, b.StartTime, b.EndTime) {
				busy[hour] = struct{}{}
			}
		}
	}
	return busy
}

// IsRangeFree reports whether no hour in [start, end) is busy. A zero-length
// range is vacuously free.
func IsRangeFree(start, end int, busy BusySet) bool {
	for hour := start; hour < end; hour++ {
		if busy.Contains(hour) {
			return false
		}
	}
	return true
}
