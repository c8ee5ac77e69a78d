// Package booking defines the booking read model shared across the engine and
// the canonical request payload submitted to the booking backend.
package booking

import (
	"time"

	"github.com/example/roombook/internal/interval"
)

// Status identifies the lifecycle state of a booking.
type Status string

const (
	// StatusConfirmed marks an active booking that occupies its room.
	StatusConfirmed Status = "CONFIRMED"
	// StatusCancelled marks a booking withdrawn before it took place.
	StatusCancelled Status = "CANCELLED"
	// StatusCompleted marks a booking whose time range has passed.
	StatusCompleted Status = "COMPLETED"
)

// Booking is the read model supplied by the booking backend. Only CONFIRMED
// bookings occupy a room; the engine never mutates these records.
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Status    Status    `json:"status"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reference string    `json:"reference,omitempty"`
}

// localLayout renders a wall-clock timestamp with millisecond precision and
// no UTC offset. The backend interprets these as local time; applying any
// zone conversion here would shift the booked hours.
const localLayout = "2006-01-02T15:04:05.000"

// Request is the canonical payload for creating a booking.
type Request struct {
	RoomID    string `json:"roomId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reference string `json:"reference,omitempty"`
}

// BuildRequest converts a confirmed selection into a request anchored to day
// at start:00 and end:00 wall-clock time.
func BuildRequest(roomID string, day time.Time, startHour, endHour int) Request {
	startAt, _ := interval.HourSlotBounds(day, startHour)
	endAt, _ := interval.HourSlotBounds(day, endHour)
	return Request{
		RoomID:    roomID,
		StartTime: FormatLocal(startAt),
		EndTime:   FormatLocal(endAt),
	}
}

// FormatLocal renders t as a timezone-naive local timestamp.
func FormatLocal(t time.Time) string {
	return t.Format(localLayout)
}

// ParseLocal parses a timezone-naive local timestamp in the given location.
func ParseLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(localLayout, value, loc)
}
