package application

import (
	"time"

	"github.com/example/roombook/internal/booking"
)

// Principal is the client identity the fronting proxy supplies per request.
// The application never derives it from ambient state; requests without one
// are rejected where an identity is required.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Authenticated reports whether the request carried a client identity.
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

// Room is the catalog view exposed to UI callers, with amenity ids resolved
// to display names.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Floor     int
	Amenities []string
	Bookings  []booking.Booking
}

// RoomFilter narrows the room listing.
type RoomFilter struct {
	MinCapacity int
	Amenities   []string
}

// Availability is the busy/free picture for one room on one day.
type Availability struct {
	RoomID     string
	Day        time.Time
	BusyHours  []int
	StartHours []int
	EndHours   []int
}

// ScheduleEntry is one row of a user's personal schedule.
type ScheduleEntry struct {
	Booking    booking.Booking
	RoomName   string
	CanCancel  bool
	CanCheckIn bool
}

// SelectionView describes a selection session to UI callers.
type SelectionView struct {
	SessionID string
	RoomID    string
	Day       time.Time
	Phase     string
	StartHour *int
	EndHour   *int
	BusyHours []int
	Message   string
}

// ConfirmResult is the outcome of a successful confirmation.
type ConfirmResult struct {
	Booking booking.Booking
	Request booking.Request
}

// ReportRow is one room's usage figures for the report day.
type ReportRow struct {
	RoomID             string
	Name               string
	Capacity           int
	ConfirmedBookings  int
	CancelledBookings  int
	TotalBookings      int
	UtilizationPercent float64
}

// Report is the admin usage summary for one day.
type Report struct {
	Date           time.Time
	TotalRooms     int
	TotalBookings  int
	AvgUtilization float64
	Rooms          []ReportRow
}

// ReportFilter narrows and orders report rows.
type ReportFilter struct {
	NameContains   string
	MinCapacity    int
	MinUtilization float64
	SortBy         string
	SortDesc       bool
}
