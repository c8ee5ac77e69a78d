package application

import (
	"context"
	"time"

	"github.com/example/roombook/internal/backend"
	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/datewindow"
)

// stubBackend stands in for the collaborator client in service tests.
type stubBackend struct {
	rooms           []backend.Room
	listRoomsErr    error
	roomBookings    map[string][]booking.Booking
	roomBookingsErr error
	userBookings    []booking.Booking
	userBookingsErr error
	cancelled       []string
	cancelErr       error
	created         []booking.Request
	createResult    booking.Booking
	createErr       error
}

func (s *stubBackend) ListRooms(ctx context.Context) ([]backend.Room, error) {
	if s.listRoomsErr != nil {
		return nil, s.listRoomsErr
	}
	return s.rooms, nil
}

func (s *stubBackend) ListRoomBookings(ctx context.Context, roomID string) ([]booking.Booking, error) {
	if s.roomBookingsErr != nil {
		return nil, s.roomBookingsErr
	}
	return s.roomBookings[roomID], nil
}

func (s *stubBackend) ListUserBookings(ctx context.Context, userID string) ([]booking.Booking, error) {
	if s.userBookingsErr != nil {
		return nil, s.userBookingsErr
	}
	return s.userBookings, nil
}

func (s *stubBackend) CancelBooking(ctx context.Context, bookingID string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

func (s *stubBackend) CreateBooking(ctx context.Context, req booking.Request) (booking.Booking, error) {
	if s.createErr != nil {
		return booking.Booking{}, s.createErr
	}
	s.created = append(s.created, req)
	return s.createResult, nil
}

// stubRoomResolver maps room ids to catalog entries for schedule rows.
type stubRoomResolver struct {
	rooms map[string]Room
}

func (s *stubRoomResolver) GetRoom(ctx context.Context, roomID string) (Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return Room{}, ErrNotFound
	}
	return room, nil
}

// testDay is the fixed reference day the service tests run against.
var testDay = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func testNow() time.Time {
	return testDay.Add(8 * time.Hour)
}

func testWindow() datewindow.Window {
	return datewindow.NewWindow(testNow(), 30)
}

// hourBooking builds a booking covering [startHour, endHour) on testDay.
func hourBooking(id, roomID string, status booking.Status, startHour, endHour int) booking.Booking {
	return booking.Booking{
		ID:        id,
		RoomID:    roomID,
		Status:    status,
		StartTime: testDay.Add(time.Duration(startHour) * time.Hour),
		EndTime:   testDay.Add(time.Duration(endHour) * time.Hour),
	}
}
