package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/roombook/internal/availability"
	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/datewindow"
	"github.com/example/roombook/internal/interval"
)

// BookingGateway exposes the collaborator operations the booking service needs.
type BookingGateway interface {
	ListRoomBookings(ctx context.Context, roomID string) ([]booking.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// RoomNameResolver resolves a room id to a display name for schedule rows.
type RoomNameResolver interface {
	GetRoom(ctx context.Context, roomID string) (Room, error)
}

// BookingService computes availability views and the personal schedule, and
// relays cancellations to the collaborator.
type BookingService struct {
	gateway BookingGateway
	rooms   RoomNameResolver
	minHour int
	maxHour int
	window  func() datewindow.Window
	now     func() time.Time
	logger  *slog.Logger
}

// NewBookingService wires dependencies for booking views.
func NewBookingService(gateway BookingGateway, rooms RoomNameResolver, minHour, maxHour int, window func() datewindow.Window, now func() time.Time, logger *slog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		gateway: gateway,
		rooms:   rooms,
		minHour: minHour,
		maxHour: maxHour,
		window:  window,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// Availability returns the busy hours plus the start and end candidates for
// one room on one day. The day is clamped into the booking window first, so
// an unconstrained date input can never escape it. Start candidates are the
// free hours in [minHour, maxHour); end candidates are the free hours after
// minHour plus the closing hour, which is a legal end boundary but never a
// start even when the final slot is booked.
func (s *BookingService) Availability(ctx context.Context, roomID string, day time.Time) (view Availability, err error) {
	if s == nil || s.gateway == nil {
		return Availability{}, fmt.Errorf("booking gateway not configured")
	}

	clamped := s.window().Clamp(day)
	logger := s.loggerWith(ctx, "Availability", "room_id", roomID, "day", clamped.Format("2006-01-02"))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute availability", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	bookings, err := s.gateway.ListRoomBookings(ctx, roomID)
	if err != nil {
		return Availability{}, err
	}

	busy := availability.BusyHours(clamped, bookings, s.minHour, s.maxHour)

	startHours := make([]int, 0, s.maxHour-s.minHour)
	for hour := s.minHour; hour < s.maxHour; hour++ {
		if !busy.Contains(hour) {
			startHours = append(startHours, hour)
		}
	}
	endHours := make([]int, 0, s.maxHour-s.minHour+1)
	for hour := s.minHour + 1; hour <= s.maxHour; hour++ {
		if hour < s.maxHour && busy.Contains(hour) {
			continue
		}
		endHours = append(endHours, hour)
	}

	return Availability{
		RoomID:     roomID,
		Day:        clamped,
		BusyHours:  busy.Hours(),
		StartHours: startHours,
		EndHours:   endHours,
	}, nil
}

// Schedule lists the user's bookings in display order: upcoming confirmed
// first, then past confirmed, completed, and cancelled; within each group the
// earliest start comes first.
func (s *BookingService) Schedule(ctx context.Context, principal Principal) (entries []ScheduleEntry, err error) {
	if s == nil || s.gateway == nil {
		return nil, fmt.Errorf("booking gateway not configured")
	}
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Schedule", "user_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list schedule", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	bookings, err := s.gateway.ListUserBookings(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ordered := make([]booking.Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := scheduleRank(ordered[i], now), scheduleRank(ordered[j], now)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	entries = make([]ScheduleEntry, 0, len(ordered))
	for _, b := range ordered {
		entries = append(entries, ScheduleEntry{
			Booking:    b,
			RoomName:   s.roomName(ctx, b.RoomID),
			CanCancel:  CanCancel(b, now),
			CanCheckIn: CanCheckIn(b, now),
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries, nil
}

// Cancel relays a cancellation to the collaborator. The booking id is passed
// through; the engine does no further processing on it.
func (s *BookingService) Cancel(ctx context.Context, principal Principal, bookingID string) (err error) {
	if s == nil || s.gateway == nil {
		return fmt.Errorf("booking gateway not configured")
	}
	if !principal.Authenticated() {
		return ErrUnauthorized
	}
	if bookingID == "" {
		vErr := &ValidationError{}
		vErr.add("booking_id", "booking id is required")
		return vErr
	}

	logger := s.loggerWith(ctx, "Cancel", "user_id", principal.UserID, "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking cancelled")
	}()

	return s.gateway.CancelBooking(ctx, bookingID)
}

func (s *BookingService) roomName(ctx context.Context, roomID string) string {
	if s.rooms == nil {
		return ""
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return ""
	}
	return room.Name
}

// scheduleRank orders schedule rows: 0 upcoming confirmed, 1 past confirmed,
// 2 completed, 3 cancelled, 99 anything unknown.
func scheduleRank(b booking.Booking, now time.Time) int {
	switch b.Status {
	case booking.StatusConfirmed:
		if !b.StartTime.Before(now) {
			return 0
		}
		return 1
	case booking.StatusCompleted:
		return 2
	case booking.StatusCancelled:
		return 3
	default:
		return 99
	}
}

// CanCancel reports whether a booking may still be cancelled: it must be
// confirmed and not yet started.
func CanCancel(b booking.Booking, now time.Time) bool {
	return b.Status == booking.StatusConfirmed && b.StartTime.After(now)
}

// CanCheckIn reports whether check-in is open: a confirmed booking currently
// in progress on today's date.
func CanCheckIn(b booking.Booking, now time.Time) bool {
	if b.Status != booking.StatusConfirmed {
		return false
	}
	if now.Before(b.StartTime) || now.After(b.EndTime) {
		return false
	}
	return interval.SameDay(b.StartTime, now)
}
