package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/roombook/internal/availability"
	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/datewindow"
	"github.com/example/roombook/internal/selection"
)

// SelectionGateway exposes the collaborator operations a selection session
// needs: fresh booking data for validation and the final submission.
type SelectionGateway interface {
	ListRoomBookings(ctx context.Context, roomID string) ([]booking.Booking, error)
	CreateBooking(ctx context.Context, req booking.Request) (booking.Booking, error)
}

// selectionSession is one interactive attempt to pick a range for one room on
// one day. Sessions are independent: no state leaks between them.
type selectionSession struct {
	id          string
	userID      string
	roomID      string
	day         time.Time
	state       selection.State
	fingerprint string
	expiresAt   time.Time
}

// SelectionService owns the live selection sessions. Every operation
// recomputes the room's busy set from fresh collaborator data; when the busy
// picture changed since the previous step the held selection is discarded
// before the operation applies, so a range can never be confirmed against
// availability that silently went stale.
type SelectionService struct {
	gateway     SelectionGateway
	minHour     int
	maxHour     int
	window      func() datewindow.Window
	ttl         time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*selectionSession
}

// NewSelectionService wires dependencies for selection sessions.
func NewSelectionService(gateway SelectionGateway, minHour, maxHour int, window func() datewindow.Window, ttl time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SelectionService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &SelectionService{
		gateway:     gateway,
		minHour:     minHour,
		maxHour:     maxHour,
		window:      window,
		ttl:         ttl,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		sessions:    make(map[string]*selectionSession),
	}
}

func (s *SelectionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SelectionService", operation, attrs...)
}

// Open starts a fresh selection session for one room and day. The day is
// clamped into the booking window.
func (s *SelectionService) Open(ctx context.Context, principal Principal, roomID string, day time.Time) (SelectionView, error) {
	if s == nil || s.gateway == nil {
		return SelectionView{}, fmt.Errorf("selection gateway not configured")
	}
	if !principal.Authenticated() {
		return SelectionView{}, ErrUnauthorized
	}
	if roomID == "" {
		vErr := &ValidationError{}
		vErr.add("room_id", "room id is required")
		return SelectionView{}, vErr
	}

	clamped := s.window().Clamp(day)
	busy, err := s.fetchBusy(ctx, roomID, clamped)
	if err != nil {
		return SelectionView{}, err
	}

	session := &selectionSession{
		id:          s.idGenerator(),
		userID:      principal.UserID,
		roomID:      roomID,
		day:         clamped,
		state:       selection.Idle(),
		fingerprint: busy.Fingerprint(),
		expiresAt:   s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sweepLocked()
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.loggerWith(ctx, "Open", "session_id", session.id, "room_id", roomID).
		InfoContext(ctx, "selection session opened")

	return s.view(session, busy, ""), nil
}

// Pick applies one hour pick to the session.
func (s *SelectionService) Pick(ctx context.Context, principal Principal, sessionID string, hour int) (SelectionView, error) {
	session, err := s.lookup(principal, sessionID)
	if err != nil {
		return SelectionView{}, err
	}

	busy, err := s.fetchBusy(ctx, session.roomID, session.day)
	if err != nil {
		return SelectionView{}, err
	}

	message := ""
	s.mu.Lock()
	s.invalidateIfStaleLocked(session, busy)
	next, pickErr := selection.Pick(session.state, hour, busy, s.minHour, s.maxHour)
	session.state = next
	session.expiresAt = s.now().Add(s.ttl)
	s.mu.Unlock()

	if errors.Is(pickErr, selection.ErrRangeCrossesBusy) {
		message = pickErr.Error()
	}

	return s.view(session, busy, message), nil
}

// Reset discards the session's selection and returns it to idle.
func (s *SelectionService) Reset(ctx context.Context, principal Principal, sessionID string) (SelectionView, error) {
	session, err := s.lookup(principal, sessionID)
	if err != nil {
		return SelectionView{}, err
	}

	busy, err := s.fetchBusy(ctx, session.roomID, session.day)
	if err != nil {
		return SelectionView{}, err
	}

	s.mu.Lock()
	session.state = selection.Reset()
	session.fingerprint = busy.Fingerprint()
	session.expiresAt = s.now().Add(s.ttl)
	s.mu.Unlock()

	return s.view(session, busy, ""), nil
}

// Confirm revalidates the chosen range against fresh availability and
// submits it through the collaborator. On collaborator failure the session
// keeps its chosen range so the user may retry; on success the session is
// discarded.
func (s *SelectionService) Confirm(ctx context.Context, principal Principal, sessionID string) (result ConfirmResult, err error) {
	session, lookupErr := s.lookup(principal, sessionID)
	if lookupErr != nil {
		return ConfirmResult{}, lookupErr
	}

	logger := s.loggerWith(ctx, "Confirm", "session_id", session.id, "room_id", session.roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "confirmation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking confirmed", "booking_id", result.Booking.ID)
	}()

	busy, err := s.fetchBusy(ctx, session.roomID, session.day)
	if err != nil {
		return ConfirmResult{}, err
	}

	s.mu.Lock()
	if s.invalidateIfStaleLocked(session, busy) {
		s.mu.Unlock()
		vErr := &ValidationError{}
		vErr.add("selection", "availability changed; choose a new range")
		return ConfirmResult{}, vErr
	}
	state := session.state
	s.mu.Unlock()

	rng, confirmErr := selection.Confirm(state, busy, s.minHour, s.maxHour)
	if confirmErr != nil {
		var sErr *selection.ValidationError
		if errors.As(confirmErr, &sErr) {
			vErr := &ValidationError{}
			vErr.addAll(sErr.FieldErrors)
			return ConfirmResult{}, vErr
		}
		return ConfirmResult{}, confirmErr
	}

	req := booking.BuildRequest(session.roomID, session.day, rng.Start, rng.End)
	req.Reference = s.idGenerator()

	created, submitErr := s.gateway.CreateBooking(ctx, req)
	if submitErr != nil {
		// The confirmation did not happen; the chosen range stays in place
		// and the collaborator's reason travels upward unmodified.
		return ConfirmResult{}, submitErr
	}

	s.mu.Lock()
	delete(s.sessions, session.id)
	s.mu.Unlock()

	return ConfirmResult{Booking: created, Request: req}, nil
}

// Close discards a session. Closing an unknown session is a no-op.
func (s *SelectionService) Close(ctx context.Context, principal Principal, sessionID string) error {
	if s == nil {
		return nil
	}
	if !principal.Authenticated() {
		return ErrUnauthorized
	}

	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok && session.userID == principal.UserID {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	s.loggerWith(ctx, "Close", "session_id", sessionID).InfoContext(ctx, "selection session closed")
	return nil
}

func (s *SelectionService) lookup(principal Principal, sessionID string) (*selectionSession, error) {
	if s == nil || s.gateway == nil {
		return nil, fmt.Errorf("selection gateway not configured")
	}
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if session.userID != principal.UserID {
		return nil, ErrUnauthorized
	}
	if s.now().After(session.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// invalidateIfStaleLocked discards the held selection when the busy picture
// changed since the previous step. Reports whether a discard happened.
func (s *SelectionService) invalidateIfStaleLocked(session *selectionSession, busy availability.BusySet) bool {
	fingerprint := busy.Fingerprint()
	if session.fingerprint == fingerprint {
		return false
	}
	session.fingerprint = fingerprint
	if session.state.Phase == selection.PhaseIdle {
		return false
	}
	session.state = selection.Reset()
	return true
}

func (s *SelectionService) fetchBusy(ctx context.Context, roomID string, day time.Time) (availability.BusySet, error) {
	bookings, err := s.gateway.ListRoomBookings(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return availability.BusyHours(day, bookings, s.minHour, s.maxHour), nil
}

// sweepLocked drops expired sessions.
func (s *SelectionService) sweepLocked() {
	now := s.now()
	for id, session := range s.sessions {
		if now.After(session.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *SelectionService) view(session *selectionSession, busy availability.BusySet, message string) SelectionView {
	view := SelectionView{
		SessionID: session.id,
		RoomID:    session.roomID,
		Day:       session.day,
		BusyHours: busy.Hours(),
		Message:   message,
	}
	switch session.state.Phase {
	case selection.PhaseStartChosen:
		view.Phase = "start_chosen"
		start := session.state.Start
		view.StartHour = &start
	case selection.PhaseRangeChosen:
		view.Phase = "range_chosen"
		start, end := session.state.Start, session.state.End
		view.StartHour = &start
		view.EndHour = &end
	default:
		view.Phase = "idle"
	}
	return view
}
