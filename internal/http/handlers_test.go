package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/backend"
	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/datewindow"
)

type stubRoomService struct {
	rooms      []application.Room
	lastFilter application.RoomFilter
	err        error
}

func (s *stubRoomService) ListRooms(ctx context.Context, filter application.RoomFilter) ([]application.Room, error) {
	s.lastFilter = filter
	return s.rooms, s.err
}

type stubAvailabilityService struct {
	view application.Availability
	err  error
}

func (s *stubAvailabilityService) Availability(ctx context.Context, roomID string, day time.Time) (application.Availability, error) {
	if s.err != nil {
		return application.Availability{}, s.err
	}
	view := s.view
	view.RoomID = roomID
	return view, nil
}

type stubScheduleService struct {
	entries   []application.ScheduleEntry
	cancelled []string
	err       error
}

func (s *stubScheduleService) Schedule(ctx context.Context, principal application.Principal) ([]application.ScheduleEntry, error) {
	return s.entries, s.err
}

func (s *stubScheduleService) Cancel(ctx context.Context, principal application.Principal, bookingID string) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

type stubSelectionService struct {
	view       application.SelectionView
	result     application.ConfirmResult
	err        error
	confirmErr error
	closed     []string
}

func (s *stubSelectionService) Open(ctx context.Context, principal application.Principal, roomID string, day time.Time) (application.SelectionView, error) {
	return s.view, s.err
}

func (s *stubSelectionService) Pick(ctx context.Context, principal application.Principal, sessionID string, hour int) (application.SelectionView, error) {
	return s.view, s.err
}

func (s *stubSelectionService) Reset(ctx context.Context, principal application.Principal, sessionID string) (application.SelectionView, error) {
	return s.view, s.err
}

func (s *stubSelectionService) Confirm(ctx context.Context, principal application.Principal, sessionID string) (application.ConfirmResult, error) {
	if s.confirmErr != nil {
		return application.ConfirmResult{}, s.confirmErr
	}
	return s.result, nil
}

func (s *stubSelectionService) Close(ctx context.Context, principal application.Principal, sessionID string) error {
	s.closed = append(s.closed, sessionID)
	return s.err
}

type stubReportService struct {
	report application.Report
	export application.Export
	err    error
}

func (s *stubReportService) Daily(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Report, error) {
	return s.report, s.err
}

func (s *stubReportService) ExportCSV(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Export, error) {
	return s.export, s.err
}

func (s *stubReportService) ExportXLSX(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Export, error) {
	return s.export, s.err
}

type routerStubs struct {
	rooms        *stubRoomService
	availability *stubAvailabilityService
	schedule     *stubScheduleService
	selections   *stubSelectionService
	report       *stubReportService
}

func newTestRouter() (http.Handler, *routerStubs) {
	stubs := &routerStubs{
		rooms:        &stubRoomService{},
		availability: &stubAvailabilityService{},
		schedule:     &stubScheduleService{},
		selections:   &stubSelectionService{},
		report:       &stubReportService{},
	}
	window := func() datewindow.Window {
		return datewindow.NewWindow(time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC), 30)
	}
	router := NewRouter(RouterConfig{
		Rooms:      NewRoomHandler(stubs.rooms, stubs.availability, nil),
		Calendar:   NewCalendarHandler(window, nil),
		Schedule:   NewScheduleHandler(stubs.schedule, nil),
		Selections: NewSelectionHandler(stubs.selections, nil),
		Admin:      NewAdminHandler(stubs.report, nil),
		Middleware: []func(http.Handler) http.Handler{RequireClient(nil)},
	})
	return router, stubs
}

func doRequest(handler http.Handler, method, target, body string, identity bool) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if identity {
		req.Header.Set("X-User-ID", "u1")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireClient(t *testing.T) {
	router, _ := newTestRouter()

	t.Run("rejects requests without an identity header", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/rooms", "", false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("grants admin via the role header", func(t *testing.T) {
		probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || !principal.IsAdmin {
				t.Errorf("expected admin principal, got %+v", principal)
			}
		})
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-User-ID", "u1")
		req.Header.Set("X-User-Role", "admin")
		RequireClient(nil)(probe).ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestRoomEndpoints(t *testing.T) {
	t.Run("lists rooms with query filters applied", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.rooms.rooms = []application.Room{{ID: "r1", Name: "Aurora", Capacity: 12, Amenities: []string{"Projector"}}}

		rec := doRequest(router, http.MethodGet, "/rooms?min_capacity=8&amenities=Projector,WiFi", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stubs.rooms.lastFilter.MinCapacity != 8 || len(stubs.rooms.lastFilter.Amenities) != 2 {
			t.Fatalf("filter not propagated: %+v", stubs.rooms.lastFilter)
		}

		var payload roomListResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(payload.Rooms) != 1 || payload.Rooms[0].Name != "Aurora" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	})

	t.Run("rejects a malformed capacity filter", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodGet, "/rooms?min_capacity=many", "", true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("serves availability for a room and day", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.availability.view = application.Availability{
			Day:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			BusyHours:  []int{11},
			StartHours: []int{9, 10},
			EndHours:   []int{10, 11, 18},
		}

		rec := doRequest(router, http.MethodGet, "/rooms/r1/availability?date=2025-06-01", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload availabilityResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.RoomID != "r1" || payload.Date != "2025-06-01" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if len(payload.BusyHours) != 1 || payload.BusyHours[0] != 11 {
			t.Fatalf("unexpected busy hours %v", payload.BusyHours)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodGet, "/rooms/r1/availability?date=June", "", true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects unsupported methods", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodPost, "/rooms", "", true)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
			t.Fatalf("expected Allow header GET, got %q", allow)
		}
	})
}

func TestCalendarEndpoint(t *testing.T) {
	t.Run("renders a 42 cell grid", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodGet, "/calendar?month=2025-06", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var payload calendarResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(payload.Cells) != 42 {
			t.Fatalf("expected 42 cells, got %d", len(payload.Cells))
		}
		if payload.Today != "2025-06-01" || payload.MaxDay != "2025-07-01" {
			t.Fatalf("unexpected window bounds: %+v", payload)
		}
		if payload.CanPrevMonth {
			t.Error("expected previous month navigation disabled on the current month")
		}
		if !payload.CanNextMonth {
			t.Error("expected next month navigation enabled while the window extends into it")
		}
	})

	t.Run("rejects a malformed month", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodGet, "/calendar?month=Summer", "", true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestScheduleEndpoints(t *testing.T) {
	t.Run("lists the caller's schedule", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.schedule.entries = []application.ScheduleEntry{{
			Booking: booking.Booking{
				ID:        "b1",
				RoomID:    "r1",
				Status:    booking.StatusConfirmed,
				StartTime: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2025, time.June, 1, 11, 0, 0, 0, time.UTC),
			},
			RoomName:  "Aurora",
			CanCancel: true,
		}}

		rec := doRequest(router, http.MethodGet, "/schedule", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var payload scheduleResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		entry := payload.Entries[0]
		if entry.BookingID != "b1" || entry.RoomName != "Aurora" || !entry.CanCancel {
			t.Fatalf("unexpected entry: %+v", entry)
		}
		if entry.StartTime != "2025-06-01T09:00:00.000" {
			t.Fatalf("unexpected start time %q", entry.StartTime)
		}
	})

	t.Run("relays cancellations", func(t *testing.T) {
		router, stubs := newTestRouter()
		rec := doRequest(router, http.MethodPost, "/bookings/b7/cancel", "", true)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stubs.schedule.cancelled) != 1 || stubs.schedule.cancelled[0] != "b7" {
			t.Fatalf("expected cancel of b7, got %v", stubs.schedule.cancelled)
		}
	})

	t.Run("maps sentinel errors onto status codes", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.schedule.err = application.ErrNotFound
		rec := doRequest(router, http.MethodPost, "/bookings/b7/cancel", "", true)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSelectionEndpoints(t *testing.T) {
	t.Run("opens a session", func(t *testing.T) {
		router, stubs := newTestRouter()
		start := 10
		stubs.selections.view = application.SelectionView{
			SessionID: "s1",
			RoomID:    "r1",
			Day:       time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			Phase:     "start_chosen",
			StartHour: &start,
		}

		rec := doRequest(router, http.MethodPost, "/selections", `{"room_id":"r1","date":"2025-06-01"}`, true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload selectionDTO
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.SessionID != "s1" || payload.Phase != "start_chosen" || payload.StartHour == nil {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	})

	t.Run("confirms a session", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.selections.result = application.ConfirmResult{
			Booking: booking.Booking{ID: "b9", Status: booking.StatusConfirmed},
			Request: booking.Request{RoomID: "r1", StartTime: "2025-06-01T09:00:00.000", EndTime: "2025-06-01T11:00:00.000"},
		}

		rec := doRequest(router, http.MethodPost, "/selections/s1/confirm", "", true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload confirmResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.BookingID != "b9" || payload.StartTime != "2025-06-01T09:00:00.000" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	})

	t.Run("relays the collaborator's rejection message verbatim", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.selections.confirmErr = &backend.GatewayError{StatusCode: 409, Message: "Room is already booked for this time"}

		rec := doRequest(router, http.MethodPost, "/selections/s1/confirm", "", true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		var payload errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.Message != "Room is already booked for this time" {
			t.Fatalf("expected verbatim message, got %q", payload.Message)
		}
	})

	t.Run("maps an expired session to 410", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.selections.err = application.ErrSessionExpired

		rec := doRequest(router, http.MethodPost, "/selections/s1/picks", `{"hour":10}`, true)
		if rec.Code != http.StatusGone {
			t.Fatalf("expected 410, got %d", rec.Code)
		}
	})

	t.Run("maps validation failures to 422 with field details", func(t *testing.T) {
		router, stubs := newTestRouter()
		vErr := &application.ValidationError{FieldErrors: map[string]string{"selection": "select a start and end time"}}
		stubs.selections.confirmErr = vErr

		rec := doRequest(router, http.MethodPost, "/selections/s1/confirm", "", true)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		var payload errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.Errors["selection"] != "select a start and end time" {
			t.Fatalf("expected field detail, got %+v", payload.Errors)
		}
	})

	t.Run("closes a session", func(t *testing.T) {
		router, stubs := newTestRouter()
		rec := doRequest(router, http.MethodDelete, "/selections/s1", "", true)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if len(stubs.selections.closed) != 1 || stubs.selections.closed[0] != "s1" {
			t.Fatalf("expected close of s1, got %v", stubs.selections.closed)
		}
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("serves the report", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.report.report = application.Report{
			Date:           time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			TotalRooms:     2,
			TotalBookings:  3,
			AvgUtilization: 66.7,
			Rooms:          []application.ReportRow{{RoomID: "r1", Name: "Aurora", UtilizationPercent: 100}},
		}

		rec := doRequest(router, http.MethodGet, "/admin/report?date=2025-06-01", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var payload reportResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if payload.AvgUtilization != 66.7 || len(payload.Rooms) != 1 {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	})

	t.Run("maps forbidden access to 403", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.report.err = application.ErrUnauthorized
		rec := doRequest(router, http.MethodGet, "/admin/report", "", true)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("serves an export with download headers", func(t *testing.T) {
		router, stubs := newTestRouter()
		stubs.report.export = application.Export{
			Filename:    "rooms-dashboard-2025-06-01.csv",
			ContentType: "text/csv",
			Data:        []byte("Room,Capacity\n"),
		}

		rec := doRequest(router, http.MethodGet, "/admin/report/export?format=csv", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/csv" {
			t.Fatalf("unexpected content type %q", got)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "rooms-dashboard-2025-06-01.csv") {
			t.Fatalf("unexpected disposition %q", got)
		}
	})

	t.Run("rejects an unknown export format", func(t *testing.T) {
		router, _ := newTestRouter()
		rec := doRequest(router, http.MethodGet, "/admin/report/export?format=pdf", "", true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
