// Package backend is the HTTP gateway to the booking service that owns room
// and booking data. The engine never persists anything itself; this client is
// the external collaborator the rest of the application reads from and
// submits mutations to.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/roombook/internal/booking"
)

// GatewayError carries a failure reported by the booking backend. Message is
// relayed to callers unmodified so the user sees the backend's own reason.
type GatewayError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("booking backend returned status %d", e.StatusCode)
}

// Room is the catalog entry the backend exposes per meeting room, including
// the bookings needed to compute its availability.
type Room struct {
	ID         string
	Name       string
	Capacity   int
	Floor      int
	AmenityIDs []int
	Bookings   []booking.Booking
}

// Client talks to the booking backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	location   *time.Location
}

// NewClient builds a gateway client for the given base URL. Booking
// timestamps from the backend are wall-clock values interpreted in loc.
func NewClient(baseURL string, timeout time.Duration, loc *time.Location, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		location:   loc,
	}
}

// ListRooms fetches the room catalog, each room carrying its bookings.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var wire []wireRoom
	if err := c.get(ctx, "/api/v1/user/rooms", nil, &wire); err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(wire))
	for _, w := range wire {
		rooms = append(rooms, w.toRoom(c.location))
	}
	return rooms, nil
}

// ListUserBookings fetches the bookings belonging to the given user.
func (c *Client) ListUserBookings(ctx context.Context, userID string) ([]booking.Booking, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}
	var wire []wireBooking
	if err := c.get(ctx, "/api/v1/bookings/bookings", query, &wire); err != nil {
		return nil, err
	}
	return toBookings(wire, c.location), nil
}

// ListRoomBookings fetches every booking for one room.
func (c *Client) ListRoomBookings(ctx context.Context, roomID string) ([]booking.Booking, error) {
	rooms, err := c.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if room.ID == roomID {
			return room.Bookings, nil
		}
	}
	return nil, &GatewayError{StatusCode: http.StatusNotFound, Message: "room not found"}
}

// CreateBooking submits a booking request and returns the stored booking.
func (c *Client) CreateBooking(ctx context.Context, req booking.Request) (booking.Booking, error) {
	var created wireBooking
	if err := c.post(ctx, "/api/v1/bookings", req, &created); err != nil {
		return booking.Booking{}, err
	}
	return created.toBooking(c.location), nil
}

// CancelBooking asks the backend to cancel the booking with the given id.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	path := fmt.Sprintf("/api/v1/bookings/%s/cancel", url.PathEscape(bookingID))
	return c.post(ctx, path, nil, nil)
}

type wireRoom struct {
	ID        json.Number   `json:"id"`
	Name      string        `json:"name"`
	Capacity  int           `json:"capacity"`
	Floor     int           `json:"floor"`
	Amenities []wireAmenity `json:"amenities"`
	Bookings  []wireBooking `json:"bookings"`
}

type wireAmenity struct {
	ID int `json:"id"`
}

type wireBooking struct {
	ID        json.Number `json:"id"`
	RoomID    json.Number `json:"roomId"`
	Status    string      `json:"status"`
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Reference string      `json:"reference"`
}

func (w wireRoom) toRoom(loc *time.Location) Room {
	amenityIDs := make([]int, 0, len(w.Amenities))
	for _, amenity := range w.Amenities {
		amenityIDs = append(amenityIDs, amenity.ID)
	}
	return Room{
		ID:         w.ID.String(),
		Name:       w.Name,
		Capacity:   w.Capacity,
		Floor:      w.Floor,
		AmenityIDs: amenityIDs,
		Bookings:   toBookings(w.Bookings, loc),
	}
}

func (w wireBooking) toBooking(loc *time.Location) booking.Booking {
	return booking.Booking{
		ID:        w.ID.String(),
		RoomID:    w.RoomID.String(),
		Status:    booking.Status(w.Status),
		StartTime: parseWallClock(w.StartTime, loc),
		EndTime:   parseWallClock(w.EndTime, loc),
		Reference: w.Reference,
	}
}

func toBookings(wire []wireBooking, loc *time.Location) []booking.Booking {
	if len(wire) == 0 {
		return nil
	}
	bookings := make([]booking.Booking, 0, len(wire))
	for _, w := range wire {
		bookings = append(bookings, w.toBooking(loc))
	}
	return bookings
}

// parseWallClock accepts the timestamp renderings the backend emits: the
// millisecond local layout this client submits, the same without
// milliseconds, and RFC 3339. Unparseable values become the zero time, which
// every interval test treats as an empty interval.
func parseWallClock(value string, loc *time.Location) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := booking.ParseLocal(value, loc); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc)
	}
	return time.Time{}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Message: fmt.Sprintf("booking backend unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gerr := &GatewayError{StatusCode: resp.StatusCode, Message: extractMessage(resp.Body)}
		c.logger.Error("booking backend request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"message", gerr.Message,
		)
		return gerr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &GatewayError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid response from booking backend: %v", err)}
	}
	return nil
}

// extractMessage pulls the human readable reason out of an error body. The
// backend uses either {"message": ...} or {"error": ...}.
func extractMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
