package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/roombook/internal/application"
)

type roomService interface {
	ListRooms(ctx context.Context, filter application.RoomFilter) ([]application.Room, error)
}

type availabilityService interface {
	Availability(ctx context.Context, roomID string, day time.Time) (application.Availability, error)
}

type RoomHandler struct {
	service      roomService
	availability availabilityService
	responder    responder
	logger       *slog.Logger
}

func NewRoomHandler(service roomService, availability availabilityService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, availability: availability, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	filter := application.RoomFilter{}
	if raw := strings.TrimSpace(query.Get("min_capacity")); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		filter.MinCapacity = capacity
	}
	if raw := strings.TrimSpace(query.Get("amenities")); raw != "" {
		for _, amenity := range strings.Split(raw, ",") {
			if amenity = strings.TrimSpace(amenity); amenity != "" {
				filter.Amenities = append(filter.Amenities, amenity)
			}
		}
	}

	logger := h.log(r.Context(), "List", "min_capacity", filter.MinCapacity)

	rooms, err := h.service.ListRooms(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "room listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomListResponse{Rooms: dtos})
}

func (h *RoomHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.availability == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Availability", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for availability")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	day, err := parseDateParam(r, "date")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Availability", "room_id", roomID, "date", day.Format(dateLayout))

	view, err := h.availability.Availability(r.Context(), roomID, day)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{
		RoomID:     view.RoomID,
		Date:       view.Day.Format(dateLayout),
		BusyHours:  emptyIfNil(view.BusyHours),
		StartHours: emptyIfNil(view.StartHours),
		EndHours:   emptyIfNil(view.EndHours),
	})
}

const dateLayout = "2006-01-02"

// parseDateParam reads a YYYY-MM-DD query parameter; a missing value is
// signalled with a zero time the service layer resolves to today.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return day, nil
}

func emptyIfNil(hours []int) []int {
	if hours == nil {
		return []int{}
	}
	return hours
}

type roomDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Floor     int      `json:"floor"`
	Amenities []string `json:"amenities"`
}

type roomListResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type availabilityResponse struct {
	RoomID     string `json:"room_id"`
	Date       string `json:"date"`
	BusyHours  []int  `json:"busy_hours"`
	StartHours []int  `json:"start_hours"`
	EndHours   []int  `json:"end_hours"`
}

func toRoomDTO(room application.Room) roomDTO {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Floor:     room.Floor,
		Amenities: amenities,
	}
}
