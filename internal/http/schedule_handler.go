package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/booking"
)

type scheduleService interface {
	Schedule(ctx context.Context, principal application.Principal) ([]application.ScheduleEntry, error)
	Cancel(ctx context.Context, principal application.Principal, bookingID string) error
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	entries, err := h.service.Schedule(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]scheduleEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toScheduleEntryDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{Entries: dtos})
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Cancel", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for cancel")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.UserID, "booking_id", bookingID)

	if err := h.service.Cancel(r.Context(), principal, bookingID); err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type scheduleEntryDTO struct {
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	RoomName   string `json:"room_name,omitempty"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CanCancel  bool   `json:"can_cancel"`
	CanCheckIn bool   `json:"can_check_in"`
}

type scheduleResponse struct {
	Entries []scheduleEntryDTO `json:"entries"`
}

func toScheduleEntryDTO(entry application.ScheduleEntry) scheduleEntryDTO {
	return scheduleEntryDTO{
		BookingID:  entry.Booking.ID,
		RoomID:     entry.Booking.RoomID,
		RoomName:   entry.RoomName,
		Status:     string(entry.Booking.Status),
		StartTime:  booking.FormatLocal(entry.Booking.StartTime),
		EndTime:    booking.FormatLocal(entry.Booking.EndTime),
		CanCancel:  entry.CanCancel,
		CanCheckIn: entry.CanCheckIn,
	}
}
