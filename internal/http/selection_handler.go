package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roombook/internal/application"
)

type selectionService interface {
	Open(ctx context.Context, principal application.Principal, roomID string, day time.Time) (application.SelectionView, error)
	Pick(ctx context.Context, principal application.Principal, sessionID string, hour int) (application.SelectionView, error)
	Reset(ctx context.Context, principal application.Principal, sessionID string) (application.SelectionView, error)
	Confirm(ctx context.Context, principal application.Principal, sessionID string) (application.ConfirmResult, error)
	Close(ctx context.Context, principal application.Principal, sessionID string) error
}

type SelectionHandler struct {
	service   selectionService
	responder responder
	logger    *slog.Logger
}

func NewSelectionHandler(service selectionService, logger *slog.Logger) *SelectionHandler {
	base := defaultLogger(logger)
	return &SelectionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SelectionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SelectionHandler", operation, attrs...)
}

func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req createSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode selection request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	day := time.Time{}
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		day = parsed
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	view, err := h.service.Open(r.Context(), principal, strings.TrimSpace(req.RoomID), day)
	if err != nil {
		logger.ErrorContext(r.Context(), "selection open failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", view.SessionID).InfoContext(r.Context(), "selection opened")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSelectionDTO(view))
}

func (h *SelectionHandler) Pick(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SelectionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Pick", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode pick request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Pick", "principal_id", principal.UserID, "session_id", sessionID, "hour", req.Hour)

	view, err := h.service.Pick(r.Context(), principal, sessionID, req.Hour)
	if err != nil {
		logger.ErrorContext(r.Context(), "selection pick failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSelectionDTO(view))
}

func (h *SelectionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SelectionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Reset", "principal_id", principal.UserID, "session_id", sessionID)

	view, err := h.service.Reset(r.Context(), principal, sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "selection reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSelectionDTO(view))
}

func (h *SelectionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SelectionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Confirm", "principal_id", principal.UserID, "session_id", sessionID)

	result, err := h.service.Confirm(r.Context(), principal, sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "selection confirm failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", result.Booking.ID).InfoContext(r.Context(), "booking confirmed")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, confirmResponse{
		BookingID: result.Booking.ID,
		RoomID:    result.Request.RoomID,
		StartTime: result.Request.StartTime,
		EndTime:   result.Request.EndTime,
		Status:    string(result.Booking.Status),
	})
}

func (h *SelectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SelectionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.Close(r.Context(), principal, sessionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type createSelectionRequest struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
}

type pickRequest struct {
	Hour int `json:"hour"`
}

type selectionDTO struct {
	SessionID string `json:"session_id"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	Phase     string `json:"phase"`
	StartHour *int   `json:"start_hour,omitempty"`
	EndHour   *int   `json:"end_hour,omitempty"`
	BusyHours []int  `json:"busy_hours"`
	Message   string `json:"message,omitempty"`
}

type confirmResponse struct {
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

func toSelectionDTO(view application.SelectionView) selectionDTO {
	return selectionDTO{
		SessionID: view.SessionID,
		RoomID:    view.RoomID,
		Date:      view.Day.Format(dateLayout),
		Phase:     view.Phase,
		StartHour: view.StartHour,
		EndHour:   view.EndHour,
		BusyHours: emptyIfNil(view.BusyHours),
		Message:   view.Message,
	}
}
