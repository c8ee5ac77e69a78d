package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/roombook/internal/application"
)

type reportService interface {
	Daily(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Report, error)
	ExportCSV(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Export, error)
	ExportXLSX(ctx context.Context, principal application.Principal, day time.Time, filter application.ReportFilter) (application.Export, error)
}

type AdminHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(service reportService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	day, err := parseDateParam(r, "date")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	filter, err := parseReportFilter(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Report", "principal_id", principal.UserID)

	report, err := h.service.Daily(r.Context(), principal, day, filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "report build failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	rows := make([]reportRowDTO, 0, len(report.Rooms))
	for _, row := range report.Rooms {
		rows = append(rows, reportRowDTO{
			RoomID:             row.RoomID,
			Name:               row.Name,
			Capacity:           row.Capacity,
			ConfirmedBookings:  row.ConfirmedBookings,
			CancelledBookings:  row.CancelledBookings,
			TotalBookings:      row.TotalBookings,
			UtilizationPercent: row.UtilizationPercent,
		})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reportResponse{
		Date:           report.Date.Format(dateLayout),
		TotalRooms:     report.TotalRooms,
		TotalBookings:  report.TotalBookings,
		AvgUtilization: report.AvgUtilization,
		Rooms:          rows,
	})
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	day, err := parseDateParam(r, "date")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	filter, err := parseReportFilter(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	logger := h.log(r.Context(), "Export", "principal_id", principal.UserID, "format", format)

	var export application.Export
	switch format {
	case "csv":
		export, err = h.service.ExportCSV(r.Context(), principal, day, filter)
	case "xlsx":
		export, err = h.service.ExportXLSX(r.Context(), principal, day, filter)
	default:
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnsupportedFormat)
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "report export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		logger.ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}

func parseReportFilter(r *http.Request) (application.ReportFilter, error) {
	query := r.URL.Query()
	filter := application.ReportFilter{
		NameContains: strings.TrimSpace(query.Get("name")),
		SortBy:       strings.TrimSpace(query.Get("sort")),
		SortDesc:     strings.EqualFold(strings.TrimSpace(query.Get("order")), "desc"),
	}

	if raw := strings.TrimSpace(query.Get("min_capacity")); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			return application.ReportFilter{}, errBadRequestBody
		}
		filter.MinCapacity = capacity
	}
	if raw := strings.TrimSpace(query.Get("min_utilization")); raw != "" {
		utilization, err := strconv.ParseFloat(raw, 64)
		if err != nil || utilization < 0 {
			return application.ReportFilter{}, errBadRequestBody
		}
		filter.MinUtilization = utilization
	}
	return filter, nil
}

type reportRowDTO struct {
	RoomID             string  `json:"room_id"`
	Name               string  `json:"name"`
	Capacity           int     `json:"capacity"`
	ConfirmedBookings  int     `json:"confirmed_bookings"`
	CancelledBookings  int     `json:"cancelled_bookings"`
	TotalBookings      int     `json:"total_bookings"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

type reportResponse struct {
	Date           string         `json:"date"`
	TotalRooms     int            `json:"total_rooms"`
	TotalBookings  int            `json:"total_bookings"`
	AvgUtilization float64        `json:"avg_utilization"`
	Rooms          []reportRowDTO `json:"rooms"`
}
