package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roombook/internal/datewindow"
)

type CalendarHandler struct {
	window    func() datewindow.Window
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(window func() datewindow.Window, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{window: window, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// Month renders the 42 cell month grid used by the date picker, anchored to
// the requested month or to the current one.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.window == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	window := h.window()

	anchor := window.Today
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
			return
		}
		anchor = parsed
	}

	cells := window.MonthGrid(anchor)
	dtos := make([]calendarCellDTO, 0, len(cells))
	for _, cell := range cells {
		dtos = append(dtos, calendarCellDTO{
			Date:           cell.Day.Format(dateLayout),
			InCurrentMonth: cell.InCurrentMonth,
			Selectable:     cell.Selectable,
		})
	}

	h.log(r.Context(), "Month", "month", anchor.Format("2006-01")).
		InfoContext(r.Context(), "calendar rendered")

	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarResponse{
		Month:        anchor.Format("2006-01"),
		Today:        window.Today.Format(dateLayout),
		MaxDay:       window.MaxDay.Format(dateLayout),
		CanPrevMonth: window.CanNavigateMonth(anchor, datewindow.DirectionPrev),
		CanNextMonth: window.CanNavigateMonth(anchor, datewindow.DirectionNext),
		Cells:        dtos,
	})
}

type calendarCellDTO struct {
	Date           string `json:"date"`
	InCurrentMonth bool   `json:"in_current_month"`
	Selectable     bool   `json:"selectable"`
}

type calendarResponse struct {
	Month        string            `json:"month"`
	Today        string            `json:"today"`
	MaxDay       string            `json:"max_day"`
	CanPrevMonth bool              `json:"can_prev_month"`
	CanNextMonth bool              `json:"can_next_month"`
	Cells        []calendarCellDTO `json:"cells"`
}
