package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/roombook/internal/availability"
	"github.com/example/roombook/internal/booking"
	"github.com/example/roombook/internal/interval"
)

// Export is a rendered report ready for download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService builds the administrator usage report from the collaborator's
// room and booking data.
type ReportService struct {
	rooms   RoomDirectory
	minHour int
	maxHour int
	now     func() time.Time
	logger  *slog.Logger
}

// NewReportService constructs a report service for the given business hours.
func NewReportService(rooms RoomDirectory, minHour, maxHour int, now func() time.Time, logger *slog.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{rooms: rooms, minHour: minHour, maxHour: maxHour, now: now, logger: defaultLogger(logger)}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

// Daily builds the usage report for one day; a zero day means today.
// Utilization is the share of business hours with at least one confirmed
// booking, as a percentage with one decimal; the average across rooms is
// weighted by capacity. A day with no bookings yields a valid all-zero report.
func (s *ReportService) Daily(ctx context.Context, principal Principal, day time.Time, filter ReportFilter) (report Report, err error) {
	if s == nil || s.rooms == nil {
		return Report{}, fmt.Errorf("room directory not configured")
	}
	if !principal.IsAdmin {
		return Report{}, ErrUnauthorized
	}

	// An unspecified day means the current one.
	if day.IsZero() {
		day = s.now()
	}

	logger := s.loggerWith(ctx, "Daily", "date", day.Format("2006-01-02"))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "report built", "rooms", report.TotalRooms, "bookings", report.TotalBookings)
	}()

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return Report{}, err
	}

	day = interval.StartOfDay(day)
	report = Report{Date: day}

	capacitySum := 0
	weightedSum := 0.0
	for _, room := range rooms {
		row := s.roomRow(room.ID, room.Name, room.Capacity, day, room.Bookings)
		report.TotalRooms++
		report.TotalBookings += row.TotalBookings
		capacitySum += row.Capacity
		weightedSum += row.UtilizationPercent * float64(row.Capacity)
		if matchesReportFilter(row, filter) {
			report.Rooms = append(report.Rooms, row)
		}
	}
	if capacitySum > 0 {
		report.AvgUtilization = round1(weightedSum / float64(capacitySum))
	}

	sortReportRows(report.Rooms, filter)
	return report, nil
}

func (s *ReportService) roomRow(id, name string, capacity int, day time.Time, bookings []booking.Booking) ReportRow {
	row := ReportRow{RoomID: id, Name: name, Capacity: capacity}

	dayStart, dayEnd := interval.DayBounds(day)
	for _, b := range bookings {
		if !interval.Overlaps(b.StartTime, b.EndTime, dayStart, dayEnd) {
			continue
		}
		row.TotalBookings++
		switch b.Status {
		case booking.StatusConfirmed:
			row.ConfirmedBookings++
		case booking.StatusCancelled:
			row.CancelledBookings++
		}
	}

	busy := availability.BusyHours(day, bookings, s.minHour, s.maxHour)
	hours := s.maxHour - s.minHour
	if hours > 0 {
		row.UtilizationPercent = round1(float64(len(busy)) / float64(hours) * 100)
	}
	return row
}

func matchesReportFilter(row ReportRow, filter ReportFilter) bool {
	if filter.NameContains != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(filter.NameContains)) {
		return false
	}
	if row.Capacity < filter.MinCapacity {
		return false
	}
	if row.UtilizationPercent < filter.MinUtilization {
		return false
	}
	return true
}

func sortReportRows(rows []ReportRow, filter ReportFilter) {
	less := func(a, b ReportRow) bool { return a.Name < b.Name }
	switch filter.SortBy {
	case "capacity":
		less = func(a, b ReportRow) bool { return a.Capacity < b.Capacity }
	case "bookings":
		less = func(a, b ReportRow) bool { return a.TotalBookings < b.TotalBookings }
	case "utilization":
		less = func(a, b ReportRow) bool { return a.UtilizationPercent < b.UtilizationPercent }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if filter.SortDesc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

var reportHeader = []string{"Room", "Capacity", "Confirmed", "Cancelled", "Total", "Utilization %"}

// ExportCSV renders the report as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, principal Principal, day time.Time, filter ReportFilter) (Export, error) {
	report, err := s.Daily(ctx, principal, day, filter)
	if err != nil {
		return Export{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return Export{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.Rooms {
		record := []string{
			row.Name,
			strconv.Itoa(row.Capacity),
			strconv.Itoa(row.ConfirmedBookings),
			strconv.Itoa(row.CancelledBookings),
			strconv.Itoa(row.TotalBookings),
			strconv.FormatFloat(row.UtilizationPercent, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return Export{}, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, fmt.Errorf("flush csv: %w", err)
	}

	return Export{
		Filename:    exportFilename(report.Date, "csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

// ExportXLSX renders the report as an Excel workbook with a bold header row.
func (s *ReportService) ExportXLSX(ctx context.Context, principal Principal, day time.Time, filter ReportFilter) (Export, error) {
	report, err := s.Daily(ctx, principal, day, filter)
	if err != nil {
		return Export{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rooms"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return Export{}, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return Export{}, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Export{}, fmt.Errorf("create header style: %w", err)
	}
	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return Export{}, fmt.Errorf("locate header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return Export{}, fmt.Errorf("write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return Export{}, fmt.Errorf("style header cell: %w", err)
		}
	}

	for i, row := range report.Rooms {
		values := []any{row.Name, row.Capacity, row.ConfirmedBookings, row.CancelledBookings, row.TotalBookings, row.UtilizationPercent}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return Export{}, fmt.Errorf("locate data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return Export{}, fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return Export{}, fmt.Errorf("render workbook: %w", err)
	}

	return Export{
		Filename:    exportFilename(report.Date, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func exportFilename(day time.Time, ext string) string {
	return fmt.Sprintf("rooms-dashboard-%s.%s", day.Format("2006-01-02"), ext)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
