package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/backend"
	"github.com/example/roombook/internal/config"
	"github.com/example/roombook/internal/datewindow"
	httptransport "github.com/example/roombook/internal/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	gateway := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, location, logger)

	now := time.Now
	window := func() datewindow.Window {
		return datewindow.NewWindow(now().In(location), cfg.MaxForwardDays)
	}

	roomService := application.NewRoomService(gateway, logger)
	bookingService := application.NewBookingService(gateway, roomService, cfg.MinHour, cfg.MaxHour, window, now, logger)
	selectionService := application.NewSelectionService(gateway, cfg.MinHour, cfg.MaxHour, window, cfg.SelectionTTL, uuid.NewString, now, logger)
	reportService := application.NewReportService(gateway, cfg.MinHour, cfg.MaxHour, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:      httptransport.NewRoomHandler(roomService, bookingService, logger),
		Calendar:   httptransport.NewCalendarHandler(window, logger),
		Schedule:   httptransport.NewScheduleHandler(bookingService, logger),
		Selections: httptransport.NewSelectionHandler(selectionService, logger),
		Admin:      httptransport.NewAdminHandler(reportService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireClient(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
