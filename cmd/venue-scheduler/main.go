package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/resort-scheduler/internal/application"
	"github.com/example/resort-scheduler/internal/config"
	httptransport "github.com/example/resort-scheduler/internal/http"
	"github.com/example/resort-scheduler/internal/logging"
	"github.com/example/resort-scheduler/internal/persistence"
	"github.com/example/resort-scheduler/internal/persistence/sqlite"
	"github.com/example/resort-scheduler/internal/refresh"
	"github.com/example/resort-scheduler/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		bootstrap.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		bootstrap.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("venue scheduler stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := sqlite.OpenStore(ctx, sqlite.Config{DSN: cfg.SQLiteDSN, BusyTimeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if cfg.VenuesFile != "" {
		entries, err := config.LoadVenues(cfg.VenuesFile)
		if err != nil {
			return err
		}
		if err := seedVenues(ctx, store, entries); err != nil {
			return err
		}
		logger.Info("venue catalogue seeded", "file", cfg.VenuesFile, "venues", len(entries))
	}

	service := application.NewCalendarService(
		newBookingSourceAdapter(store, cfg.IgnoredStatuses),
		newVenueCatalogAdapter(store),
		application.CalendarServiceConfig{
			CacheTTL:        cfg.CacheTTL,
			CacheMaxEntries: cfg.CacheMaxEntries,
			MaxCalendarDays: cfg.MaxCalendarDays,
		},
		time.Now,
		logger,
	)

	refresher, err := refresh.New(service, cfg.RefreshInterval, logger)
	if err != nil {
		return fmt.Errorf("failed to create refresher: %w", err)
	}
	refresher.Start()
	defer func() {
		if err := refresher.Stop(); err != nil {
			logger.Error("failed to stop refresher", "error", err)
		}
	}()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Calendar: httptransport.NewCalendarHandler(service, logger),
		Bookings: httptransport.NewBookingHandler(service, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
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

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("venue scheduler listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server encountered error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		logger.Info("venue scheduler stopped")
		return nil
	})
	return g.Wait()
}

// seedVenues upserts the catalogue file so stored ids and names follow it.
func seedVenues(ctx context.Context, repo persistence.VenueRepository, entries []config.VenueEntry) error {
	for _, entry := range entries {
		venue := persistence.Venue{
			ID:       entry.ID,
			Name:     entry.Name,
			Capacity: cloneInt(entry.Capacity),
		}
		if strings.TrimSpace(entry.Area) != "" {
			area := entry.Area
			venue.Area = &area
		}
		if err := repo.UpsertVenue(ctx, venue); err != nil {
			return fmt.Errorf("failed to seed venue %q: %w", entry.ID, err)
		}
	}
	return nil
}

type bookingSourceAdapter struct {
	repo    persistence.BookingRepository
	exclude []string
}

func newBookingSourceAdapter(repo persistence.BookingRepository, excludeStatuses []string) *bookingSourceAdapter {
	return &bookingSourceAdapter{repo: repo, exclude: append([]string(nil), excludeStatuses...)}
}

// ListBookings loads every booking that can still occupy a venue.
func (a *bookingSourceAdapter) ListBookings(ctx context.Context) ([]scheduler.Booking, error) {
	models, err := a.repo.ListBookings(ctx, persistence.BookingFilter{ExcludeStatuses: a.exclude})
	if err != nil {
		return nil, err
	}
	bookings := make([]scheduler.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toSchedulerBooking(model))
	}
	return bookings, nil
}

type venueCatalogAdapter struct {
	repo persistence.VenueRepository
}

func newVenueCatalogAdapter(repo persistence.VenueRepository) *venueCatalogAdapter {
	return &venueCatalogAdapter{repo: repo}
}

func (a *venueCatalogAdapter) ListVenues(ctx context.Context) ([]scheduler.Venue, error) {
	models, err := a.repo.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	venues := make([]scheduler.Venue, 0, len(models))
	for _, model := range models {
		venues = append(venues, scheduler.Venue{
			ID:       model.ID,
			Name:     model.Name,
			Capacity: cloneInt(model.Capacity),
			Area:     deref(model.Area),
		})
	}
	return venues, nil
}

func toSchedulerBooking(model persistence.Booking) scheduler.Booking {
	booking := scheduler.Booking{
		ID:           model.ID,
		ClientName:   model.ClientName,
		EventType:    model.EventType,
		Status:       model.Status,
		EventDate:    model.EventDate,
		EventEndDate: deref(model.EventEndDate),
	}
	if model.EventDuration != nil {
		booking.EventDuration = *model.EventDuration
	}
	if len(model.Sessions) > 0 {
		booking.Sessions = make([]scheduler.Session, 0, len(model.Sessions))
	}
	for _, s := range model.Sessions {
		booking.Sessions = append(booking.Sessions, scheduler.Session{
			ID:           s.ID,
			Name:         s.Name,
			Label:        deref(s.Label),
			Venue:        s.Venue,
			Date:         s.Date,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			AllDay:       s.AllDay,
			Guests:       cloneInt(s.Guests),
			Instructions: deref(s.Instructions),
		})
	}
	if hall := deref(model.Hall); strings.TrimSpace(hall) != "" {
		booking.Legacy = &scheduler.LegacySlot{
			Hall:      hall,
			StartTime: deref(model.EventStartTime),
			EndTime:   deref(model.EventEndTime),
		}
	}
	return booking
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
