package testfixtures

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/resort-scheduler/internal/application"
	"github.com/example/resort-scheduler/internal/scheduler"
)

// ServiceFactory assists tests with constructing application services using
// a deterministic clock.
type ServiceFactory struct {
	Clock *Clock
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{Clock: NewClock(time.Time{})}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// CalendarServiceDeps captures dependencies for constructing a calendar service.
type CalendarServiceDeps struct {
	Bookings application.BookingSource
	Venues   application.VenueCatalog
	Config   application.CalendarServiceConfig
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewCalendarService builds a calendar service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewCalendarService(deps.Bookings, deps.Venues, deps.Config, now, deps.Logger)
}

// StaticBookings is an in-memory BookingSource. Set replaces the corpus so
// tests can simulate edits between refreshes.
type StaticBookings struct {
	mu       sync.RWMutex
	bookings []scheduler.Booking
	err      error
}

// NewStaticBookings returns a source serving the given fixtures.
func NewStaticBookings(fixtures ...BookingFixture) *StaticBookings {
	s := &StaticBookings{}
	s.Set(fixtures...)
	return s
}

// Set replaces the served bookings.
func (s *StaticBookings) Set(fixtures ...BookingFixture) {
	bookings := make([]scheduler.Booking, 0, len(fixtures))
	for _, f := range fixtures {
		bookings = append(bookings, f.Scheduler())
	}
	s.mu.Lock()
	s.bookings = bookings
	s.mu.Unlock()
}

// Fail makes subsequent loads return err; nil restores normal behaviour.
func (s *StaticBookings) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// ListBookings implements application.BookingSource.
func (s *StaticBookings) ListBookings(ctx context.Context) ([]scheduler.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]scheduler.Booking(nil), s.bookings...), nil
}

// StaticVenues is an in-memory VenueCatalog.
type StaticVenues []VenueFixture

// ListVenues implements application.VenueCatalog.
func (s StaticVenues) ListVenues(ctx context.Context) ([]scheduler.Venue, error) {
	venues := make([]scheduler.Venue, 0, len(s))
	for _, f := range s {
		venues = append(venues, f.Scheduler())
	}
	return venues, nil
}
