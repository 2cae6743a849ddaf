package application

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/resort-scheduler/internal/scheduler"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// BookingSource supplies the booking corpus the engine reads.
type BookingSource interface {
	ListBookings(ctx context.Context) ([]scheduler.Booking, error)
}

// VenueCatalog supplies the venue reference data.
type VenueCatalog interface {
	ListVenues(ctx context.Context) ([]scheduler.Venue, error)
}

// CalendarServiceConfig tunes the service. Zero values select defaults.
type CalendarServiceConfig struct {
	CacheTTL        time.Duration
	CacheMaxEntries int
	// MaxCalendarDays bounds the window accepted by Calendar.
	MaxCalendarDays int
}

const defaultMaxCalendarDays = 366

// CalendarService answers calendar and conflict queries against an immutable
// snapshot of the booking corpus. Refresh swaps the snapshot atomically.
type CalendarService struct {
	bookings BookingSource
	venues   VenueCatalog
	config   CalendarServiceConfig
	now      func() time.Time
	logger   *slog.Logger

	snapshot atomic.Pointer[Snapshot]
	loads    singleflight.Group
	cache    *resultCache
}

// NewCalendarService wires dependencies for calendar operations.
func NewCalendarService(bookings BookingSource, venues VenueCatalog, config CalendarServiceConfig, now func() time.Time, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	if config.MaxCalendarDays <= 0 {
		config.MaxCalendarDays = defaultMaxCalendarDays
	}
	return &CalendarService{
		bookings: bookings,
		venues:   venues,
		config:   config,
		now:      now,
		logger:   defaultLogger(logger),
		cache:    newResultCache(config.CacheTTL, config.CacheMaxEntries, now),
	}
}

// Refresh reloads the corpus. The published snapshot is replaced only when
// its fingerprint changes; concurrent callers share one load.
func (s *CalendarService) Refresh(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	_, err, _ := s.loads.Do("refresh", func() (any, error) {
		return s.load(ctx)
	})
	return err
}

func (s *CalendarService) load(ctx context.Context) (*Snapshot, error) {
	logger := serviceLogger(ctx, s.logger, "CalendarService", "Refresh")
	started := s.now()

	var bookings []scheduler.Booking
	if s.bookings != nil {
		loaded, err := s.bookings.ListBookings(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load bookings", "error", err)
			return nil, fmt.Errorf("%w: load bookings: %v", ErrUnavailable, err)
		}
		bookings = loaded
	}

	var venues []scheduler.Venue
	if s.venues != nil {
		loaded, err := s.venues.ListVenues(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load venues", "error", err)
			return nil, fmt.Errorf("%w: load venues: %v", ErrUnavailable, err)
		}
		venues = loaded
	}

	fingerprint, err := fingerprintOf(bookings, venues)
	if err != nil {
		return nil, fmt.Errorf("fingerprint snapshot: %w", err)
	}

	if current := s.snapshot.Load(); current != nil && current.Fingerprint == fingerprint {
		logger.DebugContext(ctx, "booking snapshot unchanged", "fingerprint", fingerprint)
		return current, nil
	}

	next := &Snapshot{
		Bookings:    bookings,
		Venues:      venues,
		Detector:    scheduler.NewDetector(bookings),
		Fingerprint: fingerprint,
		LoadedAt:    s.now(),
	}
	s.snapshot.Store(next)
	s.cache.Invalidate()

	logger.InfoContext(ctx, "booking snapshot refreshed",
		"fingerprint", fingerprint,
		"bookings", len(bookings),
		"venues", len(venues),
		"duration", s.now().Sub(started),
	)
	return next, nil
}

// Snapshot returns the published snapshot, loading one on first use.
func (s *CalendarService) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if current := s.snapshot.Load(); current != nil {
		return current, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	current := s.snapshot.Load()
	if current == nil {
		return nil, ErrUnavailable
	}
	return current, nil
}

// Status reports readiness without triggering a load.
func (s *CalendarService) Status() Status {
	if s == nil {
		return Status{}
	}
	current := s.snapshot.Load()
	if current == nil {
		return Status{}
	}
	return Status{
		Ready:       true,
		Fingerprint: current.Fingerprint,
		LoadedAt:    current.LoadedAt,
		Bookings:    len(current.Bookings),
		Venues:      len(current.Venues),
	}
}

// Venues returns the venue catalogue of the current snapshot.
func (s *CalendarService) Venues(ctx context.Context) ([]scheduler.Venue, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Venues, nil
}

// Calendar projects every booking onto the inclusive window and marks ringed
// occurrences.
func (s *CalendarService) Calendar(ctx context.Context, params CalendarParams) ([]CalendarEntry, error) {
	logger := serviceLogger(ctx, s.logger, "CalendarService", "Calendar", "from", params.From, "to", params.To)

	vErr := &ValidationError{}
	from := parseDayField(vErr, "from", params.From)
	to := parseDayField(vErr, "to", params.To)
	if !vErr.HasErrors() {
		switch {
		case to < from:
			vErr.add("to", "must not be before from")
		case int(to-from)+1 > s.config.MaxCalendarDays:
			vErr.add("to", fmt.Sprintf("window must not exceed %d days", s.config.MaxCalendarDays))
		}
	}
	if vErr.HasErrors() {
		logger.WarnContext(ctx, "calendar request rejected", "error_kind", ErrorKind(vErr), "fields", vErr.FieldErrors)
		return nil, vErr
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(snap, "calendar", from.String(), to.String())
	entries, hit, err := memoize(s.cache, key, func() ([]CalendarEntry, error) {
		return buildCalendar(snap, from, to), nil
	})
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "calendar served", "entries", len(entries), "cache_hit", hit)
	return entries, nil
}

func buildCalendar(snap *Snapshot, from, to scheduler.Day) []CalendarEntry {
	byID := make(map[string]scheduler.Booking, len(snap.Bookings))
	for _, booking := range snap.Bookings {
		byID[booking.ID] = booking
	}

	occurrences := scheduler.ExpandRange(snap.Bookings, from, to)
	entries := make([]CalendarEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		booking := byID[occ.BookingID]
		entries = append(entries, CalendarEntry{
			BookingID:  booking.ID,
			ClientName: booking.ClientName,
			EventType:  booking.EventType,
			Status:     booking.Status,
			Occurrence: occ.Occurrence,
			Ringed:     snap.Detector.Ringed(booking, occ.Occurrence),
		})
	}
	return entries
}

// VenueConflicts lists the venues double-booked on date.
func (s *CalendarService) VenueConflicts(ctx context.Context, date string) ([]string, error) {
	day, err := parseDateParam(date)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	venues, _, err := memoize(s.cache, cacheKey(snap, "venue-conflicts", day.String()), func() ([]string, error) {
		return snap.Detector.VenueConflictsForDate(day), nil
	})
	return venues, err
}

// Occupancy returns the per-venue allocation of date.
func (s *CalendarService) Occupancy(ctx context.Context, date string) ([]scheduler.VenueOccupancy, error) {
	day, err := parseDateParam(date)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	occupancy, _, err := memoize(s.cache, cacheKey(snap, "occupancy", day.String()), func() ([]scheduler.VenueOccupancy, error) {
		return snap.Detector.Occupancy(day), nil
	})
	return occupancy, err
}

// CheckConflicts validates an edited booking and checks its sessions against
// the corpus and against each other. Results are not cached: the booking is
// caller supplied.
func (s *CalendarService) CheckConflicts(ctx context.Context, booking scheduler.Booking) (ConflictCheck, error) {
	logger := serviceLogger(ctx, s.logger, "CalendarService", "CheckConflicts", "booking_id", booking.ID)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ConflictCheck{}, err
	}

	check := ConflictCheck{
		Violations: scheduler.ValidateBooking(booking),
		Sessions:   snap.Detector.CheckBooking(booking),
	}
	if check.HasConflicts() {
		logger.InfoContext(ctx, "booking has venue conflicts", "sessions", len(check.Sessions))
	}
	return check, nil
}

// BookingDays returns the day groups and occurrences of a stored booking.
// A non-nil draft is overlaid on the grouping while session numbers stay
// keyed to the committed list.
func (s *CalendarService) BookingDays(ctx context.Context, bookingID string, draft *scheduler.Session) (BookingDays, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return BookingDays{}, err
	}
	id := strings.TrimSpace(bookingID)
	booking, ok := snap.Detector.Booking(id)
	if !ok {
		return BookingDays{}, fmt.Errorf("booking %q: %w", id, ErrNotFound)
	}

	days := scheduler.GroupSessionsByDay(booking)
	if draft != nil {
		days = scheduler.GroupSessionsWithDraft(booking, draft)
	}
	return BookingDays{
		Booking:     booking,
		Days:        days,
		Occurrences: scheduler.ExpandToOccurrences(booking),
	}, nil
}

// ValidateSession checks a single session as entered in the editor.
func (s *CalendarService) ValidateSession(_ context.Context, session scheduler.Session) []scheduler.Violation {
	return scheduler.ValidateSession(session)
}

func parseDateParam(value string) (scheduler.Day, error) {
	vErr := &ValidationError{}
	day := parseDayField(vErr, "date", value)
	if vErr.HasErrors() {
		return 0, vErr
	}
	return day, nil
}

func parseDayField(vErr *ValidationError, field, value string) scheduler.Day {
	if strings.TrimSpace(value) == "" {
		vErr.add(field, "is required")
		return 0
	}
	day, ok := scheduler.ParseDay(value)
	if !ok {
		vErr.add(field, "must be a YYYY-MM-DD date")
		return 0
	}
	return day
}

func cacheKey(snap *Snapshot, operation string, args ...string) string {
	return snap.Fingerprint + "|" + operation + "|" + strings.Join(args, "|")
}

// fingerprintOf hashes the corpus so unchanged reloads keep the cache warm.
func fingerprintOf(bookings []scheduler.Booking, venues []scheduler.Venue) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(h)
	if err := enc.Encode(bookings); err != nil {
		return "", err
	}
	if err := enc.Encode(venues); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}
