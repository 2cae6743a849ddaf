package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/resort-scheduler/internal/persistence"
	"github.com/example/resort-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Store    *sqlite.Store
	Bookings persistence.BookingRepository
	Venues   persistence.VenueRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "venues.db")
	store, err := sqlite.OpenStore(context.Background(), sqlite.Config{DSN: path, BusyTimeout: 5 * time.Second})
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	harness := &SQLiteHarness{
		Store:    store,
		Bookings: store,
		Venues:   store,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedBookings saves every fixture, failing the test on error.
func (h *SQLiteHarness) SeedBookings(tb testing.TB, fixtures ...BookingFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if _, err := h.Bookings.SaveBooking(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("failed to seed booking %s: %v", f.ID, err)
		}
	}
}

// SeedVenues upserts every fixture, failing the test on error.
func (h *SQLiteHarness) SeedVenues(tb testing.TB, fixtures ...VenueFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Venues.UpsertVenue(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("failed to seed venue %s: %v", f.ID, err)
		}
	}
}
