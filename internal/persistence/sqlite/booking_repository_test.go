package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/resort-scheduler/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "venues.db")
	pool, err := Open(context.Background(), Config{DSN: dbPath, BusyTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func setupBookingRepositoryTest(t *testing.T) *BookingRepository {
	t.Helper()
	return NewBookingRepository(setupPool(t))
}

func strPtr(s string) *string { return &s }
func intVal(i int) *int        { return &i }

func TestBookingRepository_SaveAndGet(t *testing.T) {
	t.Parallel()

	repo := setupBookingRepositoryTest(t)
	ctx := context.Background()

	saved, err := repo.SaveBooking(ctx, persistence.Booking{
		ID:           "bk-1",
		ClientName:   "Tan Family",
		EventType:    "Wedding",
		Status:       "confirmed",
		EventDate:    "2024-05-01",
		EventEndDate: strPtr("2024-05-02"),
		Sessions: []persistence.Session{
			{ID: "s-1", Name: "Lunch", Venue: "Grand Hall", Date: "2024-05-01", StartTime: "12:00", EndTime: "14:00", Guests: intVal(80)},
			{Name: "Dinner", Label: strPtr("Dinner"), Venue: "Grand Hall", Date: "2024-05-01", StartTime: "19:00", EndTime: "22:00"},
			{ID: "s-3", Name: "Ceremony", Venue: "Garden", Date: "2024-05-02", AllDay: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved.Sessions, 3)
	assert.NotEmpty(t, saved.Sessions[1].ID, "missing session id should be generated")

	got, err := repo.GetBooking(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "Tan Family", got.ClientName)
	require.NotNil(t, got.EventEndDate)
	assert.Equal(t, "2024-05-02", *got.EventEndDate)
	assert.Nil(t, got.EventDuration)
	assert.Nil(t, got.Hall)

	require.Len(t, got.Sessions, 3)
	assert.Equal(t, "s-1", got.Sessions[0].ID)
	assert.Equal(t, saved.Sessions[1].ID, got.Sessions[1].ID)
	assert.Equal(t, "s-3", got.Sessions[2].ID)
	require.NotNil(t, got.Sessions[0].Guests)
	assert.Equal(t, 80, *got.Sessions[0].Guests)
	require.NotNil(t, got.Sessions[1].Label)
	assert.Equal(t, "Dinner", *got.Sessions[1].Label)
	assert.True(t, got.Sessions[2].AllDay)
	assert.False(t, got.Sessions[0].AllDay)
}

func TestBookingRepository_SaveReplacesSessions(t *testing.T) {
	t.Parallel()

	repo := setupBookingRepositoryTest(t)
	ctx := context.Background()

	first, err := repo.SaveBooking(ctx, persistence.Booking{
		ID:        "bk-2",
		EventDate: "2024-06-10",
		Sessions: []persistence.Session{
			{ID: "a", Name: "Breakfast", Venue: "Terrace", Date: "2024-06-10", StartTime: "07:00", EndTime: "09:00"},
			{ID: "b", Name: "Lunch", Venue: "Terrace", Date: "2024-06-10", StartTime: "12:00", EndTime: "13:00"},
		},
	})
	require.NoError(t, err)

	_, err = repo.SaveBooking(ctx, persistence.Booking{
		ID:        "bk-2",
		Status:    "confirmed",
		EventDate: "2024-06-10",
		Sessions: []persistence.Session{
			{ID: "b", Name: "Lunch", Venue: "Terrace", Date: "2024-06-10", StartTime: "12:30", EndTime: "13:30"},
		},
	})
	require.NoError(t, err)

	got, err := repo.GetBooking(ctx, "bk-2")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt), "created_at must survive updates")
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "12:30", got.Sessions[0].StartTime)
}

func TestBookingRepository_Validation(t *testing.T) {
	t.Parallel()

	repo := setupBookingRepositoryTest(t)
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.SaveBooking(ctx, persistence.Booking{EventDate: "2024-01-01"})
		assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
	})

	t.Run("missing event date", func(t *testing.T) {
		_, err := repo.SaveBooking(ctx, persistence.Booking{ID: "x"})
		assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
	})

	t.Run("duplicate session ids", func(t *testing.T) {
		_, err := repo.SaveBooking(ctx, persistence.Booking{
			ID:        "dup",
			EventDate: "2024-01-01",
			Sessions: []persistence.Session{
				{ID: "same", Name: "A"},
				{ID: "same", Name: "B"},
			},
		})
		assert.ErrorIs(t, err, persistence.ErrDuplicate)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := repo.GetBooking(ctx, "missing")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})
}

func TestBookingRepository_ListBookings(t *testing.T) {
	t.Parallel()

	repo := setupBookingRepositoryTest(t)
	ctx := context.Background()

	fixtures := []persistence.Booking{
		{ID: "early", Status: "confirmed", EventDate: "2024-03-01"},
		{ID: "span", Status: "Tentative", EventDate: "2024-03-28", EventEndDate: strPtr("2024-04-02")},
		{ID: "duration", Status: "confirmed", EventDate: "2024-03-30", EventDuration: intVal(3)},
		{ID: "cancelled", Status: "Cancelled", EventDate: "2024-04-01"},
		{ID: "late", Status: "confirmed", EventDate: "2024-05-01"},
		{
			ID: "stray", Status: "confirmed", EventDate: "2024-02-01",
			Sessions: []persistence.Session{{ID: "s", Name: "Rehearsal", Venue: "Hall", Date: "2024-04-01", AllDay: true}},
		},
	}
	for _, b := range fixtures {
		_, err := repo.SaveBooking(ctx, b)
		require.NoError(t, err)
	}

	t.Run("all", func(t *testing.T) {
		got, err := repo.ListBookings(ctx, persistence.BookingFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"stray", "early", "span", "duration", "cancelled", "late"}, bookingIDs(got))
	})

	t.Run("window and status", func(t *testing.T) {
		got, err := repo.ListBookings(ctx, persistence.BookingFilter{
			ExcludeStatuses: []string{"cancelled", "lost"},
			From:            strPtr("2024-04-01"),
			To:              strPtr("2024-04-01"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"stray", "span", "duration"}, bookingIDs(got))

		for _, b := range got {
			if b.ID == "stray" {
				require.Len(t, b.Sessions, 1)
				assert.Equal(t, "Rehearsal", b.Sessions[0].Name)
			}
		}
	})

	t.Run("empty window", func(t *testing.T) {
		got, err := repo.ListBookings(ctx, persistence.BookingFilter{
			From: strPtr("2030-01-01"),
			To:   strPtr("2030-01-31"),
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func bookingIDs(bookings []persistence.Booking) []string {
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}

func TestBookingRepository_ReturnedTimestampsMatchStored(t *testing.T) {
	t.Parallel()

	repo := setupBookingRepositoryTest(t)
	repo.now = func() time.Time { return time.Date(2025, time.March, 1, 9, 30, 15, 123456789, time.UTC) }
	ctx := context.Background()

	saved, err := repo.SaveBooking(ctx, persistence.Booking{ID: "bk-ts", Status: "confirmed", EventDate: "2025-03-10"})
	require.NoError(t, err)

	got, err := repo.GetBooking(ctx, "bk-ts")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(saved.CreatedAt), "created_at %v != %v", got.CreatedAt, saved.CreatedAt)
	assert.True(t, got.UpdatedAt.Equal(saved.UpdatedAt), "updated_at %v != %v", got.UpdatedAt, saved.UpdatedAt)
	assert.Zero(t, saved.CreatedAt.Nanosecond())
}
