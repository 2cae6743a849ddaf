package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ballroom() *LegacySlot {
	return &LegacySlot{Hall: "Ballroom"}
}

func TestExpandToOccurrences_MultiDay(t *testing.T) {
	t.Parallel()

	booking := Booking{ID: "b1", EventDate: "2025-01-10", EventEndDate: "2025-01-12", Legacy: ballroom()}
	got := ExpandToOccurrences(booking)

	require.Len(t, got, 3)
	wantRoles := []Role{RoleStart, RoleMiddle, RoleEnd}
	wantDates := []string{"2025-01-10", "2025-01-11", "2025-01-12"}
	for i, occ := range got {
		assert.Equal(t, wantDates[i], occ.Date.String())
		assert.Equal(t, wantRoles[i], occ.Role)
		assert.Equal(t, i, occ.DayIndex)
		assert.Equal(t, 3, occ.TotalDays)
	}

	assert.Equal(t, HalfSecond, got[0].Half(), "check-in renders in the later half")
	assert.Equal(t, HalfWhole, got[1].Half())
	assert.Equal(t, HalfFirst, got[2].Half(), "check-out renders in the earlier half")
}

func TestExpandToOccurrences_TwoDayBookingHasNoMiddle(t *testing.T) {
	t.Parallel()

	got := ExpandToOccurrences(Booking{EventDate: "2025-01-31", EventEndDate: "2025-02-01", Legacy: ballroom()})
	require.Len(t, got, 2)
	assert.Equal(t, RoleStart, got[0].Role)
	assert.Equal(t, RoleEnd, got[1].Role)
}

func TestExpandToOccurrences_SpanDerivation(t *testing.T) {
	t.Parallel()

	t.Run("dates win over a mismatched duration", func(t *testing.T) {
		t.Parallel()
		got := ExpandToOccurrences(Booking{EventDate: "2025-01-10", EventEndDate: "2025-01-11", EventDuration: 5, Legacy: ballroom()})
		assert.Len(t, got, 2)
	})

	t.Run("duration is used when the end date is missing", func(t *testing.T) {
		t.Parallel()
		got := ExpandToOccurrences(Booking{EventDate: "2025-01-10", EventDuration: 4, Legacy: ballroom()})
		require.Len(t, got, 4)
		assert.Equal(t, "2025-01-13", got[3].Date.String())
		assert.Equal(t, RoleEnd, got[3].Role)
	})

	t.Run("end date equal to start is single-day", func(t *testing.T) {
		t.Parallel()
		got := ExpandToOccurrences(Booking{EventDate: "2025-01-10", EventEndDate: "2025-01-10", Legacy: ballroom()})
		require.Len(t, got, 1)
		assert.Equal(t, RoleFull, got[0].Role)
		assert.Equal(t, 1, got[0].TotalDays)
	})

	t.Run("booking without sessions or hall yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ExpandToOccurrences(Booking{ID: "e", EventDate: "2025-05-01"}))
		assert.Empty(t, ExpandToOccurrences(Booking{ID: "e", EventDate: "2025-05-01", EventEndDate: "2025-05-03"}))
	})

	t.Run("oversized duration is clipped", func(t *testing.T) {
		t.Parallel()
		got := ExpandToOccurrences(Booking{EventDate: "2025-05-01", EventDuration: 1 << 50, Legacy: ballroom()})
		require.Len(t, got, MaxSpanDays)
		assert.Equal(t, MaxSpanDays, got[0].TotalDays)
		assert.Equal(t, RoleEnd, got[MaxSpanDays-1].Role)
	})

	t.Run("missing event date yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ExpandToOccurrences(Booking{EventEndDate: "2025-01-10", Legacy: ballroom()}))
	})
}

func TestClassifyDay_SingleDay(t *testing.T) {
	t.Parallel()

	day := "2025-03-01"
	cases := []struct {
		name    string
		booking Booking
		want    Role
	}{
		{
			name:    "session before 14:00 is morning",
			booking: singleSessionBooking("b", "c", session("s", "Lunch", "Terrace", day, "13:00", "15:00")),
			want:    RoleMorning,
		},
		{
			name:    "session at 14:00 is evening",
			booking: singleSessionBooking("b", "c", session("s", "Tea", "Terrace", day, "14:00", "16:00")),
			want:    RoleEvening,
		},
		{
			name:    "all-day session fills the cell",
			booking: singleSessionBooking("b", "c", Session{ID: "s", Name: "Expo", Venue: "Hall", Date: day, AllDay: true}),
			want:    RoleFull,
		},
		{
			name:    "no sessions and no legacy time fills the cell",
			booking: Booking{EventDate: day},
			want:    RoleFull,
		},
		{
			name:    "legacy start time is used when there are no sessions",
			booking: Booking{EventDate: day, Legacy: &LegacySlot{Hall: "Ballroom", StartTime: "19:00", EndTime: "23:00"}},
			want:    RoleEvening,
		},
		{
			name: "first session in display order decides",
			booking: Booking{EventDate: day, Sessions: []Session{
				session("d", "Dinner", "Hall", day, "19:00", "22:00"),
				session("b", "Breakfast", "Hall", day, "08:00", "10:00"),
			}},
			want: RoleMorning,
		},
		{
			name: "incomplete sessions do not decide",
			booking: Booking{EventDate: day, Sessions: []Session{
				{ID: "p", Name: "Breakfast", Date: day, StartTime: "08:00"},
				session("g", "Gala", "Hall", day, "19:00", "22:00"),
			}},
			want: RoleEvening,
		},
		{
			name: "malformed sessions do not decide",
			booking: Booking{EventDate: day, Sessions: []Session{
				session("m", "Breakfast", "Hall", day, "08:00", "07:00"),
				session("g", "Gala", "Hall", day, "19:00", "22:00"),
			}},
			want: RoleEvening,
		},
		{
			name: "sessions without a usable start fall through",
			booking: Booking{EventDate: day, Sessions: []Session{
				{ID: "x", Name: "Draft"},
			}},
			want: RoleFull,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			role, ok := ClassifyDay(tc.booking, mustDay(t, day))
			require.True(t, ok)
			assert.Equal(t, tc.want, role)
		})
	}
}

func TestClassifyDay_OutsideBooking(t *testing.T) {
	t.Parallel()

	booking := Booking{EventDate: "2025-01-10", EventEndDate: "2025-01-12"}
	_, ok := ClassifyDay(booking, mustDay(t, "2025-01-09"))
	assert.False(t, ok)
	_, ok = ClassifyDay(booking, mustDay(t, "2025-01-13"))
	assert.False(t, ok)

	first, _ := ClassifyDay(booking, mustDay(t, "2025-01-11"))
	second, _ := ClassifyDay(booking, mustDay(t, "2025-01-11"))
	assert.Equal(t, first, second)
}

func TestExpandRange(t *testing.T) {
	t.Parallel()

	bookings := []Booking{
		{ID: "b2", EventDate: "2025-01-30", EventEndDate: "2025-02-02", Legacy: ballroom()},
		{ID: "b1", EventDate: "2025-02-01", Legacy: ballroom()},
		{ID: "b3", EventDate: "2025-03-01", Legacy: ballroom()},
		{ID: "b0", EventDate: "2025-02-10"},
	}

	got := ExpandRange(bookings, mustDay(t, "2025-02-01"), mustDay(t, "2025-02-28"))
	require.Len(t, got, 3)
	assert.Equal(t, "b1", got[0].BookingID)
	assert.Equal(t, "b2", got[1].BookingID)
	assert.Equal(t, RoleMiddle, got[1].Occurrence.Role)
	assert.Equal(t, 2, got[1].Occurrence.DayIndex)
	assert.Equal(t, "b2", got[2].BookingID)
	assert.Equal(t, RoleEnd, got[2].Occurrence.Role)

	assert.Empty(t, ExpandRange(bookings, mustDay(t, "2025-02-28"), mustDay(t, "2025-02-01")))
}

func TestExpandRange_ClipsLongBookingsToWindow(t *testing.T) {
	t.Parallel()

	long := Booking{ID: "long", EventDate: "2025-01-01", EventDuration: 300, Legacy: ballroom()}
	got := ExpandRange([]Booking{long}, mustDay(t, "2025-03-01"), mustDay(t, "2025-03-03"))
	require.Len(t, got, 3)
	assert.Equal(t, "2025-03-01", got[0].Occurrence.Date.String())
	assert.Equal(t, 59, got[0].Occurrence.DayIndex)
	assert.Equal(t, 300, got[0].Occurrence.TotalDays)
	assert.Equal(t, RoleMiddle, got[2].Occurrence.Role)
}
