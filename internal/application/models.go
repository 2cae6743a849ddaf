package application

import (
	"time"

	"github.com/example/resort-scheduler/internal/scheduler"
)

// Snapshot is one consistent view of the booking corpus and venue catalogue.
// It is never mutated after publication.
type Snapshot struct {
	Bookings    []scheduler.Booking
	Venues      []scheduler.Venue
	Detector    *scheduler.Detector
	Fingerprint string
	LoadedAt    time.Time
}

// CalendarEntry is one booking occurrence placed on a calendar day.
type CalendarEntry struct {
	BookingID  string
	ClientName string
	EventType  string
	Status     string
	Occurrence scheduler.Occurrence
	// Ringed is set when another booking with the same role that day shares
	// an overlapping venue slot.
	Ringed bool
}

// CalendarParams selects the inclusive calendar window, as YYYY-MM-DD text.
type CalendarParams struct {
	From string
	To   string
}

// BookingDays is the per-day breakdown of one booking.
type BookingDays struct {
	Booking     scheduler.Booking
	Days        []scheduler.DayGroup
	Occurrences []scheduler.Occurrence
}

// ConflictCheck is the outcome of checking an edited booking. Violations and
// conflicts are data, not errors.
type ConflictCheck struct {
	Violations []scheduler.Violation
	Sessions   []scheduler.SessionConflict
}

// HasConflicts reports whether any session collides with another occupant.
func (c ConflictCheck) HasConflicts() bool {
	for _, s := range c.Sessions {
		if len(s.Conflicts) > 0 {
			return true
		}
	}
	return false
}

// Status summarises the service for health checks.
type Status struct {
	Ready       bool
	Fingerprint string
	LoadedAt    time.Time
	Bookings    int
	Venues      int
}
