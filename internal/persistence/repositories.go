package persistence

import "context"

// BookingFilter narrows booking queries.
type BookingFilter struct {
	// ExcludeStatuses drops bookings whose status matches, case-insensitively.
	ExcludeStatuses []string
	// From and To bound the event span (YYYY-MM-DD, inclusive). A booking is
	// returned when its span touches the window.
	From *string
	To   *string
}

// BookingRepository stores bookings. Sessions are always written as a full
// list; there is no per-session delete. SaveBooking returns the stored form,
// including generated session ids and timestamps.
type BookingRepository interface {
	SaveBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
}

// VenueRepository stores the venue catalogue.
type VenueRepository interface {
	UpsertVenue(ctx context.Context, venue Venue) error
	GetVenue(ctx context.Context, id string) (Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
}
