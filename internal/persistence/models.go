package persistence

import "time"

// Venue is a bookable space in the resort catalogue.
type Venue struct {
	ID        string
	Name      string
	Capacity  *int
	Area      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking is a stored event booking together with its sessions.
//
// Dates are kept as YYYY-MM-DD text and times as HH:MM text, exactly as the
// sales team entered them; the scheduling engine does its own parsing.
type Booking struct {
	ID             string
	ClientName     string
	EventType      string
	Status         string
	EventDate      string
	EventEndDate   *string
	EventDuration  *int
	Hall           *string
	EventStartTime *string
	EventEndTime   *string
	Sessions       []Session
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is one row of a booking's session list. Position preserves the
// insertion order the booking was saved with.
type Session struct {
	ID           string
	BookingID    string
	Position     int
	Name         string
	Label        *string
	Venue        string
	Date         string
	StartTime    string
	EndTime      string
	AllDay       bool
	Guests       *int
	Instructions *string
}
