package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/resort-scheduler/internal/persistence"
	"github.com/example/resort-scheduler/internal/scheduler"
)

var (
	venueCounter   uint64
	sessionCounter uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Venue fixtures -----------------------------

// VenueFixture represents a deterministic venue record.
type VenueFixture struct {
	ID       string
	Name     string
	Capacity *int
	Area     string
}

// VenueOption configures the generated venue fixture.
type VenueOption func(*VenueFixture)

// NewVenueFixture returns a deterministic venue fixture with optional overrides.
func NewVenueFixture(opts ...VenueOption) VenueFixture {
	idx := atomic.AddUint64(&venueCounter, 1)
	fixture := VenueFixture{
		ID:   fmt.Sprintf("venue-%03d", idx),
		Name: fmt.Sprintf("Venue %03d", idx),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVenueID overrides the generated venue ID.
func WithVenueID(id string) VenueOption {
	return func(f *VenueFixture) {
		f.ID = id
	}
}

// WithVenueName overrides the generated venue name.
func WithVenueName(name string) VenueOption {
	return func(f *VenueFixture) {
		f.Name = name
	}
}

// WithVenueCapacity sets the seating capacity.
func WithVenueCapacity(capacity int) VenueOption {
	return func(f *VenueFixture) {
		f.Capacity = &capacity
	}
}

// WithVenueArea sets the venue area.
func WithVenueArea(area string) VenueOption {
	return func(f *VenueFixture) {
		f.Area = area
	}
}

// Scheduler converts the fixture into the engine's venue.
func (f VenueFixture) Scheduler() scheduler.Venue {
	return scheduler.Venue{ID: f.ID, Name: f.Name, Capacity: copyIntPtr(f.Capacity), Area: f.Area}
}

// Persistence converts the fixture into a storage row.
func (f VenueFixture) Persistence() persistence.Venue {
	return persistence.Venue{ID: f.ID, Name: f.Name, Capacity: copyIntPtr(f.Capacity), Area: optionalString(f.Area)}
}

// ----------------------------- Session fixtures -----------------------------

// SessionFixture represents a deterministic booking session. The default is a
// complete lunch in the Grand Hall on 2025-03-10.
type SessionFixture struct {
	ID           string
	Name         string
	Label        string
	Venue        string
	Date         string
	StartTime    string
	EndTime      string
	AllDay       bool
	Guests       *int
	Instructions string
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		Name:      "Lunch",
		Venue:     "Grand Hall",
		Date:      "2025-03-10",
		StartTime: "12:00",
		EndTime:   "14:00",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionName overrides the session name.
func WithSessionName(name string) SessionOption {
	return func(f *SessionFixture) {
		f.Name = name
	}
}

// WithSessionLabel sets the meal label.
func WithSessionLabel(label string) SessionOption {
	return func(f *SessionFixture) {
		f.Label = label
	}
}

// WithSessionVenue overrides the venue name.
func WithSessionVenue(venue string) SessionOption {
	return func(f *SessionFixture) {
		f.Venue = venue
	}
}

// WithSessionDate overrides the session date.
func WithSessionDate(date string) SessionOption {
	return func(f *SessionFixture) {
		f.Date = date
	}
}

// WithSessionTimes overrides the start and end times.
func WithSessionTimes(start, end string) SessionOption {
	return func(f *SessionFixture) {
		f.StartTime = start
		f.EndTime = end
		f.AllDay = false
	}
}

// WithSessionAllDay marks the session all-day and clears its times.
func WithSessionAllDay() SessionOption {
	return func(f *SessionFixture) {
		f.AllDay = true
		f.StartTime = ""
		f.EndTime = ""
	}
}

// WithSessionGuests sets the expected guest count.
func WithSessionGuests(guests int) SessionOption {
	return func(f *SessionFixture) {
		f.Guests = &guests
	}
}

// WithSessionInstructions sets free-text instructions.
func WithSessionInstructions(text string) SessionOption {
	return func(f *SessionFixture) {
		f.Instructions = text
	}
}

// Scheduler converts the fixture into the engine's session.
func (f SessionFixture) Scheduler() scheduler.Session {
	return scheduler.Session{
		ID:           f.ID,
		Name:         f.Name,
		Label:        f.Label,
		Venue:        f.Venue,
		Date:         f.Date,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
		AllDay:       f.AllDay,
		Guests:       copyIntPtr(f.Guests),
		Instructions: f.Instructions,
	}
}

// Persistence converts the fixture into a storage row of bookingID.
func (f SessionFixture) Persistence(bookingID string, position int) persistence.Session {
	return persistence.Session{
		ID:           f.ID,
		BookingID:    bookingID,
		Position:     position,
		Name:         f.Name,
		Label:        optionalString(f.Label),
		Venue:        f.Venue,
		Date:         f.Date,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
		AllDay:       f.AllDay,
		Guests:       copyIntPtr(f.Guests),
		Instructions: optionalString(f.Instructions),
	}
}

// ----------------------------- Booking fixtures -----------------------------

// BookingFixture represents a deterministic booking. The default is a
// confirmed single-day booking on 2025-03-10 with no sessions.
type BookingFixture struct {
	ID            string
	ClientName    string
	EventType     string
	Status        string
	EventDate     string
	EventEndDate  string
	EventDuration int
	Sessions      []SessionFixture
	Legacy        *scheduler.LegacySlot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture with optional overrides.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := BookingFixture{
		ID:         fmt.Sprintf("booking-%03d", idx),
		ClientName: fmt.Sprintf("Client %03d", idx),
		EventType:  "Wedding",
		Status:     "confirmed",
		EventDate:  "2025-03-10",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithClientName overrides the client name.
func WithClientName(name string) BookingOption {
	return func(f *BookingFixture) {
		f.ClientName = name
	}
}

// WithEventType overrides the event type.
func WithEventType(eventType string) BookingOption {
	return func(f *BookingFixture) {
		f.EventType = eventType
	}
}

// WithStatus overrides the booking status.
func WithStatus(status string) BookingOption {
	return func(f *BookingFixture) {
		f.Status = status
	}
}

// WithEventDates sets the event span. An empty end leaves the booking single-day.
func WithEventDates(start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.EventDate = start
		f.EventEndDate = end
	}
}

// WithEventDuration sets the fallback span length in days.
func WithEventDuration(days int) BookingOption {
	return func(f *BookingFixture) {
		f.EventDuration = days
	}
}

// WithSessions replaces the session list.
func WithSessions(sessions ...SessionFixture) BookingOption {
	return func(f *BookingFixture) {
		f.Sessions = append([]SessionFixture(nil), sessions...)
	}
}

// WithLegacyHall gives the booking the pre-session hall triple.
func WithLegacyHall(hall, start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.Legacy = &scheduler.LegacySlot{Hall: hall, StartTime: start, EndTime: end}
	}
}

// Scheduler converts the fixture into the engine's booking.
func (f BookingFixture) Scheduler() scheduler.Booking {
	booking := scheduler.Booking{
		ID:            f.ID,
		ClientName:    f.ClientName,
		EventType:     f.EventType,
		Status:        f.Status,
		EventDate:     f.EventDate,
		EventEndDate:  f.EventEndDate,
		EventDuration: f.EventDuration,
	}
	for _, s := range f.Sessions {
		booking.Sessions = append(booking.Sessions, s.Scheduler())
	}
	if f.Legacy != nil {
		legacy := *f.Legacy
		booking.Legacy = &legacy
	}
	return booking
}

// Persistence converts the fixture into a storage row with its sessions.
func (f BookingFixture) Persistence() persistence.Booking {
	booking := persistence.Booking{
		ID:           f.ID,
		ClientName:   f.ClientName,
		EventType:    f.EventType,
		Status:       f.Status,
		EventDate:    f.EventDate,
		EventEndDate: optionalString(f.EventEndDate),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.EventDuration != 0 {
		d := f.EventDuration
		booking.EventDuration = &d
	}
	if f.Legacy != nil {
		booking.Hall = optionalString(f.Legacy.Hall)
		booking.EventStartTime = optionalString(f.Legacy.StartTime)
		booking.EventEndTime = optionalString(f.Legacy.EndTime)
	}
	for i, s := range f.Sessions {
		booking.Sessions = append(booking.Sessions, s.Persistence(f.ID, i))
	}
	return booking
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
