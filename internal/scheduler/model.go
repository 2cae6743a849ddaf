package scheduler

import "strings"

// Venue is read-only reference data. The engine only ever uses its name as an
// opaque grouping key.
type Venue struct {
	ID       string
	Name     string
	Capacity *int
	Area     string
}

// Session is a named, timed occupancy of one venue on one calendar date within
// a booking. Times and date are kept as entered so they can be validated.
type Session struct {
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

// LegacySlot holds the single hall/start/end triple of bookings created
// before sessions existed.
type LegacySlot struct {
	Hall      string
	StartTime string
	EndTime   string
}

// Booking owns its sessions in insertion order.
type Booking struct {
	ID            string
	ClientName    string
	EventType     string
	Status        string
	EventDate     string
	EventEndDate  string
	EventDuration int
	Sessions      []Session
	Legacy        *LegacySlot
}

// Mode discriminates how a booking occupies venues.
type Mode int

const (
	// ModeEmpty bookings have neither sessions nor a legacy hall.
	ModeEmpty Mode = iota
	// ModeSessions bookings occupy venues through their sessions.
	ModeSessions
	// ModeLegacy bookings occupy a single hall through the legacy fields.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModeSessions:
		return "sessions"
	case ModeLegacy:
		return "legacy"
	default:
		return "empty"
	}
}

// Mode reports the booking's occupancy discriminant. Sessions win over legacy
// fields whenever at least one session exists.
func (b Booking) Mode() Mode {
	if len(b.Sessions) > 0 {
		return ModeSessions
	}
	if b.Legacy != nil && strings.TrimSpace(b.Legacy.Hall) != "" {
		return ModeLegacy
	}
	return ModeEmpty
}

// StartDay returns the parsed event date.
func (b Booking) StartDay() (Day, bool) {
	return ParseDay(b.EventDate)
}

// MaxSpanDays bounds the span of a single booking. Longer spans are clipped
// so a corrupt record cannot blow up expansion or conflict detection.
const MaxSpanDays = 366

// TotalDays returns the inclusive day span, at most MaxSpanDays. The two
// dates win when both parse and are ordered; EventDuration is the fallback;
// anything else is one day.
func (b Booking) TotalDays() int {
	total := 1
	start, ok := b.StartDay()
	end, endOK := ParseDay(b.EventEndDate)
	switch {
	case ok && endOK && end >= start:
		total = int(end-start) + 1
	case b.EventDuration > 1:
		total = b.EventDuration
	}
	return min(total, MaxSpanDays)
}

// IsMultiDay reports whether the booking covers more than one calendar day.
func (b Booking) IsMultiDay() bool {
	return b.TotalDays() > 1
}

// Slot is one normalised occupancy of a venue on a day.
type Slot struct {
	BookingID   string
	ClientName  string
	SessionID   string
	SessionName string
	Venue       string
	Day         Day
	Interval    Interval
	AllDay      bool
	Legacy      bool
}

// Slots normalises the booking into the occupancies the conflict detector
// works with. Incomplete or malformed sessions are dropped. A legacy hall
// occupies every day of the booking's span.
func (b Booking) Slots() []Slot {
	switch b.Mode() {
	case ModeSessions:
		slots := make([]Slot, 0, len(b.Sessions))
		for _, session := range b.Sessions {
			if slot, ok := b.sessionSlot(session); ok {
				slots = append(slots, slot)
			}
		}
		return slots
	case ModeLegacy:
		start, ok := b.StartDay()
		if !ok {
			return nil
		}
		interval, allDay := b.legacyInterval()
		total := b.TotalDays()
		slots := make([]Slot, 0, total)
		for i := 0; i < total; i++ {
			slots = append(slots, Slot{
				BookingID:   b.ID,
				ClientName:  b.ClientName,
				SessionName: b.EventType,
				Venue:       venueKey(b.Legacy.Hall),
				Day:         start.AddDays(i),
				Interval:    interval,
				AllDay:      allDay,
				Legacy:      true,
			})
		}
		return slots
	default:
		return nil
	}
}

func (b Booking) sessionSlot(session Session) (Slot, bool) {
	if len(ValidateSession(session)) > 0 {
		return Slot{}, false
	}
	day, _ := ParseDay(session.Date)
	interval := FullDay
	if !session.AllDay {
		interval, _ = ParseInterval(session.StartTime, session.EndTime)
	}
	return Slot{
		BookingID:   b.ID,
		ClientName:  b.ClientName,
		SessionID:   session.ID,
		SessionName: strings.TrimSpace(session.Name),
		Venue:       venueKey(session.Venue),
		Day:         day,
		Interval:    interval,
		AllDay:      session.AllDay,
	}, true
}

// legacyInterval falls back to the whole day when the legacy times are absent
// or unusable.
func (b Booking) legacyInterval() (Interval, bool) {
	if b.Legacy == nil {
		return FullDay, true
	}
	if interval, ok := ParseInterval(b.Legacy.StartTime, b.Legacy.EndTime); ok {
		return interval, false
	}
	return FullDay, true
}

func venueKey(name string) string {
	return strings.TrimSpace(name)
}
