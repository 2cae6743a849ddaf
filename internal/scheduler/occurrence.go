package scheduler

// Role is the rendering position of one occurrence within a day cell.
type Role string

const (
	// RoleStart is the first day of a multi-day booking (check-in).
	RoleStart Role = "start"
	// RoleMiddle is any day strictly between the first and last.
	RoleMiddle Role = "middle"
	// RoleEnd is the last day of a multi-day booking (check-out).
	RoleEnd Role = "end"
	// RoleMorning is a single-day booking starting before 14:00.
	RoleMorning Role = "morning"
	// RoleEvening is a single-day booking starting at or after 14:00.
	RoleEvening Role = "evening"
	// RoleFull is a single-day booking with no usable start time.
	RoleFull Role = "full"
)

// Half is the portion of a day cell an occurrence is drawn in.
type Half string

const (
	HalfFirst  Half = "first"
	HalfSecond Half = "second"
	HalfWhole  Half = "whole"
)

// Half maps the role onto the split cell. Arrival happens midday, so a start
// day takes the later half; departure is in the morning, so an end day takes
// the earlier half.
func (r Role) Half() Half {
	switch r {
	case RoleStart, RoleEvening:
		return HalfSecond
	case RoleEnd, RoleMorning:
		return HalfFirst
	default:
		return HalfWhole
	}
}

// Occurrence is one calendar-day instance of a booking.
type Occurrence struct {
	Date      Day
	Role      Role
	DayIndex  int
	TotalDays int
}

// Half returns the cell half for the occurrence's role.
func (o Occurrence) Half() Half {
	return o.Role.Half()
}

// ExpandToOccurrences emits one occurrence per calendar day of the booking,
// from the event date to the end date inclusive. A booking without a usable
// event date, or with neither sessions nor a legacy hall, produces nothing.
func ExpandToOccurrences(booking Booking) []Occurrence {
	return occurrencesWithin(booking, minDay, maxDay)
}

// occurrencesWithin expands only the days of the booking inside [from, to].
func occurrencesWithin(booking Booking, from, to Day) []Occurrence {
	if booking.Mode() == ModeEmpty {
		return nil
	}
	start, ok := booking.StartDay()
	if !ok {
		return nil
	}
	total := booking.TotalDays()
	first := max(0, int(from)-int(start))
	last := min(total-1, int(to)-int(start))
	if first > last {
		return nil
	}
	occurrences := make([]Occurrence, 0, last-first+1)
	for i := first; i <= last; i++ {
		day := start.AddDays(i)
		role, _ := ClassifyDay(booking, day)
		occurrences = append(occurrences, Occurrence{
			Date:      day,
			Role:      role,
			DayIndex:  i,
			TotalDays: total,
		})
	}
	return occurrences
}

// ClassifyDay returns the role the booking plays on the given day. The second
// result is false when the day falls outside the booking.
func ClassifyDay(booking Booking, day Day) (Role, bool) {
	start, ok := booking.StartDay()
	if !ok {
		return "", false
	}
	total := booking.TotalDays()
	offset := int(day - start)
	if offset < 0 || offset >= total {
		return "", false
	}
	if total > 1 {
		switch offset {
		case 0:
			return RoleStart, true
		case total - 1:
			return RoleEnd, true
		default:
			return RoleMiddle, true
		}
	}
	return classifySingleDay(booking), true
}

func classifySingleDay(booking Booking) Role {
	switch booking.Mode() {
	case ModeSessions:
		for _, session := range SortSessions(booking.Sessions) {
			if len(ValidateSession(session)) > 0 {
				continue
			}
			if session.AllDay {
				return RoleFull
			}
			if start, ok := ParseTimeOfDay(session.StartTime); ok {
				return roleForStart(start)
			}
		}
	case ModeLegacy:
		if start, ok := ParseTimeOfDay(booking.Legacy.StartTime); ok {
			return roleForStart(start)
		}
	}
	return RoleFull
}

func roleForStart(start TimeOfDay) Role {
	if start < EveningBoundary {
		return RoleMorning
	}
	return RoleEvening
}

// BookingOccurrence ties an occurrence back to its booking.
type BookingOccurrence struct {
	BookingID  string
	ClientName string
	Occurrence Occurrence
}

// ExpandRange projects the bookings onto the inclusive window [from, to],
// ordered by date and then by booking id.
func ExpandRange(bookings []Booking, from, to Day) []BookingOccurrence {
	if to < from {
		return nil
	}
	out := make([]BookingOccurrence, 0)
	for _, booking := range bookings {
		for _, occ := range occurrencesWithin(booking, from, to) {
			out = append(out, BookingOccurrence{
				BookingID:  booking.ID,
				ClientName: booking.ClientName,
				Occurrence: occ,
			})
		}
	}
	sortBookingOccurrences(out)
	return out
}
