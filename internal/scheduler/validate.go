package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Violation is a single field-level validation problem. Violations are data
// for the caller to render; they are never raised.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidateSession checks required fields, the HH:MM format and that the
// session ends after it starts. All-day sessions skip the time checks.
func ValidateSession(session Session) []Violation {
	var violations []Violation
	add := func(field, message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	if strings.TrimSpace(session.Name) == "" {
		add("name", "name is required")
	}
	if strings.TrimSpace(session.Venue) == "" {
		add("venue", "venue is required")
	}
	if strings.TrimSpace(session.Date) == "" {
		add("date", "date is required")
	} else if _, ok := ParseDay(session.Date); !ok {
		add("date", "date must be YYYY-MM-DD")
	}
	if session.Guests != nil && *session.Guests < 0 {
		add("guests", "guests must not be negative")
	}

	if session.AllDay {
		return violations
	}

	start, startOK := checkTime("start_time", session.StartTime, add)
	end, endOK := checkTime("end_time", session.EndTime, add)
	if startOK && endOK && end <= start {
		add("end_time", "end time must be after start time")
	}
	return violations
}

func checkTime(field, value string, add func(field, message string)) (TimeOfDay, bool) {
	if strings.TrimSpace(value) == "" {
		add(field, strings.ReplaceAll(field, "_", " ")+" is required")
		return 0, false
	}
	t, ok := ParseTimeOfDay(value)
	if !ok {
		add(field, strings.ReplaceAll(field, "_", " ")+" must be HH:MM")
		return 0, false
	}
	return t, true
}

// IsSessionComplete reports whether every field needed to place the session
// has been filled in. It does not check formats.
func IsSessionComplete(session Session) bool {
	if strings.TrimSpace(session.Name) == "" ||
		strings.TrimSpace(session.Venue) == "" ||
		strings.TrimSpace(session.Date) == "" {
		return false
	}
	if session.AllDay {
		return true
	}
	return strings.TrimSpace(session.StartTime) != "" && strings.TrimSpace(session.EndTime) != ""
}

// ValidateBooking checks the booking's dates and every session. Session
// violations are reported as sessions[i].field.
func ValidateBooking(booking Booking) []Violation {
	var violations []Violation

	start, startOK := booking.StartDay()
	switch {
	case strings.TrimSpace(booking.EventDate) == "":
		violations = append(violations, Violation{Field: "event_date", Message: "event date is required"})
	case !startOK:
		violations = append(violations, Violation{Field: "event_date", Message: "event date must be YYYY-MM-DD"})
	}

	if strings.TrimSpace(booking.EventEndDate) != "" {
		end, ok := ParseDay(booking.EventEndDate)
		switch {
		case !ok:
			violations = append(violations, Violation{Field: "event_end_date", Message: "event end date must be YYYY-MM-DD"})
		case startOK && end < start:
			violations = append(violations, Violation{Field: "event_end_date", Message: "event end date must not be before event date"})
		case startOK && int(end-start)+1 > MaxSpanDays:
			violations = append(violations, Violation{Field: "event_end_date", Message: fmt.Sprintf("event must not span more than %d days", MaxSpanDays)})
		}
	}
	switch {
	case booking.EventDuration < 0:
		violations = append(violations, Violation{Field: "event_duration", Message: "event duration must not be negative"})
	case booking.EventDuration > MaxSpanDays:
		violations = append(violations, Violation{Field: "event_duration", Message: fmt.Sprintf("event duration must not exceed %d days", MaxSpanDays)})
	}

	seen := make(map[string]int, len(booking.Sessions))
	for i, session := range booking.Sessions {
		prefix := fmt.Sprintf("sessions[%d].", i)
		if id := strings.TrimSpace(session.ID); id != "" {
			if first, dup := seen[id]; dup {
				violations = append(violations, Violation{Field: prefix + "id", Message: fmt.Sprintf("duplicates sessions[%d]", first)})
			} else {
				seen[id] = i
			}
		}
		for _, v := range ValidateSession(session) {
			violations = append(violations, Violation{Field: prefix + v.Field, Message: v.Message})
		}
	}
	return violations
}

// NewSessionDraft returns an empty session with a fresh identifier, dated to
// the given day when one is supplied.
func NewSessionDraft(date time.Time) Session {
	session := Session{ID: uuid.NewString()}
	if !date.IsZero() {
		session.Date = DayOf(date).String()
	}
	return session
}
