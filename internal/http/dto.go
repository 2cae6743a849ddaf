package http

import (
	"strings"

	"github.com/example/resort-scheduler/internal/scheduler"
)

type sessionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Label        string `json:"label,omitempty"`
	Venue        string `json:"venue"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	AllDay       bool   `json:"all_day"`
	Guests       *int   `json:"guests,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

func (d sessionDTO) toSession() scheduler.Session {
	return scheduler.Session{
		ID:           strings.TrimSpace(d.ID),
		Name:         d.Name,
		Label:        d.Label,
		Venue:        d.Venue,
		Date:         d.Date,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		AllDay:       d.AllDay,
		Guests:       d.Guests,
		Instructions: d.Instructions,
	}
}

func toSessionDTO(s scheduler.Session) sessionDTO {
	return sessionDTO{
		ID:           s.ID,
		Name:         s.Name,
		Label:        s.Label,
		Venue:        s.Venue,
		Date:         s.Date,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		AllDay:       s.AllDay,
		Guests:       s.Guests,
		Instructions: s.Instructions,
	}
}

// bookingRequest is the editor's current view of a booking, committed or not.
type bookingRequest struct {
	ID             string       `json:"id"`
	ClientName     string       `json:"client_name"`
	EventType      string       `json:"event_type"`
	Status         string       `json:"status"`
	EventDate      string       `json:"event_date"`
	EventEndDate   string       `json:"event_end_date,omitempty"`
	EventDuration  int          `json:"event_duration,omitempty"`
	Hall           string       `json:"hall,omitempty"`
	EventStartTime string       `json:"event_start_time,omitempty"`
	EventEndTime   string       `json:"event_end_time,omitempty"`
	Sessions       []sessionDTO `json:"sessions"`
}

func (r bookingRequest) toBooking() scheduler.Booking {
	booking := scheduler.Booking{
		ID:            strings.TrimSpace(r.ID),
		ClientName:    r.ClientName,
		EventType:     r.EventType,
		Status:        r.Status,
		EventDate:     r.EventDate,
		EventEndDate:  r.EventEndDate,
		EventDuration: r.EventDuration,
	}
	for _, s := range r.Sessions {
		booking.Sessions = append(booking.Sessions, s.toSession())
	}
	if strings.TrimSpace(r.Hall) != "" {
		booking.Legacy = &scheduler.LegacySlot{
			Hall:      r.Hall,
			StartTime: r.EventStartTime,
			EndTime:   r.EventEndTime,
		}
	}
	return booking
}

type violationDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func toViolationDTOs(violations []scheduler.Violation) []violationDTO {
	out := make([]violationDTO, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationDTO{Field: v.Field, Message: v.Message})
	}
	return out
}

type conflictDTO struct {
	BookingID   string `json:"booking_id"`
	ClientName  string `json:"client_name"`
	SessionID   string `json:"session_id,omitempty"`
	SessionName string `json:"session_name,omitempty"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	AllDay      bool   `json:"all_day"`
	Legacy      bool   `json:"legacy"`
}

func toConflictDTOs(conflicts []scheduler.Conflict) []conflictDTO {
	out := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictDTO{
			BookingID:   c.BookingID,
			ClientName:  c.ClientName,
			SessionID:   c.SessionID,
			SessionName: c.SessionName,
			Venue:       c.Venue,
			Date:        c.Date.String(),
			StartTime:   c.Interval.Start.String(),
			EndTime:     c.Interval.End.String(),
			AllDay:      c.AllDay,
			Legacy:      c.Legacy,
		})
	}
	return out
}

type slotDTO struct {
	BookingID   string `json:"booking_id"`
	ClientName  string `json:"client_name"`
	SessionID   string `json:"session_id,omitempty"`
	SessionName string `json:"session_name,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	AllDay      bool   `json:"all_day"`
	Legacy      bool   `json:"legacy"`
}

type occupancyDTO struct {
	Venue      string    `json:"venue"`
	Conflicted bool      `json:"conflicted"`
	Slots      []slotDTO `json:"slots"`
}

func toOccupancyDTOs(occupancy []scheduler.VenueOccupancy) []occupancyDTO {
	out := make([]occupancyDTO, 0, len(occupancy))
	for _, o := range occupancy {
		slots := make([]slotDTO, 0, len(o.Slots))
		for _, s := range o.Slots {
			slots = append(slots, slotDTO{
				BookingID:   s.BookingID,
				ClientName:  s.ClientName,
				SessionID:   s.SessionID,
				SessionName: s.SessionName,
				StartTime:   s.Interval.Start.String(),
				EndTime:     s.Interval.End.String(),
				AllDay:      s.AllDay,
				Legacy:      s.Legacy,
			})
		}
		out = append(out, occupancyDTO{Venue: o.Venue, Conflicted: o.Conflicted, Slots: slots})
	}
	return out
}

type occurrenceDTO struct {
	Date      string `json:"date"`
	Role      string `json:"role"`
	Half      string `json:"half"`
	DayIndex  int    `json:"day_index"`
	TotalDays int    `json:"total_days"`
}

func toOccurrenceDTO(o scheduler.Occurrence) occurrenceDTO {
	return occurrenceDTO{
		Date:      o.Date.String(),
		Role:      string(o.Role),
		Half:      string(o.Half()),
		DayIndex:  o.DayIndex,
		TotalDays: o.TotalDays,
	}
}
