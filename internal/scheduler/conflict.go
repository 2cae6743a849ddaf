package scheduler

import (
	"sort"
	"strings"
)

// Candidate is a venue occupancy to check against the booking corpus.
type Candidate struct {
	Venue    string
	Date     Day
	Interval Interval
	AllDay   bool
	// ExcludeBookingID skips one booking, typically the one being edited.
	ExcludeBookingID string
}

// CandidateFromSession builds a candidate from an entered session. It reports
// false when the session is not valid enough to be placed.
func CandidateFromSession(session Session, bookingID string) (Candidate, bool) {
	slot, ok := Booking{ID: bookingID}.sessionSlot(session)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{
		Venue:            slot.Venue,
		Date:             slot.Day,
		Interval:         slot.Interval,
		AllDay:           slot.AllDay,
		ExcludeBookingID: bookingID,
	}, true
}

func (c Candidate) interval() Interval {
	if c.AllDay {
		return FullDay
	}
	return c.Interval
}

// Conflict describes another occupant of the same venue and day whose
// interval overlaps the candidate.
type Conflict struct {
	BookingID   string
	ClientName  string
	SessionID   string
	SessionName string
	Venue       string
	Date        Day
	Interval    Interval
	AllDay      bool
	Legacy      bool
}

func conflictFromSlot(slot Slot) Conflict {
	return Conflict{
		BookingID:   slot.BookingID,
		ClientName:  slot.ClientName,
		SessionID:   slot.SessionID,
		SessionName: slot.SessionName,
		Venue:       slot.Venue,
		Date:        slot.Day,
		Interval:    slot.Interval,
		AllDay:      slot.AllDay,
		Legacy:      slot.Legacy,
	}
}

type slotKey struct {
	venue string
	day   Day
}

// Detector answers conflict queries over a fixed set of bookings. It is
// immutable once built and safe for concurrent use.
type Detector struct {
	bookings map[string]Booking
	byVenue  map[slotKey][]Slot
	byDay    map[Day][]Slot
}

// NewDetector normalises the bookings into slots. Bookings are copied by
// value; later changes to the caller's slice are not observed.
func NewDetector(bookings []Booking) *Detector {
	d := &Detector{
		bookings: make(map[string]Booking, len(bookings)),
		byVenue:  make(map[slotKey][]Slot),
		byDay:    make(map[Day][]Slot),
	}
	for _, booking := range bookings {
		if _, seen := d.bookings[booking.ID]; !seen {
			d.bookings[booking.ID] = booking
		}
		for _, slot := range booking.Slots() {
			key := slotKey{venue: slot.Venue, day: slot.Day}
			d.byVenue[key] = append(d.byVenue[key], slot)
			d.byDay[slot.Day] = append(d.byDay[slot.Day], slot)
		}
	}
	return d
}

// Booking returns the booking with the given id.
func (d *Detector) Booking(id string) (Booking, bool) {
	if d == nil {
		return Booking{}, false
	}
	booking, ok := d.bookings[id]
	return booking, ok
}

// FindConflicts lists every occupant of the candidate's venue on the
// candidate's date whose interval overlaps it.
func (d *Detector) FindConflicts(candidate Candidate) []Conflict {
	if d == nil {
		return nil
	}
	venue := venueKey(candidate.Venue)
	if venue == "" {
		return nil
	}
	interval := candidate.interval()
	var conflicts []Conflict
	for _, slot := range d.byVenue[slotKey{venue: venue, day: candidate.Date}] {
		if candidate.ExcludeBookingID != "" && slot.BookingID == candidate.ExcludeBookingID {
			continue
		}
		if slot.Interval.Overlaps(interval) {
			conflicts = append(conflicts, conflictFromSlot(slot))
		}
	}
	sortConflicts(conflicts)
	return conflicts
}

// VenueConflictsForDate returns, sorted by name, the venues whose sessions on
// the day genuinely overlap. Several bookings in one venue on one day are not
// a conflict by themselves.
func (d *Detector) VenueConflictsForDate(day Day) []string {
	var venues []string
	for _, occupancy := range d.Occupancy(day) {
		if occupancy.Conflicted {
			venues = append(venues, occupancy.Venue)
		}
	}
	return venues
}

// VenueOccupancy is the allocation of one venue on one day.
type VenueOccupancy struct {
	Venue      string
	Slots      []Slot
	Conflicted bool
}

// Occupancy groups the day's slots by venue, each sorted by start time, and
// flags venues where an adjacent pair overlaps.
func (d *Detector) Occupancy(day Day) []VenueOccupancy {
	if d == nil {
		return nil
	}
	grouped := make(map[string][]Slot)
	for _, slot := range d.byDay[day] {
		grouped[slot.Venue] = append(grouped[slot.Venue], slot)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]VenueOccupancy, 0, len(names))
	for _, name := range names {
		slots := append([]Slot(nil), grouped[name]...)
		sort.SliceStable(slots, func(i, j int) bool { return lessSlot(slots[i], slots[j]) })
		conflicted := false
		for i := 1; i < len(slots); i++ {
			if slots[i-1].Interval.End > slots[i].Interval.Start {
				conflicted = true
				break
			}
		}
		out = append(out, VenueOccupancy{Venue: name, Slots: slots, Conflicted: conflicted})
	}
	return out
}

// SessionConflict lists the conflicts found for one session of a booking.
type SessionConflict struct {
	SessionID string
	Conflicts []Conflict
}

// CheckBooking checks each placeable session of the booking against the rest
// of the corpus and against the booking's own other sessions. The booking's
// committed copy inside the detector, if any, is ignored. Sessions without
// conflicts are omitted; the rest follow display order.
func (d *Detector) CheckBooking(booking Booking) []SessionConflict {
	if booking.Mode() != ModeSessions {
		return nil
	}
	type placed struct {
		index int
		slot  Slot
	}
	var own []placed
	for i, session := range booking.Sessions {
		if slot, ok := booking.sessionSlot(session); ok {
			own = append(own, placed{index: i, slot: slot})
		}
	}

	found := make(map[int][]Conflict)
	for _, p := range own {
		conflicts := d.FindConflicts(Candidate{
			Venue:            p.slot.Venue,
			Date:             p.slot.Day,
			Interval:         p.slot.Interval,
			ExcludeBookingID: booking.ID,
		})
		for _, other := range own {
			if other.index == p.index || other.slot.Venue != p.slot.Venue || other.slot.Day != p.slot.Day {
				continue
			}
			if other.slot.Interval.Overlaps(p.slot.Interval) {
				conflicts = append(conflicts, conflictFromSlot(other.slot))
			}
		}
		if len(conflicts) > 0 {
			sortConflicts(conflicts)
			found[p.index] = conflicts
		}
	}
	if len(found) == 0 {
		return nil
	}

	indexed := indexSessions(booking.Sessions)
	sort.Slice(indexed, func(i, j int) bool { return lessByDay(indexed[i], indexed[j]) })
	out := make([]SessionConflict, 0, len(found))
	for _, entry := range indexed {
		if conflicts, ok := found[entry.index]; ok {
			out = append(out, SessionConflict{SessionID: entry.session.ID, Conflicts: conflicts})
		}
	}
	return out
}

// Ringed reports whether another booking playing the same role on the
// occurrence's day overlaps this booking in one of its venues. Callers use it
// to highlight the occurrence.
func (d *Detector) Ringed(booking Booking, occ Occurrence) bool {
	if d == nil {
		return false
	}
	for _, slot := range booking.Slots() {
		if slot.Day != occ.Date {
			continue
		}
		conflicts := d.FindConflicts(Candidate{
			Venue:            slot.Venue,
			Date:             slot.Day,
			Interval:         slot.Interval,
			ExcludeBookingID: booking.ID,
		})
		for _, conflict := range conflicts {
			other, ok := d.bookings[conflict.BookingID]
			if !ok {
				continue
			}
			if role, ok := ClassifyDay(other, occ.Date); ok && role == occ.Role {
				return true
			}
		}
	}
	return false
}

// FindConflicts checks a candidate against the bookings without keeping a
// detector around.
func FindConflicts(bookings []Booking, candidate Candidate) []Conflict {
	return NewDetector(bookings).FindConflicts(candidate)
}

// VenueConflictsForDate is the one-shot form of Detector.VenueConflictsForDate.
func VenueConflictsForDate(bookings []Booking, day Day) []string {
	return NewDetector(bookings).VenueConflictsForDate(day)
}

func lessSlot(a, b Slot) bool {
	if a.Interval.Start != b.Interval.Start {
		return a.Interval.Start < b.Interval.Start
	}
	if a.Interval.End != b.Interval.End {
		return a.Interval.End < b.Interval.End
	}
	if a.BookingID != b.BookingID {
		return a.BookingID < b.BookingID
	}
	return a.SessionID < b.SessionID
}

func sortConflicts(conflicts []Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.Interval.Start != b.Interval.Start {
			return a.Interval.Start < b.Interval.Start
		}
		if a.Interval.End != b.Interval.End {
			return a.Interval.End < b.Interval.End
		}
		if a.BookingID != b.BookingID {
			return a.BookingID < b.BookingID
		}
		return a.SessionID < b.SessionID
	})
}

func sortBookingOccurrences(occurrences []BookingOccurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if a.Occurrence.Date != b.Occurrence.Date {
			return a.Occurrence.Date < b.Occurrence.Date
		}
		return strings.Compare(a.BookingID, b.BookingID) < 0
	})
}
