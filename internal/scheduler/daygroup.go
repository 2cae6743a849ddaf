package scheduler

import (
	"sort"
	"strings"
)

var labelPriority = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"hi-tea":    2,
	"dinner":    3,
	"all day":   4,
}

// unknownLabelPriority ranks after every entry of labelPriority.
const unknownLabelPriority = 5

// LabelPriority returns the display rank of a session label. Unknown labels
// rank after every known one.
func LabelPriority(label string) int {
	key := strings.ToLower(strings.TrimSpace(label))
	switch key {
	case "hi tea", "high tea", "hitea":
		key = "hi-tea"
	case "allday", "all-day":
		key = "all day"
	}
	if rank, ok := labelPriority[key]; ok {
		return rank
	}
	return unknownLabelPriority
}

func sessionLabel(session Session) string {
	if strings.TrimSpace(session.Label) != "" {
		return session.Label
	}
	return session.Name
}

func sessionStart(session Session) (TimeOfDay, bool) {
	if session.AllDay {
		return StartOfDay, true
	}
	return ParseTimeOfDay(session.StartTime)
}

type indexedSession struct {
	session Session
	index   int
	day     Day
	dated   bool
}

func indexSessions(sessions []Session) []indexedSession {
	out := make([]indexedSession, len(sessions))
	for i, session := range sessions {
		day, ok := ParseDay(session.Date)
		out[i] = indexedSession{session: session, index: i, day: day, dated: ok}
	}
	return out
}

// lessWithinDay orders by label priority, start time, name, id and finally
// insertion index, so no two entries compare equal.
func lessWithinDay(a, b indexedSession) bool {
	if pa, pb := LabelPriority(sessionLabel(a.session)), LabelPriority(sessionLabel(b.session)); pa != pb {
		return pa < pb
	}
	sa, okA := sessionStart(a.session)
	sb, okB := sessionStart(b.session)
	if okA != okB {
		return okA
	}
	if okA && sa != sb {
		return sa < sb
	}
	if na, nb := strings.TrimSpace(a.session.Name), strings.TrimSpace(b.session.Name); na != nb {
		return na < nb
	}
	if a.session.ID != b.session.ID {
		return a.session.ID < b.session.ID
	}
	return a.index < b.index
}

// lessByDay sorts dated sessions ascending by day and undated ones last.
func lessByDay(a, b indexedSession) bool {
	if a.dated != b.dated {
		return a.dated
	}
	if a.dated && a.day != b.day {
		return a.day < b.day
	}
	return lessWithinDay(a, b)
}

// SortSessions returns a copy of the sessions in display order: by day, then
// by the within-day order.
func SortSessions(sessions []Session) []Session {
	indexed := indexSessions(sessions)
	sort.Slice(indexed, func(i, j int) bool { return lessByDay(indexed[i], indexed[j]) })
	out := make([]Session, len(indexed))
	for i, entry := range indexed {
		out[i] = entry.session
	}
	return out
}

// SessionEntry is a session placed within a day group.
type SessionEntry struct {
	Session Session
	// Number is the 1-based position among committed complete sessions, or 0
	// when the session is incomplete or not yet committed.
	Number   int
	Complete bool
}

// DayGroup collects the sessions of one calendar day.
type DayGroup struct {
	Date Day
	// Key is YYYY-MM-DD, or empty for sessions without a usable date.
	Key          string
	DayNumber    int
	HasDayNumber bool
	Sessions     []SessionEntry
}

// GroupSessionsByDay partitions the booking's sessions by date, ascending,
// with sessions inside each day in display order. Incomplete sessions are
// kept, unnumbered, so they remain editable.
func GroupSessionsByDay(booking Booking) []DayGroup {
	return groupSessions(booking, booking.Sessions, SessionNumberMap(booking))
}

// GroupSessionsWithDraft groups the committed sessions with an in-progress
// draft overlaid. The draft replaces the committed session with the same id,
// or is appended when new. Numbering always comes from the committed list so
// editing one session never renumbers its siblings.
func GroupSessionsWithDraft(booking Booking, draft *Session) []DayGroup {
	numbers := SessionNumberMap(booking)
	if draft == nil {
		return groupSessions(booking, booking.Sessions, numbers)
	}
	sessions := make([]Session, 0, len(booking.Sessions)+1)
	replaced := false
	for _, session := range booking.Sessions {
		if !replaced && draft.ID != "" && session.ID == draft.ID {
			sessions = append(sessions, *draft)
			replaced = true
			continue
		}
		sessions = append(sessions, session)
	}
	if !replaced {
		sessions = append(sessions, *draft)
	}
	return groupSessions(booking, sessions, numbers)
}

func groupSessions(booking Booking, sessions []Session, numbers map[string]int) []DayGroup {
	if len(sessions) == 0 {
		return nil
	}
	indexed := indexSessions(sessions)
	sort.Slice(indexed, func(i, j int) bool { return lessByDay(indexed[i], indexed[j]) })

	start, hasStart := booking.StartDay()
	groups := make([]DayGroup, 0)
	for _, entry := range indexed {
		key := ""
		if entry.dated {
			key = entry.day.String()
		}
		if len(groups) == 0 || groups[len(groups)-1].Key != key {
			group := DayGroup{Key: key}
			if entry.dated {
				group.Date = entry.day
				if hasStart {
					group.DayNumber = int(entry.day-start) + 1
					group.HasDayNumber = true
				}
			}
			groups = append(groups, group)
		}
		group := &groups[len(groups)-1]
		group.Sessions = append(group.Sessions, SessionEntry{
			Session:  entry.session,
			Number:   numbers[entry.session.ID],
			Complete: IsSessionComplete(entry.session),
		})
	}
	return groups
}

// SessionNumberMap assigns every complete committed session a 1-based number
// following display order. Incomplete sessions and sessions without an id are
// left out.
func SessionNumberMap(booking Booking) map[string]int {
	complete := make([]Session, 0, len(booking.Sessions))
	for _, session := range booking.Sessions {
		if session.ID == "" || !IsSessionComplete(session) {
			continue
		}
		complete = append(complete, session)
	}
	numbers := make(map[string]int, len(complete))
	for _, session := range SortSessions(complete) {
		if _, dup := numbers[session.ID]; dup {
			continue
		}
		numbers[session.ID] = len(numbers) + 1
	}
	return numbers
}
