package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

const (
	// StartOfDay is 00:00.
	StartOfDay TimeOfDay = 0
	// EndOfDay is 23:59, the latest representable minute.
	EndOfDay TimeOfDay = 23*60 + 59
	// EveningBoundary separates morning from evening single-day bookings.
	EveningBoundary TimeOfDay = 14 * 60
)

// ParseTimeOfDay parses an HH:MM value. A single-digit hour is accepted.
func ParseTimeOfDay(value string) (TimeOfDay, bool) {
	match := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	return TimeOfDay(hours*60 + minutes), true
}

// String renders the time zero-padded as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is a half-open [Start, End) span within one day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// FullDay is the interval occupied by an all-day session.
var FullDay = Interval{Start: StartOfDay, End: EndOfDay}

// ParseInterval parses both bounds and requires End to be after Start.
func ParseInterval(start, end string) (Interval, bool) {
	s, ok := ParseTimeOfDay(start)
	if !ok {
		return Interval{}, false
	}
	e, ok := ParseTimeOfDay(end)
	if !ok || e <= s {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}

// Overlaps reports whether the intervals share any minute. Intervals that only
// touch at an endpoint do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
