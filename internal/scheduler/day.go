package scheduler

import (
	"math"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

const (
	minDay Day = math.MinInt32
	maxDay Day = math.MaxInt32
)

// Day is a calendar-day key: the number of days since 1970-01-01. It carries
// no time of day and no zone, so equality and arithmetic never shift.
type Day int32

// ParseDay accepts "YYYY-MM-DD" or any ISO-8601 timestamp whose first ten
// characters are the date. Surrounding whitespace is ignored.
func ParseDay(value string) (Day, bool) {
	value = strings.TrimSpace(value)
	if len(value) < len(dayLayout) {
		return 0, false
	}
	if len(value) > len(dayLayout) && value[len(dayLayout)] != 'T' && value[len(dayLayout)] != ' ' {
		return 0, false
	}
	t, err := time.Parse(dayLayout, value[:len(dayLayout)])
	if err != nil {
		return 0, false
	}
	return DayOf(t), true
}

// DayOf returns the key for the wall-clock date of t.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Day(midnight.Unix() / 86400)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// AddDays returns the day n days after d.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// String renders the key as YYYY-MM-DD.
func (d Day) String() string {
	return d.Time().Format(dayLayout)
}
