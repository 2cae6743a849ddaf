package testfixtures

import (
	"sync"
	"time"

	"github.com/example/resort-scheduler/internal/scheduler"
)

// Clock is a controllable time source for services and caches under test.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for injection; a nil clock falls back to time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time. Cache expiry
// tests use it to step past a TTL.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}

// Today returns the calendar day of the current time.
func (c *Clock) Today() scheduler.Day {
	return scheduler.DayOf(c.Now())
}
