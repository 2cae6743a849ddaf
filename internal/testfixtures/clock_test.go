package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if got := clock.Today().String(); got != "2025-03-01" {
		t.Fatalf("expected reference day 2025-03-01, got %s", got)
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(time.Hour)
	if !updated.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected advanced time %v", updated)
	}
	if got := clock.Today().String(); got != "2025-03-11" {
		t.Fatalf("expected day to roll over, got %s", got)
	}

	target := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	clock.Set(target)
	if !clock.Now().Equal(target) {
		t.Fatalf("expected %v after Set, got %v", target, clock.Now())
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(time.Time{})
	now := clock.NowFunc()
	clock.Advance(time.Minute)
	if !now().Equal(ReferenceTime().Add(time.Minute)) {
		t.Fatalf("expected NowFunc to track the clock")
	}

	var nilClock *Clock
	if nilClock.NowFunc() == nil {
		t.Fatalf("expected fallback function for nil clock")
	}
}
