// Package clock is the single source of "now" for the reservation engine.
//
// Business rules that depend on the current instant (refund tiers, check-in
// in the past, completion after check-out) receive a Clock so tests can pin
// time with Fixed.
package clock

import (
	"sync"
	"time"

	"innkeep/shared/timezone"
)

type Clock interface {
	Now() time.Time
	// Today is the current calendar date in the application timezone, at midnight.
	Today() time.Time
}

type systemClock struct{}

func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

func (c systemClock) Today() time.Time {
	return StartOfDay(c.Now())
}

// FixedClock always reports the instant it was set to.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

func Fixed(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (f *FixedClock) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.now
}

func (f *FixedClock) Today() time.Time {
	return StartOfDay(f.Now())
}

func (f *FixedClock) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = now
}

func (f *FixedClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
