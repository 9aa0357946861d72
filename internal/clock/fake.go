package clock

import (
	"sync"
	"time"
)

var _ Clock = (*FakeClock)(nil)

// FakeClock is a settable Clock for tests. Like the system clock it always
// reports UTC; callers convert to the business timezone themselves.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start.UTC()}
}

func (f *FakeClock) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Advance moves the clock forward by d. Negative durations are ignored so
// sequence periods never run backwards in a test.
func (f *FakeClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set jumps to t, e.g. across a business-day boundary.
func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}
