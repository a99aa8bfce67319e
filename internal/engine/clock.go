package engine

import (
	"sync"
	"time"
)

// TimestampLayout formats created_at and updated_at: UTC with millisecond
// precision, fixed width, so lexicographic order is chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Clock supplies wall-clock time for timestamps and time-derived ids.
//
// Implemented by SystemClock (production) and testutil.StepClock (tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// monotonicClock truncates base to TimestampLayout precision and never repeats
// or goes back: a reading at or before the last one is bumped one millisecond
// past it. Every Engine wraps its clock in one.
type monotonicClock struct {
	base Clock

	mu   sync.Mutex
	last time.Time
}

func newMonotonicClock(base Clock) *monotonicClock {
	return &monotonicClock{base: base}
}

func (c *monotonicClock) Now() time.Time {
	t := c.base.Now().Truncate(time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.last.IsZero() && !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t
}
