package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant a StepClock reports.
var DefaultEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// StepClock is a deterministic clock for tests: every call to Now advances it
// by a fixed step, so consecutive inserts get strictly increasing timestamps.
//
// Implements engine.Clock. Unlike engine.SystemClock, StepClock can be reset
// for test reuse so the same scenario produces identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	ticks int64
}

// NewStepClock creates a clock starting at DefaultEpoch with a one-second step.
//
// The first call to Now() returns DefaultEpoch.
func NewStepClock() *StepClock {
	return NewStepClockAt(DefaultEpoch, time.Second)
}

// NewStepClockAt creates a clock starting at start and advancing by step.
func NewStepClockAt(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start.UTC(), step: step}
}

// Now returns the current instant and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return t
}

// Ticks returns how many times Now has been called.
func (c *StepClock) Ticks() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset rewinds the clock to its start.
//
// After Reset(), the next call to Now() returns the start instant again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
