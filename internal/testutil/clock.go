// Package testutil holds shared helpers for tests.
package testutil

import (
	"sync"
	"time"
)

// Clock provides a thread-safe deterministic time source for tests.
//
// Each call to Next advances the clock by a fixed step, so records
// written in sequence get strictly increasing timestamps regardless of
// wall-clock resolution.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration

	start time.Time
}

// NewClock creates a clock starting at start, advancing by step per Next.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step, start: start}
}

// Next advances the clock and returns the new time.
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// Current returns the current time without advancing.
func (c *Clock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its start time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
