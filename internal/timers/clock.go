package timers

import (
	"sync"
	"time"
)

// Clock measures elapsed playing time. Paused intervals are excluded, so two
// readings taken either side of a pause differ only by the time spent playing.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	elapsed time.Duration
	started time.Time
	paused  bool
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithNow overrides the wall-clock source. Used by tests.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) { c.now = now }
}

// StartingAt makes the clock begin at offset instead of zero, which keeps
// timestamps monotonic when a session continues a saved event log.
func StartingAt(offset time.Duration) ClockOption {
	return func(c *Clock) { c.elapsed = offset }
}

// NewClock returns a running clock.
func NewClock(opts ...ClockOption) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.started = c.now()
	return c
}

// Now returns the playing time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return c.elapsed
	}
	return c.elapsed + c.now().Sub(c.started)
}

// Pause freezes the clock. Pausing a paused clock is a no-op.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return
	}
	c.elapsed += c.now().Sub(c.started)
	c.paused = true
}

// Resume restarts a paused clock. Resuming a running clock is a no-op.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	c.started = c.now()
	c.paused = false
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
