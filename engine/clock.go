package engine

import "time"

// Clock tracks the frame counter, the last frame delta and cumulative
// elapsed time. Elapsed never decreases: a time source that steps backwards
// yields a zero delta.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool

	delta   float64
	elapsed float64
	frame   int64
}

// NewClock creates a clock reading from now, or time.Now when nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Start records the reference instant for the first delta.
func (c *Clock) Start() {
	c.last = c.now()
	c.started = true
}

// Tick samples the time source and returns the delta in seconds since the
// previous Tick (or Start). Elapsed time advances by the same amount. The
// first Tick of a clock that was never started returns zero.
func (c *Clock) Tick() float64 {
	now := c.now()
	if !c.started {
		c.last = now
		c.started = true
	}
	dt := now.Sub(c.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	c.last = now
	c.delta = dt
	c.elapsed += dt
	return dt
}

// Advance increments the frame counter and returns the new value.
func (c *Clock) Advance() int64 {
	c.frame++
	return c.frame
}

// Delta returns the last frame delta in seconds.
func (c *Clock) Delta() float64 { return c.delta }

// Elapsed returns cumulative elapsed seconds.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Frame returns the number of completed frames.
func (c *Clock) Frame() int64 { return c.frame }
