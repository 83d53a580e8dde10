package engine

import (
	"context"
	"time"
)

// Pacer bounds the loop to a target rate. Wait blocks until at least one
// frame interval has passed since the previous Wait returned. Frames that
// overrun the interval are not caught up.
type Pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	last     time.Time
}

// NewPacer creates a pacer for rate frames per second. A rate of zero or less
// disables pacing.
func NewPacer(rate float64) *Pacer {
	var interval time.Duration
	if rate > 0 {
		interval = time.Duration(float64(time.Second) / rate)
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Interval returns the minimum frame interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks for the remainder of the current frame interval. It returns
// early with the context's error if ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.last.IsZero() {
		p.last = p.now()
	}
	if remaining := p.interval - p.now().Sub(p.last); remaining > 0 {
		if err := p.sleep(ctx, remaining); err != nil {
			return err
		}
	}
	p.last = p.now()
	return nil
}

// Reset makes the next Wait measure from now.
func (p *Pacer) Reset() {
	p.last = p.now()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
