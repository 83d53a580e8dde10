package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTime is a manual time source whose sleeps advance the clock.
type fakeTime struct {
	now   time.Time
	slept []time.Duration
}

func (f *fakeTime) Now() time.Time {
	return f.now
}

func (f *fakeTime) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.slept = append(f.slept, d)
	f.now = f.now.Add(d)
	return nil
}

func newFakePacer(rate float64) (*Pacer, *fakeTime) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	p := NewPacer(rate)
	p.now = ft.Now
	p.sleep = ft.Sleep
	return p, ft
}

func TestPacer(t *testing.T) {
	t.Run("waits out the remainder of the interval", func(t *testing.T) {
		p, ft := newFakePacer(100)
		p.Reset()

		ft.now = ft.now.Add(4 * time.Millisecond)
		require.NoError(t, p.Wait(context.Background()))
		assert.Equal(t, []time.Duration{6 * time.Millisecond}, ft.slept)
	})

	t.Run("slow frames are not caught up", func(t *testing.T) {
		p, ft := newFakePacer(100)
		p.Reset()

		ft.now = ft.now.Add(25 * time.Millisecond)
		require.NoError(t, p.Wait(context.Background()))
		assert.Empty(t, ft.slept)

		ft.now = ft.now.Add(1 * time.Millisecond)
		require.NoError(t, p.Wait(context.Background()))
		assert.Equal(t, []time.Duration{9 * time.Millisecond}, ft.slept)
	})

	t.Run("144 Hz interval", func(t *testing.T) {
		p := NewPacer(144)
		assert.Equal(t, time.Second/144, p.Interval())
	})

	t.Run("zero rate disables pacing", func(t *testing.T) {
		p, ft := newFakePacer(0)
		p.Reset()
		require.NoError(t, p.Wait(context.Background()))
		assert.Empty(t, ft.slept)
	})

	t.Run("cancelled wait", func(t *testing.T) {
		p, _ := newFakePacer(10)
		p.Reset()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
	})

	t.Run("real sleep honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
		assert.NoError(t, sleepContext(context.Background(), time.Microsecond))
	})
}

func TestClock(t *testing.T) {
	base := time.Unix(100, 0)
	readings := []time.Time{
		base,
		base.Add(10 * time.Millisecond),
		base.Add(5 * time.Millisecond),
		base.Add(30 * time.Millisecond),
	}
	i := 0
	c := NewClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})
	c.Start()

	assert.InDelta(t, 0.010, c.Tick(), 1e-12)
	assert.Equal(t, 0.0, c.Tick(), "backwards step yields zero delta")
	assert.InDelta(t, 0.025, c.Tick(), 1e-12)
	assert.InDelta(t, 0.035, c.Elapsed(), 1e-12)
	assert.InDelta(t, 0.025, c.Delta(), 1e-12)

	assert.Equal(t, int64(0), c.Frame())
	assert.Equal(t, int64(1), c.Advance())
	assert.Equal(t, int64(1), c.Frame())
}
