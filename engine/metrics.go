package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/plus3/orrery/engine"

type loopMetrics struct {
	frames        metric.Int64Counter
	frameDuration metric.Float64Histogram
	phaseDuration metric.Float64Histogram
}

// newLoopMetrics uses the global meter provider, a no-op unless the host
// installs one.
func newLoopMetrics() (*loopMetrics, error) {
	m := otel.Meter(instrumentationName)
	lm := &loopMetrics{}

	var err error
	lm.frames, err = m.Int64Counter(
		"orrery.frames",
		metric.WithDescription("Frames completed by the loop"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}

	lm.frameDuration, err = m.Float64Histogram(
		"orrery.frame.duration",
		metric.WithDescription("Work time per frame, excluding pacing"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}

	lm.phaseDuration, err = m.Float64Histogram(
		"orrery.phase.duration",
		metric.WithDescription("Time spent in each loop phase"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating phase duration histogram: %w", err)
	}
	return lm, nil
}

func (lm *loopMetrics) frame(ctx context.Context, d time.Duration) {
	lm.frames.Add(ctx, 1)
	lm.frameDuration.Record(ctx, d.Seconds())
}

func (lm *loopMetrics) phase(ctx context.Context, name string, d time.Duration) {
	lm.phaseDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("phase", name)))
}
