// Package engine drives the frame loop: it samples input, runs the simulation
// systems, renders, presents, captures and paces, in that order, on a single
// goroutine. Shutdown releases collaborators and assembles the captured
// frames into a video.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/plus3/orrery/scene"
	"github.com/rs/zerolog"
)

// DefaultFrameRate is the target loop rate in frames per second.
const DefaultFrameRate = 144

// State is the lifecycle state of an App.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateRunning:
		return "Running"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateTerminated:
		return "Terminated"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Setup is filled in by a SetupFunc during Initialize.
type Setup struct {
	Scene     *scene.Hierarchy
	Scheduler *Scheduler
	FrameRate float64
	Log       zerolog.Logger

	// Camera must be set to a node with a camera payload.
	Camera *scene.Node
}

// SetupFunc builds the scene, camera, lights and simulation systems.
type SetupFunc func(s *Setup) error

// Stats summarizes a session.
type Stats struct {
	State     State
	Frames    int64
	Elapsed   float64
	Captured  int
	MinFrame  time.Duration
	MaxFrame  time.Duration
	AvgFrame  time.Duration
	LastFrame time.Duration
	Scheduler *SchedulerStats
}

// App owns the scene and orchestrates one session.
type App struct {
	state     State
	frameRate float64

	backend   RenderBackend
	sampler   InputSampler
	presenter Presenter
	capturer  FrameCapturer
	assembler VideoAssembler
	closers   []io.Closer

	clock     *Clock
	pacer     *Pacer
	scheduler *Scheduler
	scene     *scene.Hierarchy
	camera    *scene.Node

	minFrame   time.Duration
	maxFrame   time.Duration
	totalFrame time.Duration
	lastFrame  time.Duration

	metrics *loopMetrics
	log     zerolog.Logger
}

// Option configures an App.
type Option func(*App)

// WithFrameRate sets the target rate used for pacing and handed to systems.
func WithFrameRate(rate float64) Option {
	return func(a *App) {
		a.frameRate = rate
	}
}

// WithLogger sets the app's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithPresenter displays each rendered frame.
func WithPresenter(p Presenter) Option {
	return func(a *App) {
		a.presenter = p
	}
}

// WithCapturer persists each rendered frame.
func WithCapturer(c FrameCapturer) Option {
	return func(a *App) {
		a.capturer = c
	}
}

// WithAssembler runs once at shutdown when frames were captured.
func WithAssembler(v VideoAssembler) Option {
	return func(a *App) {
		a.assembler = v
	}
}

// WithCloser registers a resource released at shutdown, in registration order.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// WithTimeSource replaces the clock's time source.
func WithTimeSource(now func() time.Time) Option {
	return func(a *App) {
		a.clock = NewClock(now)
	}
}

// WithPacer replaces the pacer used by Run.
func WithPacer(p *Pacer) Option {
	return func(a *App) {
		a.pacer = p
	}
}

// New creates an uninitialized app.
func New(backend RenderBackend, sampler InputSampler, opts ...Option) *App {
	a := &App{
		frameRate: DefaultFrameRate,
		backend:   backend,
		sampler:   sampler,
		clock:     NewClock(nil),
		scheduler: NewScheduler(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.pacer == nil {
		a.pacer = NewPacer(a.frameRate)
	}
	return a
}

// Initialize runs setup and moves the app to Running. Any failure is
// returned as an *InitializationError and leaves the app uninitialized.
func (a *App) Initialize(setup SetupFunc) error {
	if a.state != StateUninitialized {
		return ErrAlreadyInitialized
	}

	metrics, err := newLoopMetrics()
	if err != nil {
		return &InitializationError{Err: err}
	}

	s := &Setup{
		Scene:     scene.New(),
		Scheduler: a.scheduler,
		FrameRate: a.frameRate,
		Log:       a.log,
	}
	if err := setup(s); err != nil {
		return &InitializationError{Err: err}
	}
	if s.Camera == nil {
		return &InitializationError{Err: ErrNoCamera}
	}
	if _, ok := s.Camera.Camera(); !ok {
		return &InitializationError{Err: fmt.Errorf("node %q: %w", s.Camera.Name(), ErrNoCamera)}
	}

	a.scene = s.Scene
	a.camera = s.Camera
	a.metrics = metrics
	a.state = StateRunning

	a.log.Info().
		Int("nodes", a.scene.Len()).
		Int("systems", a.scheduler.Len()).
		Float64("frameRate", a.frameRate).
		Msg("app initialized")
	return nil
}

// Step runs one iteration of the loop. It returns false once a quit was
// requested or ctx is done, after which the caller should call Shutdown. A
// non-nil error is fatal: the app has already released its collaborators
// and will not assemble a video. The clock starts on the first frame, whose
// delta is zero.
func (a *App) Step(ctx context.Context) (bool, error) {
	switch a.state {
	case StateUninitialized:
		return false, ErrNotInitialized
	case StateRunning:
	default:
		return false, nil
	}

	snapshot := a.sampler.Sample()
	if snapshot.Quit || ctx.Err() != nil {
		a.log.Debug().Int64("frames", a.clock.Frame()).Bool("cancelled", ctx.Err() != nil).Msg("quit requested")
		a.state = StateShuttingDown
		return false, nil
	}

	start := time.Now()
	dt := a.clock.Tick()
	frame := &UpdateFrame{
		Index:     a.clock.Frame() + 1,
		DeltaTime: dt,
		Elapsed:   a.clock.Elapsed(),
		FrameRate: a.frameRate,
		Input:     snapshot.Device,
		Scene:     a.scene,
	}

	if err := a.runFrame(ctx, frame); err != nil {
		a.abort(err)
		return false, err
	}

	d := time.Since(start)
	a.recordFrame(d)
	a.metrics.frame(ctx, d)
	return true, nil
}

func (a *App) runFrame(ctx context.Context, frame *UpdateFrame) error {
	phase := time.Now()
	if err := a.scheduler.Once(frame); err != nil {
		return err
	}
	a.metrics.phase(ctx, "simulate", time.Since(phase))

	phase = time.Now()
	fb, err := a.backend.Draw(a.scene, a.camera)
	if err != nil {
		return &FrameError{Phase: "render", Frame: frame.Index, Err: err}
	}
	a.metrics.phase(ctx, "render", time.Since(phase))

	if a.presenter != nil {
		if err := a.presenter.Present(fb); err != nil {
			return &FrameError{Phase: "present", Frame: frame.Index, Err: err}
		}
	}

	index := a.clock.Advance()

	if a.capturer != nil {
		phase = time.Now()
		if err := a.capturer.Capture(index, fb); err != nil {
			return &FrameError{Phase: "capture", Frame: index, Err: err}
		}
		a.metrics.phase(ctx, "capture", time.Since(phase))
	}
	return nil
}

// Run drives Step at the configured rate until quit, then shuts down. The
// returned error is either the fatal frame error or the shutdown result.
func (a *App) Run(ctx context.Context) error {
	if a.state == StateUninitialized {
		return ErrNotInitialized
	}

	a.pacer.Reset()
	for {
		running, err := a.Step(ctx)
		if err != nil {
			return err
		}
		if !running {
			break
		}
		// Cancellation is observed by the next Step.
		_ = a.pacer.Wait(ctx)
	}
	return a.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown releases collaborators and, if any frame was captured, runs the
// video assembler exactly once. The assembler's error is returned as is;
// the app is Terminated either way. Calling Shutdown again is a no-op.
func (a *App) Shutdown(ctx context.Context) error {
	switch a.state {
	case StateTerminated:
		return nil
	case StateUninitialized:
		a.state = StateTerminated
		return nil
	}
	a.state = StateShuttingDown

	closeErr := a.release()

	var encodeErr error
	if a.assembler != nil && a.capturer != nil && a.capturer.Count() > 0 {
		a.log.Info().Int("frames", a.capturer.Count()).Msg("assembling video")
		start := time.Now()
		encodeErr = a.assembler.Assemble(ctx)
		if encodeErr != nil {
			a.log.Error().Err(encodeErr).Msg("video assembly failed")
		} else {
			a.log.Info().Dur("took", time.Since(start)).Msg("video assembled")
		}
	}

	a.state = StateTerminated
	a.log.Info().
		Int64("frames", a.clock.Frame()).
		Float64("elapsed", a.clock.Elapsed()).
		Msg("app terminated")
	return errors.Join(closeErr, encodeErr)
}

// abort handles a fatal frame error: collaborators are released best effort
// and no video is assembled.
func (a *App) abort(err error) {
	a.log.Error().Err(err).Int64("frames", a.clock.Frame()).Msg("fatal frame error")
	a.state = StateShuttingDown
	if closeErr := a.release(); closeErr != nil {
		a.log.Warn().Err(closeErr).Msg("release after fatal error")
	}
	a.state = StateTerminated
}

func (a *App) release() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) recordFrame(d time.Duration) {
	if a.clock.Frame() == 1 || d < a.minFrame {
		a.minFrame = d
	}
	if d > a.maxFrame {
		a.maxFrame = d
	}
	a.totalFrame += d
	a.lastFrame = d
}

// State returns the lifecycle state.
func (a *App) State() State {
	return a.state
}

// Scene returns the hierarchy built during Initialize.
func (a *App) Scene() *scene.Hierarchy {
	return a.scene
}

// Camera returns the active camera node.
func (a *App) Camera() *scene.Node {
	return a.camera
}

// Scheduler returns the scheduler systems are registered with.
func (a *App) Scheduler() *Scheduler {
	return a.scheduler
}

// Clock returns the app clock.
func (a *App) Clock() *Clock {
	return a.clock
}

// FrameRate returns the target frame rate.
func (a *App) FrameRate() float64 {
	return a.frameRate
}

// Stats returns a snapshot of session statistics.
func (a *App) Stats() Stats {
	s := Stats{
		State:     a.state,
		Frames:    a.clock.Frame(),
		Elapsed:   a.clock.Elapsed(),
		MinFrame:  a.minFrame,
		MaxFrame:  a.maxFrame,
		LastFrame: a.lastFrame,
		Scheduler: a.scheduler.GetStats(),
	}
	if s.Frames > 0 {
		s.AvgFrame = a.totalFrame / time.Duration(s.Frames)
	}
	if a.capturer != nil {
		s.Captured = a.capturer.Count()
	}
	return s
}
