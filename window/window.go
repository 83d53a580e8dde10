// Package window displays frames in an ebiten window, samples the keyboard
// and lets ebiten's tick loop drive the app one step per tick.
package window

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/orrery/debugui"
	debugui_ebiten "github.com/plus3/orrery/debugui/ebiten"
	"github.com/plus3/orrery/engine"
	"github.com/plus3/orrery/input"
	"github.com/plus3/orrery/render"
	"github.com/rs/zerolog"
)

// Config fixes the window for the whole session.
type Config struct {
	Width     int
	Height    int
	Title     string
	FrameRate float64
}

// keyMap binds logical keys to physical ones.
var keyMap = [...]struct {
	key      input.Key
	physical ebiten.Key
}{
	{input.KeyW, ebiten.KeyW},
	{input.KeyA, ebiten.KeyA},
	{input.KeyS, ebiten.KeyS},
	{input.KeyD, ebiten.KeyD},
	{input.KeyR, ebiten.KeyR},
	{input.KeyF, ebiten.KeyF},
	{input.KeyQ, ebiten.KeyQ},
	{input.KeyE, ebiten.KeyE},
	{input.KeyT, ebiten.KeyT},
	{input.KeyG, ebiten.KeyG},
	{input.KeyEscape, ebiten.KeyEscape},
}

// Window is an ebiten.Game presenting the frames an engine.App renders.
// It is both the app's Presenter and its InputSampler.
type Window struct {
	cfg Config

	app   *engine.App
	ctx   context.Context
	frame *ebiten.Image

	overlay *debugui.Overlay
	imgui   *debugui_ebiten.ImguiBackend

	log zerolog.Logger
}

// Option configures a Window.
type Option func(*Window)

// WithOverlay draws the overlay's panels over each frame. F1 toggles it.
func WithOverlay(o *debugui.Overlay) Option {
	return func(w *Window) {
		w.overlay = o
	}
}

// WithLogger sets the window's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Window) {
		w.log = log
	}
}

// New creates a window. Nothing is opened until Run.
func New(cfg Config, opts ...Option) *Window {
	w := &Window{
		cfg: cfg,
		ctx: context.Background(),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Sample polls the keyboard. Escape or closing the window requests quit.
// Keys are withheld from the app while the overlay has keyboard focus.
func (w *Window) Sample() input.Snapshot {
	captured := w.overlay != nil && w.overlay.Input().WantCaptureKeyboard
	return sample(ebiten.IsKeyPressed, ebiten.IsWindowBeingClosed(), captured)
}

func sample(pressed func(ebiten.Key) bool, closing, captured bool) input.Snapshot {
	var state input.State
	for _, m := range keyMap {
		if pressed(m.physical) {
			state = state.Press(m.key)
		}
	}

	snapshot := input.Snapshot{Quit: closing || state.Down(input.KeyEscape)}
	if !captured {
		snapshot.Device = state.Release(input.KeyEscape)
	}
	return snapshot
}

// Present uploads fb to the window's frame image. The buffer is bottom-up;
// Draw flips it.
func (w *Window) Present(fb *render.FrameBuffer) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	if w.frame == nil || w.frame.Bounds().Dx() != fb.Width || w.frame.Bounds().Dy() != fb.Height {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(fb.Width, fb.Height)
	}
	w.frame.WritePixels(fb.Pix)
	return nil
}

// Run opens the window and steps app once per tick until it stops, then
// shuts the app down. A fatal frame error is returned as is.
func (w *Window) Run(ctx context.Context, app *engine.App) error {
	if w.cfg.Width <= 0 || w.cfg.Height <= 0 {
		return fmt.Errorf("window: invalid size %dx%d", w.cfg.Width, w.cfg.Height)
	}
	w.app = app
	w.ctx = ctx

	if w.overlay != nil {
		w.imgui = debugui_ebiten.NewImguiBackend(w.cfg.Title, w.cfg.Width, w.cfg.Height)
	}

	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(tps(w.cfg.FrameRate))

	w.log.Info().
		Int("width", w.cfg.Width).
		Int("height", w.cfg.Height).
		Int("tps", ebiten.TPS()).
		Msg("window opened")

	runErr := ebiten.RunGame(w)
	if runErr != nil {
		w.log.Error().Err(runErr).Msg("window loop stopped")
	}
	return errors.Join(runErr, app.Shutdown(context.WithoutCancel(ctx)))
}

func tps(rate float64) int {
	if rate <= 0 {
		return engine.DefaultFrameRate
	}
	return max(1, int(math.Round(rate)))
}

// Update runs one app step per tick.
func (w *Window) Update() error {
	if w.imgui != nil {
		w.imgui.BeginFrame()
		defer w.imgui.EndFrame()
	}
	if w.overlay != nil && inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		w.overlay.Toggle()
	}

	running, err := w.app.Step(w.ctx)
	if err != nil {
		return err
	}
	if w.overlay != nil {
		w.overlay.Render()
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

// Draw shows the last presented frame, flipped upright, under the overlay.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, float64(w.frame.Bounds().Dy()))
		sx := float64(screen.Bounds().Dx()) / float64(w.frame.Bounds().Dx())
		sy := float64(screen.Bounds().Dy()) / float64(w.frame.Bounds().Dy())
		op.GeoM.Scale(sx, sy)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(w.frame, op)
	}
	if w.imgui != nil {
		w.imgui.Draw(screen)
	}
}

// Layout keeps the logical screen at the configured size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w.imgui != nil {
		w.imgui.Layout(w.cfg.Width, w.cfg.Height)
	}
	return w.cfg.Width, w.cfg.Height
}
