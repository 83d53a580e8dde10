// Command orrery runs the solar system visualization in a window, or
// offscreen with --headless, optionally capturing every frame and
// assembling the frames into a video at exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/capture"
	"github.com/plus3/orrery/config"
	"github.com/plus3/orrery/debugui"
	"github.com/plus3/orrery/encode"
	"github.com/plus3/orrery/engine"
	"github.com/plus3/orrery/input"
	"github.com/plus3/orrery/logging"
	"github.com/plus3/orrery/orbit"
	"github.com/plus3/orrery/render"
	"github.com/plus3/orrery/solar"
	"github.com/plus3/orrery/window"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitUsage    = 2
	exitEncoding = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// session holds what was built for one run.
type session struct {
	cfg       *config.Config
	log       zerolog.Logger
	app       *engine.App
	capturer  *capture.Capturer
	assembler *encode.Assembler
	window    *window.Window
	started   time.Time
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("orrery", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(viper.New(), fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log := logging.New(cfg.LogLevel, stderr, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := build(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return exitFatal
	}

	if s.window != nil {
		err = s.window.Run(ctx, s.app)
	} else {
		err = s.app.Run(ctx)
	}

	code := exitOK
	var encErr *encode.EncodingError
	switch {
	case err == nil:
	case errors.As(err, &encErr):
		log.Error().Err(err).Msg("video assembly failed, frames were kept")
		code = exitEncoding
	default:
		log.Error().Err(err).Msg("session aborted")
		code = exitFatal
	}

	report := s.report(err)
	if path, werr := s.writeManifest(err); werr != nil {
		log.Warn().Err(werr).Msg("failed to write session manifest")
	} else {
		report.Manifest = path
	}
	if rerr := report.Generate(stdout); rerr != nil {
		log.Warn().Err(rerr).Msg("failed to print report")
	}
	return code
}

// build wires the renderer, capture, encoder, display and scene into an
// initialized app.
func build(cfg *config.Config, log zerolog.Logger) (*session, error) {
	s := &session{cfg: cfg, log: log, started: time.Now()}

	renderer := render.New(cfg.Window.Width, cfg.Window.Height,
		render.WithLogger(logging.Sampled(log.With().Str("component", "render").Logger())),
	)
	opts := []engine.Option{
		engine.WithFrameRate(cfg.FrameRate),
		engine.WithLogger(log.With().Str("component", "engine").Logger()),
	}

	if cfg.Capture.Enabled {
		capOpts := []capture.Option{
			capture.WithFormat(cfg.CaptureFormat()),
			capture.WithJPEGQuality(cfg.Capture.JPEGQuality),
			capture.WithLogger(log.With().Str("component", "capture").Logger()),
		}
		var err error
		if cfg.Capture.Session {
			s.capturer, err = capture.NewSession(cfg.Capture.Dir, capOpts...)
		} else {
			s.capturer, err = capture.New(cfg.Capture.Dir, capOpts...)
		}
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithCapturer(s.capturer))

		if cfg.Video.Enabled {
			job := encode.DefaultJob(cfg.FrameRate)
			job.Tool = cfg.Video.Tool
			job.Codec = cfg.Video.Codec
			job.CRF = cfg.Video.CRF
			job.Output = cfg.Video.Output
			job.ExtraArgs = cfg.Video.ExtraArgs
			job.Pattern = s.capturer.Pattern()
			s.assembler = encode.New(job, encode.WithLogger(log.With().Str("component", "encode").Logger()))
			opts = append(opts, engine.WithAssembler(s.assembler))
		}
	}

	var sampler engine.InputSampler = &input.Script{Frames: cfg.Frames}
	sys := &solar.System{}
	var overlay *debugui.Overlay
	if !cfg.Headless {
		var winOpts []window.Option
		winOpts = append(winOpts, window.WithLogger(log.With().Str("component", "window").Logger()))
		if cfg.Debug {
			overlay = debugui.NewOverlay()
			winOpts = append(winOpts, window.WithOverlay(overlay))
		}
		s.window = window.New(window.Config{
			Width:     cfg.Window.Width,
			Height:    cfg.Window.Height,
			Title:     cfg.Window.Title,
			FrameRate: cfg.FrameRate,
		}, winOpts...)
		sampler = s.window
		if cfg.Frames > 0 {
			sampler = &limited{InputSampler: s.window, frames: cfg.Frames}
		}
		opts = append(opts, engine.WithPresenter(s.window))
	}

	s.app = engine.New(renderer, sampler, opts...)
	if err := s.app.Initialize(solar.Setup(sceneOptions(cfg), sys)); err != nil {
		return nil, err
	}

	if overlay != nil {
		overlay.Add("Performance", debugui.NewPerformance(s.app).Render)
		overlay.Add("Bodies", debugui.NewBodies(sys.Table, s.app.Scene).Render)
	}
	return s, nil
}

func sceneOptions(cfg *config.Config) solar.Options {
	opts := solar.DefaultOptions(cfg.FrameRate, float64(cfg.Window.Width)/float64(cfg.Window.Height))
	opts.Factors = orbit.Factors{
		FrameRate:   cfg.FrameRate,
		Rotation:    cfg.Simulation.RotationFactor,
		Translation: cfg.Simulation.TranslationFactor,
		AU:          cfg.Simulation.AUFactor,
	}
	opts.CameraPosition = mgl64.Vec3{cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]}
	opts.CameraTarget = mgl64.Vec3{cfg.Camera.Target[0], cfg.Camera.Target[1], cfg.Camera.Target[2]}
	opts.UnitsPerSecond = cfg.Camera.UnitsPerSecond
	opts.DegreesPerSecond = cfg.Camera.DegreesPerSecond
	return opts
}

func (s *session) report(runErr error) *Report {
	r := &Report{
		FrameRate: s.cfg.FrameRate,
		Width:     s.cfg.Window.Width,
		Height:    s.cfg.Window.Height,
		Headless:  s.cfg.Headless,
		Stats:     s.app.Stats(),
	}
	if s.capturer != nil {
		r.CaptureDir = s.capturer.Dir()
		r.Format = s.capturer.Format().String()
	}
	if s.assembler != nil && r.Stats.Captured > 0 {
		r.Video = s.assembler.Job().Output
		r.Encoded = s.assembler.Result() != nil
		if runErr != nil {
			r.Error = runErr.Error()
		}
	}
	return r
}

// writeManifest records the session in its capture directory, so runs that
// share a video output keep separate manifests. Nothing is written without
// frames.
func (s *session) writeManifest(runErr error) (string, error) {
	if s.capturer == nil || s.capturer.Count() == 0 {
		return "", nil
	}

	m := encode.Manifest{
		Session:   s.capturer.Session(),
		Started:   s.started,
		Finished:  time.Now(),
		Frames:    s.capturer.Count(),
		FrameRate: s.cfg.FrameRate,
		Width:     s.cfg.Window.Width,
		Height:    s.cfg.Window.Height,
		Pattern:   s.capturer.Pattern(),
		Format:    s.capturer.Format().String(),
	}
	if s.assembler != nil {
		m.Video = s.assembler.Job().Output
		m.Encoded = s.assembler.Result() != nil
		if argv, err := s.assembler.Command(); err == nil {
			m.Command = argv
		}
		if runErr != nil {
			m.Error = runErr.Error()
		}
	}

	path := filepath.Join(s.capturer.Dir(), encode.ManifestName)
	if err := encode.WriteManifest(path, m); err != nil {
		return "", err
	}
	return path, nil
}

// limited requests quit after a fixed number of samples.
type limited struct {
	engine.InputSampler
	frames  int
	sampled int
}

func (l *limited) Sample() input.Snapshot {
	if l.sampled >= l.frames {
		return input.Snapshot{Quit: true}
	}
	l.sampled++
	return l.InputSampler.Sample()
}
