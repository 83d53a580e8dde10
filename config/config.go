// Package config loads runtime settings from defaults, an optional config
// file, ORRERY_ environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plus3/orrery/capture"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ORRERY_CAPTURE_ENABLED.
const EnvPrefix = "ORRERY"

// WindowConfig holds window settings. They are fixed for the session.
type WindowConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Title  string `json:"title" mapstructure:"title"`
}

// CaptureConfig holds frame capture settings.
type CaptureConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	Dir         string `json:"dir" mapstructure:"dir"`
	Format      string `json:"format" mapstructure:"format"`
	Session     bool   `json:"session" mapstructure:"session"`
	JPEGQuality int    `json:"jpegQuality" mapstructure:"jpegQuality"`
}

// VideoConfig holds encoder settings.
type VideoConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Tool      string `json:"tool" mapstructure:"tool"`
	Codec     string `json:"codec" mapstructure:"codec"`
	CRF       int    `json:"crf" mapstructure:"crf"`
	Output    string `json:"output" mapstructure:"output"`
	ExtraArgs string `json:"extraArgs" mapstructure:"extraArgs"`
}

// SimulationConfig holds the time and distance compression factors.
type SimulationConfig struct {
	RotationFactor    float64 `json:"rotationFactor" mapstructure:"rotationFactor"`
	TranslationFactor float64 `json:"translationFactor" mapstructure:"translationFactor"`
	AUFactor          float64 `json:"auFactor" mapstructure:"auFactor"`
}

// CameraConfig places the camera rig.
type CameraConfig struct {
	Position         []float64 `json:"position" mapstructure:"position"`
	Target           []float64 `json:"target" mapstructure:"target"`
	UnitsPerSecond   float64   `json:"unitsPerSecond" mapstructure:"unitsPerSecond"`
	DegreesPerSecond float64   `json:"degreesPerSecond" mapstructure:"degreesPerSecond"`
}

// Config is the complete runtime configuration.
type Config struct {
	FrameRate float64 `json:"frameRate" mapstructure:"frameRate"`
	Headless  bool    `json:"headless" mapstructure:"headless"`
	Frames    int     `json:"frames" mapstructure:"frames"`
	LogLevel  string  `json:"logLevel" mapstructure:"logLevel"`
	Debug     bool    `json:"debug" mapstructure:"debug"`

	Window     WindowConfig     `json:"window" mapstructure:"window"`
	Capture    CaptureConfig    `json:"capture" mapstructure:"capture"`
	Video      VideoConfig      `json:"video" mapstructure:"video"`
	Simulation SimulationConfig `json:"simulation" mapstructure:"simulation"`
	Camera     CameraConfig     `json:"camera" mapstructure:"camera"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("frameRate", 144)
	v.SetDefault("headless", false)
	v.SetDefault("frames", 0)
	v.SetDefault("logLevel", "info")
	v.SetDefault("debug", false)

	v.SetDefault("window.width", 1920)
	v.SetDefault("window.height", 1080)
	v.SetDefault("window.title", "Graphics Window")

	v.SetDefault("capture.enabled", false)
	v.SetDefault("capture.dir", "./frames")
	v.SetDefault("capture.format", "png")
	v.SetDefault("capture.session", true)
	v.SetDefault("capture.jpegQuality", 95)

	v.SetDefault("video.enabled", true)
	v.SetDefault("video.tool", "ffmpeg")
	v.SetDefault("video.codec", "libx264")
	v.SetDefault("video.crf", 0)
	v.SetDefault("video.output", "./video/video.mp4")
	v.SetDefault("video.extraArgs", "")

	v.SetDefault("simulation.rotationFactor", 1000)
	v.SetDefault("simulation.translationFactor", 5000)
	v.SetDefault("simulation.auFactor", 3)

	v.SetDefault("camera.position", []float64{300, 100, 50})
	v.SetDefault("camera.target", []float64{0, 0, 0})
	v.SetDefault("camera.unitsPerSecond", 1)
	v.SetDefault("camera.degreesPerSecond", 60)
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"frame-rate":     "frameRate",
	"headless":       "headless",
	"frames":         "frames",
	"log-level":      "logLevel",
	"debug":          "debug",
	"capture":        "capture.enabled",
	"capture-dir":    "capture.dir",
	"capture-format": "capture.format",
	"video":          "video.enabled",
	"video-output":   "video.output",
	"video-args":     "video.extraArgs",
}

// RegisterFlags defines the command-line flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "config file (json, toml or yaml)")
	fs.Float64("frame-rate", 144, "target frame rate")
	fs.Bool("headless", false, "render offscreen without a window")
	fs.IntP("frames", "n", 0, "stop after this many frames (0 runs until quit)")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("debug", false, "show the debug overlay")
	fs.Bool("capture", false, "save every frame to disk")
	fs.String("capture-dir", "./frames", "directory for captured frames")
	fs.String("capture-format", "png", "frame image format (png, jpg, bmp, tif)")
	fs.Bool("video", true, "assemble captured frames into a video at shutdown")
	fs.String("video-output", "./video/video.mp4", "video output path")
	fs.String("video-args", "", "extra encoder arguments")
}

// Load builds the configuration. fs may be nil; when it is not, its flags
// must have been registered with RegisterFlags and parsed.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frameRate must be positive, got %v", c.FrameRate))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", c.Frames))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Simulation.RotationFactor < 0 || c.Simulation.TranslationFactor <= 0 || c.Simulation.AUFactor <= 0 {
		errs = append(errs, fmt.Errorf("simulation factors must be positive, got %+v", c.Simulation))
	}
	if _, err := capture.ParseFormat(c.Capture.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("capture.jpegQuality must be within 1-100, got %d", c.Capture.JPEGQuality))
	}
	if len(c.Camera.Position) != 3 || len(c.Camera.Target) != 3 {
		errs = append(errs, fmt.Errorf("camera position and target need 3 components"))
	}
	if c.Video.Enabled && c.Capture.Enabled && c.Video.Tool == "" {
		errs = append(errs, fmt.Errorf("video.tool is required when video is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// CaptureFormat returns the parsed capture format.
func (c *Config) CaptureFormat() capture.Format {
	f, _ := capture.ParseFormat(c.Capture.Format)
	return f
}
