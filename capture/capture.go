// Package capture persists rendered frames as numbered image files that an
// external encoder can consume with a printf-style pattern.
package capture

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"github.com/plus3/orrery/render"
	"github.com/rs/zerolog"
)

// FilePrefix starts every frame file name.
const FilePrefix = "frame_"

// Capturer writes one file per frame into its directory. Frame files are
// named FilePrefix<index>.<ext> without padding; existing files with the same
// index are overwritten.
type Capturer struct {
	dir     string
	session string
	format  Format
	quality int

	count int
	last  int64
	bytes int64
	spent time.Duration

	log zerolog.Logger
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithFormat selects the image encoding.
func WithFormat(f Format) Option {
	return func(c *Capturer) {
		c.format = f
	}
}

// WithJPEGQuality sets the quality used when the format is JPEG.
func WithJPEGQuality(q int) Option {
	return func(c *Capturer) {
		c.quality = q
	}
}

// WithLogger sets the capturer's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Capturer) {
		c.log = log
	}
}

// New creates a capturer writing into dir, creating it if needed.
func New(dir string, opts ...Option) (*Capturer, error) {
	c := &Capturer{
		dir:     dir,
		format:  PNG,
		quality: 95,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &CaptureError{Path: dir, Op: "mkdir", Err: err}
	}
	return c, nil
}

// NewSession creates a capturer writing into a fresh directory under root
// named after a random session id, so frames from earlier runs are never
// picked up by the encoder.
func NewSession(root string, opts ...Option) (*Capturer, error) {
	session := uuid.NewString()
	c, err := New(filepath.Join(root, session), opts...)
	if err != nil {
		return nil, err
	}
	c.session = session
	c.log.Debug().Str("session", session).Str("dir", c.dir).Msg("capture session started")
	return c, nil
}

// Dir returns the directory frames are written to.
func (c *Capturer) Dir() string {
	return c.dir
}

// Session returns the session id, or "" when created with New.
func (c *Capturer) Session() string {
	return c.session
}

// Format returns the image encoding.
func (c *Capturer) Format() Format {
	return c.format
}

// Count returns the number of frames written.
func (c *Capturer) Count() int {
	return c.count
}

// Bytes returns the total size of the frames written.
func (c *Capturer) Bytes() int64 {
	return c.bytes
}

// Spent returns the total time spent capturing.
func (c *Capturer) Spent() time.Duration {
	return c.spent
}

// Path returns the file path for frame index.
func (c *Capturer) Path(index int64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s%d.%s", FilePrefix, index, c.format.Ext()))
}

// Pattern returns the printf-style input pattern matching every frame file.
// A literal % in the directory is escaped as %%.
func (c *Capturer) Pattern() string {
	dir := strings.ReplaceAll(c.dir, "%", "%%")
	return filepath.Join(dir, FilePrefix+"%d."+c.format.Ext())
}

// Capture flips fb into top-down row order and writes it as frame index.
// Indices must strictly increase within a capturer.
func (c *Capturer) Capture(index int64, fb *render.FrameBuffer) error {
	start := time.Now()
	if index <= c.last {
		return &CaptureError{Frame: index, Op: "order", Err: fmt.Errorf("%w: %d after %d", ErrFrameOrder, index, c.last)}
	}

	img, err := fb.ReadPixels()
	if err != nil {
		return &CaptureError{Frame: index, Op: "read back", Err: err}
	}
	upright := transform.FlipV(img)

	path := c.Path(index)
	n, err := c.write(path, upright)
	if err != nil {
		return &CaptureError{Frame: index, Path: path, Op: "write", Err: err}
	}

	c.last = index
	c.count++
	c.bytes += n
	c.spent += time.Since(start)
	c.log.Trace().Int64("frame", index).Str("path", path).Int64("bytes", n).Msg("frame captured")
	return nil
}

// write encodes img to path. A partially written file is removed so the
// encoder never sees a truncated frame.
func (c *Capturer) write(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)
	err = c.format.encode(bw, img, c.quality)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			c.log.Warn().Err(rmErr).Str("path", path).Msg("failed to remove partial frame")
		}
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
