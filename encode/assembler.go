// Package encode turns a captured frame sequence into a single video by
// running an external encoder once, synchronously.
package encode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// stderrLimit bounds how much encoder diagnostics are kept.
const stderrLimit = 8 << 10

// Result describes a successful run.
type Result struct {
	Output   string
	Size     int64
	Duration time.Duration
	Args     []string
}

// Assembler runs a Job. The run has no timeout; it ends when the encoder
// exits or ctx is cancelled.
type Assembler struct {
	job      Job
	lookPath func(string) (string, error)
	result   *Result
	log      zerolog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the assembler's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Assembler) {
		a.log = log
	}
}

// New creates an assembler for job.
func New(job Job, opts ...Option) *Assembler {
	a := &Assembler{
		job:      job,
		lookPath: exec.LookPath,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Job returns the job the assembler runs.
func (a *Assembler) Job() Job {
	return a.job
}

// Result returns the last successful run, or nil.
func (a *Assembler) Result() *Result {
	return a.result
}

// Command returns the full command line, tool first.
func (a *Assembler) Command() ([]string, error) {
	args, err := a.job.Args()
	if err != nil {
		return nil, err
	}
	return append([]string{a.job.Tool}, args...), nil
}

// Assemble runs the encoder and waits for it. Any failure, including a
// missing tool, is returned as an *EncodingError.
func (a *Assembler) Assemble(ctx context.Context) error {
	tool := a.job.Tool
	args, err := a.job.Args()
	if err != nil {
		return &EncodingError{Tool: tool, Err: err}
	}

	path, err := a.lookPath(tool)
	if err != nil {
		return &EncodingError{Tool: tool, Args: args, Missing: true, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(a.job.Output), 0o755); err != nil {
		return &EncodingError{Tool: tool, Args: args, Err: fmt.Errorf("creating output directory: %w", err)}
	}

	stderr := &tailBuffer{limit: stderrLimit}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = stderr

	a.log.Info().Str("tool", path).Strs("args", args).Msg("running encoder")
	start := time.Now()
	if err := cmd.Run(); err != nil {
		encErr := &EncodingError{Tool: tool, Args: args, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			encErr.ExitCode = exitErr.ExitCode()
		}
		return encErr
	}

	info, err := os.Stat(a.job.Output)
	if err != nil {
		return &EncodingError{Tool: tool, Args: args, Stderr: stderr.String(), Err: fmt.Errorf("%w: %v", ErrEmptyOutput, err)}
	}
	if info.Size() == 0 {
		return &EncodingError{Tool: tool, Args: args, Stderr: stderr.String(), Err: ErrEmptyOutput}
	}

	a.result = &Result{
		Output:   a.job.Output,
		Size:     info.Size(),
		Duration: time.Since(start),
		Args:     args,
	}
	a.log.Info().Str("output", a.job.Output).Int64("bytes", info.Size()).Dur("took", a.result.Duration).Msg("encoder finished")
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
