package encode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOutput is wrapped when the encoder exits cleanly but writes nothing.
var ErrEmptyOutput = errors.New("encode: encoder produced no output")

// EncodingError reports a failed encoder run. Missing is set when the tool
// could not be found; otherwise ExitCode and Stderr describe the failure.
type EncodingError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Missing  bool
	Err      error
}

func (e *EncodingError) Error() string {
	switch {
	case e.Missing:
		return fmt.Sprintf("encode: %s not found: %v", e.Tool, e.Err)
	case e.ExitCode > 0:
		msg := fmt.Sprintf("encode: %s exited with status %d", e.Tool, e.ExitCode)
		if line := lastLine(e.Stderr); line != "" {
			msg += ": " + line
		}
		return msg
	}
	return fmt.Sprintf("encode: %s: %v", e.Tool, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
