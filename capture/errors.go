package capture

import (
	"errors"
	"fmt"
)

// ErrFrameOrder is wrapped when frame indices do not strictly increase.
var ErrFrameOrder = errors.New("capture: frame index not increasing")

// CaptureError reports a frame that could not be read back or written.
type CaptureError struct {
	Frame int64
	Path  string
	Op    string
	Err   error
}

func (e *CaptureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("capture: frame %d: %s: %v", e.Frame, e.Op, e.Err)
	}
	return fmt.Sprintf("capture: frame %d: %s %s: %v", e.Frame, e.Op, e.Path, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
