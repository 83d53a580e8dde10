package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the loop is driven before Initialize.
	ErrNotInitialized = errors.New("engine: app not initialized")
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("engine: app already initialized")
	// ErrNoCamera is returned when setup does not designate a camera node.
	ErrNoCamera = errors.New("engine: setup did not set a camera")
)

// InitializationError reports a failure while building the scene. The loop is
// never entered after one.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return "engine: initialization failed: " + e.Err.Error()
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// SystemError wraps a failure returned by a system during a frame.
type SystemError struct {
	System string
	Frame  int64
	Err    error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("engine: system %s failed on frame %d: %v", e.System, e.Frame, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// FrameError wraps a failure in the render, present or capture phase.
type FrameError struct {
	Phase string
	Frame int64
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("engine: %s failed on frame %d: %v", e.Phase, e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
