package engine

import (
	"github.com/plus3/orrery/input"
	"github.com/plus3/orrery/scene"
)

// UpdateFrame is handed to every system during one iteration of the loop.
type UpdateFrame struct {
	// Index is the number of the frame being produced, starting at 1.
	Index int64
	// DeltaTime is the wall time in seconds since the previous frame.
	DeltaTime float64
	// Elapsed is the cumulative simulated time in seconds, including DeltaTime.
	Elapsed float64
	// FrameRate is the configured target rate.
	FrameRate float64

	Input input.State
	Scene *scene.Hierarchy
}
