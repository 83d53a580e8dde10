package engine

import (
	"context"

	"github.com/plus3/orrery/input"
	"github.com/plus3/orrery/render"
	"github.com/plus3/orrery/scene"
)

// RenderBackend draws the hierarchy as seen from camera. When Draw returns
// the frame buffer holds the complete image for the current frame.
type RenderBackend interface {
	Draw(h *scene.Hierarchy, camera *scene.Node) (*render.FrameBuffer, error)
}

// InputSampler produces one device snapshot per frame.
type InputSampler interface {
	Sample() input.Snapshot
}

// Presenter displays a rendered frame.
type Presenter interface {
	Present(fb *render.FrameBuffer) error
}

// FrameCapturer persists rendered frames.
type FrameCapturer interface {
	Capture(index int64, fb *render.FrameBuffer) error
	Count() int
}

// VideoAssembler turns the captured frames into a video once the loop ends.
type VideoAssembler interface {
	Assemble(ctx context.Context) error
}
