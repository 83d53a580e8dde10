package orbit

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/engine"
)

// OrbitSystem places every bound, orbiting body on its circle from the
// frame's elapsed time. Stationary bodies are never repositioned.
type OrbitSystem struct {
	Table *Table
}

func (s *OrbitSystem) Execute(frame *engine.UpdateFrame) error {
	tf := s.Table.factors.Translation
	for _, b := range s.Table.bodies {
		node := s.Table.nodes[b.ID]
		if node == nil || b.Stationary() {
			continue
		}
		node.SetPosition(Position(frame.Elapsed, tf, b.Period, b.Distance))
	}
	return nil
}

// SpinSystem adds each body's per-frame rotation increment to its local
// rotation about the body's axis.
type SpinSystem struct {
	Table *Table
}

func (s *SpinSystem) Execute(frame *engine.UpdateFrame) error {
	for _, b := range s.Table.bodies {
		node := s.Table.nodes[b.ID]
		if node == nil || b.Spin == 0 {
			continue
		}
		node.Rotate(mgl64.DegToRad(b.Spin), b.Axis.Vec())
	}
	return nil
}
