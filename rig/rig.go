// Package rig implements a keyboard-driven camera rig: a base node that moves
// and turns on the horizontal plane, carrying a look attachment that pitches.
package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/engine"
	"github.com/plus3/orrery/input"
	"github.com/plus3/orrery/scene"
)

const (
	DefaultUnitsPerSecond   = 1
	DefaultDegreesPerSecond = 60
)

// Keys maps rig motions to keys.
type Keys struct {
	Forward   input.Key
	Backward  input.Key
	Left      input.Key
	Right     input.Key
	Up        input.Key
	Down      input.Key
	TurnLeft  input.Key
	TurnRight input.Key
	LookUp    input.Key
	LookDown  input.Key
}

// DefaultKeys returns W/A/S/D for the plane, R/F for height, Q/E to turn and
// T/G to look up and down.
func DefaultKeys() Keys {
	return Keys{
		Forward:   input.KeyW,
		Backward:  input.KeyS,
		Left:      input.KeyA,
		Right:     input.KeyD,
		Up:        input.KeyR,
		Down:      input.KeyF,
		TurnLeft:  input.KeyQ,
		TurnRight: input.KeyE,
		LookUp:    input.KeyT,
		LookDown:  input.KeyG,
	}
}

// Rig moves its base node from keyboard state. Nodes attached to the rig
// hang off the look attachment so they follow both turning and pitch.
type Rig struct {
	Base *scene.Node
	Look *scene.Node

	UnitsPerSecond   float64
	DegreesPerSecond float64
	Keys             Keys

	h *scene.Hierarchy
}

// New creates the rig's nodes under parent, or under the root when parent is nil.
func New(h *scene.Hierarchy, name string, parent *scene.Node) (*Rig, error) {
	if parent == nil {
		parent = h.Root()
	}
	base := h.NewNode(name, scene.Group{})
	look := h.NewNode(name+"/look", scene.Group{})
	if err := h.AddChild(parent, base); err != nil {
		return nil, err
	}
	if err := h.AddChild(base, look); err != nil {
		return nil, err
	}
	return &Rig{
		Base:             base,
		Look:             look,
		UnitsPerSecond:   DefaultUnitsPerSecond,
		DegreesPerSecond: DefaultDegreesPerSecond,
		Keys:             DefaultKeys(),
		h:                h,
	}, nil
}

// Attach hangs n, usually the camera, from the look attachment.
func (r *Rig) Attach(n *scene.Node) error {
	return r.h.AddChild(r.Look, n)
}

// Name reports the rig in scheduler stats.
func (r *Rig) Name() string {
	return "MovementRig"
}

// Execute applies the held keys, scaled by the frame delta.
func (r *Rig) Execute(frame *engine.UpdateFrame) error {
	keys := frame.Input
	if keys.Empty() || frame.DeltaTime == 0 {
		return nil
	}

	move := r.UnitsPerSecond * frame.DeltaTime
	turn := r.DegreesPerSecond * (math.Pi / 180) * frame.DeltaTime

	var d mgl64.Vec3
	if keys.Down(r.Keys.Forward) {
		d[2] -= move
	}
	if keys.Down(r.Keys.Backward) {
		d[2] += move
	}
	if keys.Down(r.Keys.Left) {
		d[0] -= move
	}
	if keys.Down(r.Keys.Right) {
		d[0] += move
	}
	if keys.Down(r.Keys.Up) {
		d[1] += move
	}
	if keys.Down(r.Keys.Down) {
		d[1] -= move
	}
	if d != (mgl64.Vec3{}) {
		r.Base.TranslateLocal(d)
	}

	if keys.Down(r.Keys.TurnLeft) {
		r.Base.RotateY(turn)
	}
	if keys.Down(r.Keys.TurnRight) {
		r.Base.RotateY(-turn)
	}
	if keys.Down(r.Keys.LookUp) {
		r.Look.RotateX(turn)
	}
	if keys.Down(r.Keys.LookDown) {
		r.Look.RotateX(-turn)
	}
	return nil
}
