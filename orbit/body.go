package orbit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/scene"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("orbit: invalid body parameters")

// BodyID identifies a body in a Table.
type BodyID uint8

const (
	Sun BodyID = iota
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	BodyCount
)

var bodyNames = [BodyCount]string{
	"sun", "mercury", "venus", "earth", "mars", "jupiter", "saturn", "uranus", "neptune",
}

func (id BodyID) String() string {
	if id < BodyCount {
		return bodyNames[id]
	}
	return fmt.Sprintf("body(%d)", uint8(id))
}

// Axis is the local axis a body spins around.
type Axis uint8

const (
	AxisY Axis = iota
	AxisX
	AxisZ
)

// Vec returns the unit vector of the axis.
func (a Axis) Vec() mgl64.Vec3 {
	switch a {
	case AxisX:
		return mgl64.Vec3{1, 0, 0}
	case AxisZ:
		return mgl64.Vec3{0, 0, 1}
	}
	return mgl64.Vec3{0, 1, 0}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisZ:
		return "Z"
	}
	return "Y"
}

// Params describe a body in physical units.
type Params struct {
	ID BodyID
	// RotationPeriod is the length of one self-rotation, in days.
	RotationPeriod float64
	// OrbitalPeriod is the length of one orbit, in days.
	OrbitalPeriod float64
	// Distance from the orbit center in astronomical units.
	Distance   float64
	Axis       Axis
	Retrograde bool
}

// DefaultBodies returns the solar system parameter set.
func DefaultBodies() []Params {
	return []Params{
		{ID: Sun, RotationPeriod: 27, OrbitalPeriod: 1, Distance: 0},
		{ID: Mercury, RotationPeriod: 58, OrbitalPeriod: 88, Distance: 0.39},
		{ID: Venus, RotationPeriod: 243, OrbitalPeriod: 225, Distance: 0.72, Retrograde: true},
		{ID: Earth, RotationPeriod: 1, OrbitalPeriod: 365, Distance: 1},
		{ID: Mars, RotationPeriod: 1.04, OrbitalPeriod: 687, Distance: 1.52},
		{ID: Jupiter, RotationPeriod: 0.414, OrbitalPeriod: 4332, Distance: 5.20},
		{ID: Saturn, RotationPeriod: 0.426, OrbitalPeriod: 10759, Distance: 9.57},
		{ID: Uranus, RotationPeriod: 0.717, OrbitalPeriod: 30685, Distance: 19.20, Axis: AxisX},
		{ID: Neptune, RotationPeriod: 0.671, OrbitalPeriod: 60266, Distance: 30.06},
	}
}

// Factors compress real periods and distances into the simulated scale.
type Factors struct {
	FrameRate   float64
	Rotation    float64
	Translation float64
	AU          float64
}

// DefaultFactors returns the factors used by the solar system scene.
func DefaultFactors(frameRate float64) Factors {
	return Factors{
		FrameRate:   frameRate,
		Rotation:    1000,
		Translation: 5000,
		AU:          3,
	}
}

// Body is the per-frame record of one body. It is computed once when the
// table is built and never changes afterwards.
type Body struct {
	ID BodyID
	// Spin is the signed self-rotation increment in degrees per frame.
	Spin float64
	// Period is the orbital period in days.
	Period float64
	// Distance is the orbit radius in scene units.
	Distance float64
	Axis     Axis
	// Direction is -1 for retrograde bodies and 1 otherwise.
	Direction float64
}

// Stationary reports whether the body sits at the orbit center.
func (b Body) Stationary() bool {
	return b.Distance == 0
}

// Table maps body ids to their records and the scene nodes they drive.
type Table struct {
	factors Factors
	bodies  []Body
	index   [BodyCount]int
	nodes   [BodyCount]*scene.Node
}

// NewTable validates params and precomputes every body's record.
func NewTable(params []Params, factors Factors) (*Table, error) {
	if factors.FrameRate <= 0 {
		return nil, fmt.Errorf("%w: frame rate %v must be positive", ErrInvalidParams, factors.FrameRate)
	}
	if factors.Translation <= 0 || factors.Rotation < 0 || factors.AU <= 0 {
		return nil, fmt.Errorf("%w: factors %+v", ErrInvalidParams, factors)
	}

	t := &Table{factors: factors}
	for i := range t.index {
		t.index[i] = -1
	}

	for _, p := range params {
		if p.ID >= BodyCount {
			return nil, fmt.Errorf("%w: unknown body id %d", ErrInvalidParams, p.ID)
		}
		if t.index[p.ID] >= 0 {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidParams, p.ID)
		}
		if p.Distance < 0 {
			return nil, fmt.Errorf("%w: %s distance %v is negative", ErrInvalidParams, p.ID, p.Distance)
		}
		if p.Distance > 0 && p.OrbitalPeriod <= 0 {
			return nil, fmt.Errorf("%w: %s orbital period %v must be positive", ErrInvalidParams, p.ID, p.OrbitalPeriod)
		}
		if p.RotationPeriod <= 0 {
			return nil, fmt.Errorf("%w: %s rotation period %v must be positive", ErrInvalidParams, p.ID, p.RotationPeriod)
		}

		direction := 1.0
		if p.Retrograde {
			direction = -1
		}
		t.index[p.ID] = len(t.bodies)
		t.bodies = append(t.bodies, Body{
			ID:        p.ID,
			Spin:      direction * RotationAngle(p.RotationPeriod, factors.FrameRate) * factors.Rotation,
			Period:    p.OrbitalPeriod,
			Distance:  p.Distance * factors.AU,
			Axis:      p.Axis,
			Direction: direction,
		})
	}
	return t, nil
}

// Factors returns the factors the table was built with.
func (t *Table) Factors() Factors {
	return t.factors
}

// Len returns the number of bodies.
func (t *Table) Len() int {
	return len(t.bodies)
}

// Bodies returns a copy of the records in parameter order.
func (t *Table) Bodies() []Body {
	return slices.Clone(t.bodies)
}

// Body returns the record for id.
func (t *Table) Body(id BodyID) (Body, bool) {
	if id >= BodyCount || t.index[id] < 0 {
		return Body{}, false
	}
	return t.bodies[t.index[id]], true
}

// Bind attaches the scene node driven by body id.
func (t *Table) Bind(id BodyID, node *scene.Node) error {
	if _, ok := t.Body(id); !ok {
		return fmt.Errorf("%w: %s is not in the table", ErrInvalidParams, id)
	}
	t.nodes[id] = node
	return nil
}

// Node returns the node bound to id, or nil.
func (t *Table) Node(id BodyID) *scene.Node {
	if id >= BodyCount {
		return nil
	}
	return t.nodes[id]
}
