package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags the payload variant carried by a node.
type Kind uint8

const (
	KindGroup Kind = iota
	KindCamera
	KindDrawable
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindCamera:
		return "camera"
	case KindDrawable:
		return "drawable"
	case KindLight:
		return "light"
	}
	return "unknown"
}

// Payload is the capability data attached to a node. The set of variants is
// closed: Group, Camera, Drawable and Light.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Group is a pure transform node.
type Group struct{}

func (Group) Kind() Kind { return KindGroup }
func (Group) isPayload() {}

// Camera describes a perspective projection. FOV is the vertical field of view
// in degrees.
type Camera struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
}

func (Camera) Kind() Kind { return KindCamera }
func (Camera) isPayload() {}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// DefaultCamera mirrors a 60 degree lens with the given aspect ratio.
func DefaultCamera(aspect float64) Camera {
	return Camera{FOV: 60, Aspect: aspect, Near: 0.1, Far: 1000}
}

// Drawable marks a node as renderable. Radius is in the node's local units
// and is scaled by its world transform.
type Drawable struct {
	Radius  float64
	Color   color.RGBA
	Texture string

	// Emissive drawables ignore lighting.
	Emissive bool
	// Backdrop drawables enclose the scene and are drawn as the clear color.
	Backdrop bool
}

func (Drawable) Kind() Kind { return KindDrawable }
func (Drawable) isPayload() {}

// LightType selects the light model.
type LightType uint8

const (
	LightAmbient LightType = iota
	LightDirectional
	LightPoint
)

// Light illuminates drawables. Attenuation holds constant, linear and
// quadratic coefficients and only applies to point lights.
type Light struct {
	Type        LightType
	Color       mgl64.Vec3
	Direction   mgl64.Vec3
	Attenuation mgl64.Vec3
}

func (Light) Kind() Kind { return KindLight }
func (Light) isPayload() {}

// Camera returns the node's camera payload.
func (n *Node) Camera() (Camera, bool) {
	c, ok := n.payload.(Camera)
	return c, ok
}

// Drawable returns the node's drawable payload.
func (n *Node) Drawable() (Drawable, bool) {
	d, ok := n.payload.(Drawable)
	return d, ok
}

// Light returns the node's light payload.
func (n *Node) Light() (Light, bool) {
	l, ok := n.payload.(Light)
	return l, ok
}
