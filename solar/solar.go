// Package solar builds the solar system scene: a star backdrop, lights, a
// camera rig and nine bodies driven by the orbit systems.
package solar

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/engine"
	"github.com/plus3/orrery/orbit"
	"github.com/plus3/orrery/rig"
	"github.com/plus3/orrery/scene"
)

// SkyRadius is the radius of the star backdrop sphere.
const SkyRadius = 500

// Appearance is how a body is drawn.
type Appearance struct {
	Scale   float64
	Color   color.RGBA
	Texture string
}

var appearances = [orbit.BodyCount]Appearance{
	orbit.Sun:     {Scale: 2, Color: color.RGBA{255, 196, 64, 255}, Texture: "8k_sun.jpg"},
	orbit.Mercury: {Scale: 0.3, Color: color.RGBA{151, 151, 159, 255}, Texture: "8k_mercury.jpg"},
	orbit.Venus:   {Scale: 0.5, Color: color.RGBA{227, 187, 118, 255}, Texture: "4k_venus_atmosphere.jpg"},
	orbit.Earth:   {Scale: 1, Color: color.RGBA{79, 124, 196, 255}, Texture: "8k_earth_daymap.jpg"},
	orbit.Mars:    {Scale: 0.9, Color: color.RGBA{193, 68, 14, 255}, Texture: "8k_mars.jpg"},
	orbit.Jupiter: {Scale: 3, Color: color.RGBA{201, 144, 57, 255}, Texture: "8k_jupiter.jpg"},
	orbit.Saturn:  {Scale: 2.5, Color: color.RGBA{227, 205, 154, 255}, Texture: "8k_saturn.jpg"},
	orbit.Uranus:  {Scale: 2, Color: color.RGBA{172, 229, 238, 255}, Texture: "2k_uranus.jpg"},
	orbit.Neptune: {Scale: 2.2, Color: color.RGBA{72, 118, 255, 255}, Texture: "2k_neptune.jpg"},
}

// AppearanceOf returns the drawing parameters of a body.
func AppearanceOf(id orbit.BodyID) Appearance {
	if id >= orbit.BodyCount {
		return Appearance{Scale: 1, Color: color.RGBA{255, 255, 255, 255}}
	}
	return appearances[id]
}

// Options configure the scene.
type Options struct {
	Bodies  []orbit.Params
	Factors orbit.Factors
	Aspect  float64

	CameraPosition   mgl64.Vec3
	CameraTarget     mgl64.Vec3
	UnitsPerSecond   float64
	DegreesPerSecond float64

	Ambient     mgl64.Vec3
	Attenuation mgl64.Vec3
}

// DefaultOptions returns the standard scene for frameRate and aspect.
func DefaultOptions(frameRate, aspect float64) Options {
	return Options{
		Bodies:           orbit.DefaultBodies(),
		Factors:          orbit.DefaultFactors(frameRate),
		Aspect:           aspect,
		CameraPosition:   mgl64.Vec3{300, 100, 50},
		UnitsPerSecond:   rig.DefaultUnitsPerSecond,
		DegreesPerSecond: rig.DefaultDegreesPerSecond,
		Ambient:          mgl64.Vec3{0.25, 0.25, 0.25},
		Attenuation:      mgl64.Vec3{0.002, 0.002, 0.002},
	}
}

// System is the built scene, available after Initialize.
type System struct {
	Table  *orbit.Table
	Rig    *rig.Rig
	Camera *scene.Node
	Sky    *scene.Node
	Bodies [orbit.BodyCount]*scene.Node
}

// Setup returns the engine setup building the scene into sys.
func Setup(opts Options, sys *System) engine.SetupFunc {
	return func(s *engine.Setup) error {
		// The table is built from the loop's rate so spin and pacing agree.
		opts.Factors.FrameRate = s.FrameRate
		table, err := orbit.NewTable(opts.Bodies, opts.Factors)
		if err != nil {
			return err
		}
		h := s.Scene

		sky := h.NewNode("sky", scene.Drawable{
			Radius:   SkyRadius,
			Color:    color.RGBA{4, 4, 12, 255},
			Texture:  "8k_stars.jpg",
			Backdrop: true,
		})
		lights := []*scene.Node{
			h.NewNode("ambient", scene.Light{Type: scene.LightAmbient, Color: opts.Ambient}),
			h.NewNode("sunlight", scene.Light{
				Type:        scene.LightPoint,
				Color:       mgl64.Vec3{1, 1, 1},
				Attenuation: opts.Attenuation,
			}),
		}
		for _, n := range append([]*scene.Node{sky}, lights...) {
			if err := h.Add(n); err != nil {
				return err
			}
		}

		r, err := rig.New(h, "rig", nil)
		if err != nil {
			return err
		}
		r.UnitsPerSecond = opts.UnitsPerSecond
		r.DegreesPerSecond = opts.DegreesPerSecond
		r.Base.SetPosition(opts.CameraPosition)
		r.Base.LookAt(opts.CameraTarget)

		camera := h.NewNode("camera", scene.DefaultCamera(opts.Aspect))
		if err := r.Attach(camera); err != nil {
			return err
		}

		for _, b := range table.Bodies() {
			look := AppearanceOf(b.ID)
			node := h.NewNode(b.ID.String(), scene.Drawable{
				Radius:   1,
				Color:    look.Color,
				Texture:  look.Texture,
				Emissive: b.Stationary(),
			})
			node.SetUniformScale(look.Scale)
			node.SetPosition(orbit.Position(0, opts.Factors.Translation, b.Period, b.Distance))
			if err := h.Add(node); err != nil {
				return err
			}
			if err := table.Bind(b.ID, node); err != nil {
				return fmt.Errorf("binding %s: %w", b.ID, err)
			}
			sys.Bodies[b.ID] = node
		}

		s.Scheduler.Register(&orbit.SpinSystem{Table: table})
		s.Scheduler.Register(&orbit.OrbitSystem{Table: table})
		s.Scheduler.Register(r)

		sys.Table = table
		sys.Rig = r
		sys.Camera = camera
		sys.Sky = sky
		s.Camera = camera

		s.Log.Debug().Int("bodies", table.Len()).Msg("solar system built")
		return nil
	}
}
