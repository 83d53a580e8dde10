// Package render provides the frame buffer type exchanged between the loop,
// the display and frame capture, plus a software rasterizer that draws a
// scene hierarchy without a GPU.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/scene"
	"github.com/rs/zerolog"
	"golang.org/x/image/vector"
)

// ErrNotCamera is returned when Draw is given a node without a camera payload.
var ErrNotCamera = errors.New("render: node is not a camera")

// circleKappa places cubic control points to approximate a quarter circle.
const circleKappa = 0.5522847498

// minRadius keeps distant bodies visible as a dot.
const minRadius = 0.75

type sprite struct {
	x, y   float64
	radius float64
	depth  float64
	color  color.RGBA
}

type pointLight struct {
	position    mgl64.Vec3
	color       mgl64.Vec3
	attenuation mgl64.Vec3
}

type lighting struct {
	ambient     mgl64.Vec3
	directional []scene.Light
	points      []pointLight
}

// Renderer draws every Drawable node as a shaded, antialiased disc projected
// through the camera. Drawables are sorted back to front.
type Renderer struct {
	width  int
	height int
	clear  color.RGBA

	canvas  *image.RGBA
	fb      *FrameBuffer
	raster  *vector.Rasterizer
	sprites []sprite
	drawn   int

	log zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClearColor sets the color used when no backdrop drawable is present.
func WithClearColor(c color.RGBA) Option {
	return func(r *Renderer) {
		r.clear = c
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// New creates a renderer producing width x height frames.
func New(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		width:  width,
		height: height,
		clear:  color.RGBA{A: 255},
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
		fb:     NewFrameBuffer(width, height),
		raster: vector.NewRasterizer(width, height),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the frame dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Drawn returns how many drawables were rasterized in the last frame.
func (r *Renderer) Drawn() int {
	return r.drawn
}

// Draw renders h as seen from camera. The returned frame buffer is reused by
// the next call.
func (r *Renderer) Draw(h *scene.Hierarchy, camera *scene.Node) (*FrameBuffer, error) {
	cam, ok := camera.Camera()
	if !ok {
		return nil, ErrNotCamera
	}

	camWorld := h.WorldTransform(camera)
	camPos := camWorld.Col(3).Vec3()
	proj := cam.Projection()
	viewProj := proj.Mul4(camWorld.Inv())
	focal := proj.At(1, 1) * float64(r.height) / 2

	lights := lighting{}
	background := r.clear
	r.sprites = r.sprites[:0]

	h.Walk(func(n *scene.Node, world mgl64.Mat4) bool {
		if l, ok := n.Light(); ok {
			lights.add(l, world)
		}
		return true
	})

	h.Walk(func(n *scene.Node, world mgl64.Mat4) bool {
		d, ok := n.Drawable()
		if !ok {
			return true
		}
		if d.Backdrop {
			background = d.Color
			return true
		}

		center := world.Col(3).Vec3()
		clip := viewProj.Mul4x1(center.Vec4(1))
		w := clip.W()
		if w <= cam.Near {
			return true
		}

		radius := max(d.Radius*maxScale(world)*focal/w, minRadius)
		x := (clip.X()/w + 1) / 2 * float64(r.width)
		y := (1 - clip.Y()/w) / 2 * float64(r.height)
		if x+radius < 0 || y+radius < 0 || x-radius > float64(r.width) || y-radius > float64(r.height) {
			return true
		}

		col := d.Color
		if !d.Emissive {
			col = shade(d.Color, lights.intensity(center, camPos))
		}
		r.sprites = append(r.sprites, sprite{x: x, y: y, radius: radius, depth: w, color: col})
		return true
	})

	slices.SortStableFunc(r.sprites, func(a, b sprite) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	for _, s := range r.sprites {
		r.fillCircle(s)
	}
	r.drawn = len(r.sprites)

	r.fb.storeFlipped(r.canvas)
	r.log.Trace().Int("drawn", r.drawn).Msg("frame rasterized")
	return r.fb, nil
}

func (r *Renderer) fillCircle(s sprite) {
	cx, cy, rad := float32(s.x), float32(s.y), float32(s.radius)
	k := rad * circleKappa

	r.raster.Reset(r.width, r.height)
	r.raster.MoveTo(cx+rad, cy)
	r.raster.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	r.raster.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	r.raster.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	r.raster.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	r.raster.ClosePath()
	r.raster.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(s.color), image.Point{})
}

func (l *lighting) add(light scene.Light, world mgl64.Mat4) {
	switch light.Type {
	case scene.LightAmbient:
		l.ambient = l.ambient.Add(light.Color)
	case scene.LightDirectional:
		light.Direction = world.Mul4x1(light.Direction.Vec4(0)).Vec3()
		l.directional = append(l.directional, light)
	case scene.LightPoint:
		l.points = append(l.points, pointLight{
			position:    world.Col(3).Vec3(),
			color:       light.Color,
			attenuation: light.Attenuation,
		})
	}
}

// intensity approximates Lambert shading of a sphere seen as a disc: the lit
// fraction of the visible hemisphere grows as the light moves behind the viewer.
func (l *lighting) intensity(center, eye mgl64.Vec3) mgl64.Vec3 {
	total := l.ambient
	toEye := safeNormalize(eye.Sub(center))

	for _, d := range l.directional {
		phase := (1 + toEye.Dot(safeNormalize(d.Direction.Mul(-1)))) / 2
		total = total.Add(d.Color.Mul(phase))
	}
	for _, p := range l.points {
		toLight := p.position.Sub(center)
		dist := toLight.Len()
		att := 1.0
		if denom := p.attenuation[0] + p.attenuation[1]*dist + p.attenuation[2]*dist*dist; denom > 0 {
			att = 1 / denom
		}
		phase := (1 + toEye.Dot(safeNormalize(toLight))) / 2
		total = total.Add(p.color.Mul(att * phase))
	}
	return total
}

func shade(c color.RGBA, intensity mgl64.Vec3) color.RGBA {
	channel := func(v uint8, k float64) uint8 {
		return uint8(math.Round(float64(v) * mgl64.Clamp(k, 0, 1)))
	}
	return color.RGBA{
		R: channel(c.R, intensity[0]),
		G: channel(c.G, intensity[1]),
		B: channel(c.B, intensity[2]),
		A: c.A,
	}
}

func maxScale(world mgl64.Mat4) float64 {
	return max(world.Col(0).Vec3().Len(), world.Col(1).Vec3().Len(), world.Col(2).Vec3().Len())
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
