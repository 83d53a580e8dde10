package scene_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/orrery/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestAddChild(t *testing.T) {
	t.Run("attaches in order", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		b := h.NewNode("b", nil)
		c := h.NewNode("c", nil)

		require.NoError(t, h.Add(a))
		require.NoError(t, h.AddChild(a, b))
		require.NoError(t, h.AddChild(a, c))

		assert.Equal(t, []*scene.Node{b, c}, a.Children())
		assert.Same(t, a, b.Parent())
		assert.Same(t, h.Root(), a.Parent())
		assert.True(t, a.IsAncestorOf(c))
		assert.True(t, h.Root().IsAncestorOf(c))
	})

	t.Run("same parent is a no-op", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		require.NoError(t, h.Add(a))
		require.NoError(t, h.Add(a))
		assert.Len(t, h.Root().Children(), 1)
	})

	t.Run("self attachment is rejected", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)

		err := h.AddChild(a, a)
		var cycle *scene.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, scene.ReasonSelf, cycle.Reason)
		assert.Nil(t, a.Parent())
		assert.Empty(t, a.Children())
	})

	t.Run("re-parenting into own subtree leaves hierarchy unchanged", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		b := h.NewNode("b", nil)
		c := h.NewNode("c", nil)
		require.NoError(t, h.Add(a))
		require.NoError(t, h.AddChild(a, b))
		require.NoError(t, h.AddChild(b, c))

		require.NoError(t, h.Detach(a))
		err := h.AddChild(c, a)

		var cycle *scene.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, scene.ReasonAncestor, cycle.Reason)
		assert.Nil(t, a.Parent())
		assert.Same(t, a, b.Parent())
		assert.Same(t, b, c.Parent())
		assert.Empty(t, c.Children())
		assert.Equal(t, []*scene.Node{b}, a.Children())
	})

	t.Run("attaching a parented node requires detach", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		b := h.NewNode("b", nil)
		c := h.NewNode("c", nil)
		require.NoError(t, h.Add(a))
		require.NoError(t, h.Add(b))
		require.NoError(t, h.AddChild(a, c))

		err := h.AddChild(b, c)
		var cycle *scene.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, scene.ReasonParented, cycle.Reason)
		assert.Same(t, a, c.Parent())
		assert.Empty(t, b.Children())

		require.NoError(t, h.Detach(c))
		require.NoError(t, h.AddChild(b, c))
		assert.Same(t, b, c.Parent())
		assert.Empty(t, a.Children())
	})

	t.Run("root cannot become a child", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		var cycle *scene.CycleError
		assert.ErrorAs(t, h.AddChild(a, h.Root()), &cycle)
	})

	t.Run("nodes from another hierarchy are rejected", func(t *testing.T) {
		h := scene.New()
		other := scene.New()
		foreign := other.NewNode("foreign", nil)
		assert.True(t, errors.Is(h.Add(foreign), scene.ErrForeignNode))
	})
}

func TestWorldTransform(t *testing.T) {
	t.Run("composes three levels with rotation and scale", func(t *testing.T) {
		h := scene.New()
		a := h.NewNode("a", nil)
		b := h.NewNode("b", nil)
		c := h.NewNode("c", nil)
		require.NoError(t, h.Add(a))
		require.NoError(t, h.AddChild(a, b))
		require.NoError(t, h.AddChild(b, c))

		a.SetPosition(mgl64.Vec3{1, 2, 3})
		a.SetRotation(mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 1, 0}))
		a.SetScale(mgl64.Vec3{2, 2, 2})

		b.SetPosition(mgl64.Vec3{-4, 0, 1})
		b.SetRotation(mgl64.QuatRotate(math.Pi/5, mgl64.Vec3{1, 0, 0}))
		b.SetScale(mgl64.Vec3{1, 0.5, 3})

		c.SetPosition(mgl64.Vec3{0.5, 7, -2})
		c.SetRotation(mgl64.QuatRotate(-math.Pi/7, mgl64.Vec3{0, 0, 1}))
		c.SetUniformScale(0.25)

		worldA := h.WorldTransform(a)
		worldB := h.WorldTransform(b)
		worldC := h.WorldTransform(c)

		assert.True(t, worldA.ApproxEqualThreshold(a.LocalTransform(), epsilon))
		assert.True(t, worldB.ApproxEqualThreshold(worldA.Mul4(b.LocalTransform()), epsilon))
		assert.True(t, worldC.ApproxEqualThreshold(worldB.Mul4(c.LocalTransform()), epsilon))

		expected := a.LocalTransform().Mul4(b.LocalTransform()).Mul4(c.LocalTransform())
		assert.True(t, worldC.ApproxEqualThreshold(expected, epsilon))
	})

	t.Run("reflects ancestor mutations made after a read", func(t *testing.T) {
		h := scene.New()
		parent := h.NewNode("parent", nil)
		child := h.NewNode("child", nil)
		require.NoError(t, h.Add(parent))
		require.NoError(t, h.AddChild(parent, child))
		child.SetPosition(mgl64.Vec3{1, 0, 0})

		assert.InDelta(t, 1.0, h.WorldPosition(child).X(), epsilon)

		parent.SetPosition(mgl64.Vec3{10, 0, 0})
		assert.InDelta(t, 11.0, h.WorldPosition(child).X(), epsilon)

		parent.RotateY(math.Pi / 2)
		pos := h.WorldPosition(child)
		assert.InDelta(t, 10.0, pos.X(), epsilon)
		assert.InDelta(t, -1.0, pos.Z(), epsilon)
	})

	t.Run("reading the parent does not leave the child stale", func(t *testing.T) {
		h := scene.New()
		parent := h.NewNode("parent", nil)
		child := h.NewNode("child", nil)
		require.NoError(t, h.Add(parent))
		require.NoError(t, h.AddChild(parent, child))
		_ = h.WorldTransform(child)

		parent.SetPosition(mgl64.Vec3{0, 5, 0})
		_ = h.WorldTransform(parent)
		assert.InDelta(t, 5.0, h.WorldPosition(child).Y(), epsilon)
	})

	t.Run("detach drops the parent contribution", func(t *testing.T) {
		h := scene.New()
		parent := h.NewNode("parent", nil)
		child := h.NewNode("child", nil)
		require.NoError(t, h.Add(parent))
		require.NoError(t, h.AddChild(parent, child))
		parent.SetPosition(mgl64.Vec3{3, 0, 0})
		assert.InDelta(t, 3.0, h.WorldPosition(child).X(), epsilon)

		require.NoError(t, h.Detach(child))
		assert.InDelta(t, 0.0, h.WorldPosition(child).X(), epsilon)
	})
}

func TestWalk(t *testing.T) {
	h := scene.New()
	sun := h.NewNode("sun", scene.Drawable{Radius: 1})
	earth := h.NewNode("earth", scene.Drawable{Radius: 1})
	moon := h.NewNode("moon", scene.Drawable{Radius: 1})
	light := h.NewNode("light", scene.Light{Type: scene.LightPoint})
	require.NoError(t, h.Add(sun))
	require.NoError(t, h.AddChild(sun, earth))
	require.NoError(t, h.AddChild(earth, moon))
	require.NoError(t, h.Add(light))

	var order []string
	h.Walk(func(n *scene.Node, _ mgl64.Mat4) bool {
		order = append(order, n.Name())
		return true
	})
	assert.Equal(t, []string{"root", "sun", "earth", "moon", "light"}, order)

	assert.Same(t, moon, h.Find("moon"))
	assert.Nil(t, h.Find("pluto"))
	assert.Equal(t, 5, h.Len())

	found, ok := h.Node(earth.ID())
	require.True(t, ok)
	assert.Same(t, earth, found)
}

func TestLookAt(t *testing.T) {
	h := scene.New()
	cam := h.NewNode("camera", scene.DefaultCamera(16.0/9.0))
	require.NoError(t, h.Add(cam))

	cam.SetPosition(mgl64.Vec3{10, 0, 0})
	cam.LookAt(mgl64.Vec3{0, 0, 0})

	forward := cam.Rotation().Rotate(mgl64.Vec3{0, 0, -1})
	assert.InDelta(t, -1.0, forward.X(), 1e-6)
	assert.InDelta(t, 0.0, forward.Y(), 1e-6)
	assert.InDelta(t, 0.0, forward.Z(), 1e-6)
}

func TestPayloadKinds(t *testing.T) {
	h := scene.New()
	cases := []struct {
		payload scene.Payload
		kind    scene.Kind
	}{
		{nil, scene.KindGroup},
		{scene.DefaultCamera(1), scene.KindCamera},
		{scene.Drawable{Radius: 2}, scene.KindDrawable},
		{scene.Light{Type: scene.LightAmbient}, scene.KindLight},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			n := h.NewNode(tc.kind.String(), tc.payload)
			assert.Equal(t, tc.kind, n.Kind())

			_, isCamera := n.Camera()
			_, isDrawable := n.Drawable()
			_, isLight := n.Light()
			assert.Equal(t, tc.kind == scene.KindCamera, isCamera)
			assert.Equal(t, tc.kind == scene.KindDrawable, isDrawable)
			assert.Equal(t, tc.kind == scene.KindLight, isLight)
		})
	}
}
