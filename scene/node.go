package scene

import (
	"slices"
	"weak"

	"github.com/go-gl/mathgl/mgl64"
)

// NodeID identifies a node within a Hierarchy. Ids are never reused.
type NodeID uint32

// Node is a transformable entity in the scene tree. A node owns its children;
// the back-reference to its parent is weak and never keeps the parent alive.
type Node struct {
	id      NodeID
	name    string
	payload Payload

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	parent   weak.Pointer[Node]
	children []*Node

	// world caches the composed transform; dirty marks it stale. If a node is
	// dirty, every node of its subtree is dirty as well.
	world mgl64.Mat4
	dirty bool
}

func newNode(id NodeID, name string, payload Payload) *Node {
	if payload == nil {
		payload = Group{}
	}
	return &Node{
		id:       id,
		name:     name,
		payload:  payload,
		rotation: mgl64.QuatIdent(),
		scale:    mgl64.Vec3{1, 1, 1},
		world:    mgl64.Ident4(),
		dirty:    true,
	}
}

// ID returns the node's identifier.
func (n *Node) ID() NodeID {
	return n.id
}

// Name returns the node's name.
func (n *Node) Name() string {
	return n.name
}

// Payload returns the capability data attached to the node.
func (n *Node) Payload() Payload {
	return n.payload
}

// Kind reports which payload variant the node carries.
func (n *Node) Kind() Kind {
	return n.payload.Kind()
}

// Parent returns the node's parent, or nil for detached nodes and the root.
func (n *Node) Parent() *Node {
	return n.parent.Value()
}

// Children returns a copy of the node's ordered child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// IsAncestorOf reports whether n appears on the parent chain of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == n {
			return true
		}
	}
	return false
}

// Position returns the local position.
func (n *Node) Position() mgl64.Vec3 {
	return n.position
}

// Rotation returns the local rotation.
func (n *Node) Rotation() mgl64.Quat {
	return n.rotation
}

// Scale returns the local scale.
func (n *Node) Scale() mgl64.Vec3 {
	return n.scale
}

// SetPosition replaces the local position.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.position = p
	n.invalidate()
}

// SetRotation replaces the local rotation. The quaternion is normalized.
func (n *Node) SetRotation(q mgl64.Quat) {
	n.rotation = q.Normalize()
	n.invalidate()
}

// SetScale replaces the local scale.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.scale = s
	n.invalidate()
}

// SetUniformScale sets the same scale on all three axes.
func (n *Node) SetUniformScale(s float64) {
	n.SetScale(mgl64.Vec3{s, s, s})
}

// Translate moves the node by d, expressed in its parent's space.
func (n *Node) Translate(d mgl64.Vec3) {
	n.SetPosition(n.position.Add(d))
}

// TranslateLocal moves the node by d, expressed in its own rotated frame.
func (n *Node) TranslateLocal(d mgl64.Vec3) {
	n.SetPosition(n.position.Add(n.rotation.Rotate(d)))
}

// Rotate post-multiplies the local rotation by angle radians around axis,
// so the rotation happens around the node's own axis.
func (n *Node) Rotate(angle float64, axis mgl64.Vec3) {
	n.SetRotation(n.rotation.Mul(mgl64.QuatRotate(angle, axis)))
}

// RotateX rotates around the local X axis.
func (n *Node) RotateX(angle float64) {
	n.Rotate(angle, mgl64.Vec3{1, 0, 0})
}

// RotateY rotates around the local Y axis.
func (n *Node) RotateY(angle float64) {
	n.Rotate(angle, mgl64.Vec3{0, 1, 0})
}

// RotateZ rotates around the local Z axis.
func (n *Node) RotateZ(angle float64) {
	n.Rotate(angle, mgl64.Vec3{0, 0, 1})
}

// LookAt orients the node so its -Z axis points at target, both expressed in
// the parent's space.
func (n *Node) LookAt(target mgl64.Vec3) {
	if target.ApproxEqual(n.position) {
		return
	}
	up := mgl64.Vec3{0, 1, 0}
	if d := target.Sub(n.position).Normalize(); mgl64.FloatEqual(abs(d.Dot(up)), 1) {
		up = mgl64.Vec3{0, 0, -1}
	}
	view := mgl64.LookAtV(n.position, target, up)
	n.SetRotation(mgl64.Mat4ToQuat(view).Inverse())
}

// LocalTransform composes translation, rotation and scale: T·R·S.
func (n *Node) LocalTransform() mgl64.Mat4 {
	t := mgl64.Translate3D(n.position[0], n.position[1], n.position[2])
	s := mgl64.Scale3D(n.scale[0], n.scale[1], n.scale[2])
	return t.Mul4(n.rotation.Mat4()).Mul4(s)
}

func (n *Node) worldTransform() mgl64.Mat4 {
	if !n.dirty {
		return n.world
	}
	local := n.LocalTransform()
	if parent := n.Parent(); parent != nil {
		n.world = parent.worldTransform().Mul4(local)
	} else {
		n.world = local
	}
	n.dirty = false
	return n.world
}

func (n *Node) invalidate() {
	if n.dirty {
		return
	}
	n.dirty = true
	for _, child := range n.children {
		child.invalidate()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
