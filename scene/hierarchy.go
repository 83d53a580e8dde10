// Package scene maintains the tree of transformable nodes and computes their
// world transforms by composing ancestor chains.
package scene

import (
	"errors"
	"slices"
	"weak"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
)

// ErrForeignNode is returned when a node created by another Hierarchy is used.
var ErrForeignNode = errors.New("scene: node does not belong to this hierarchy")

// Hierarchy owns a tree of nodes rooted at an identity group node.
// It is not safe for concurrent use.
type Hierarchy struct {
	root   *Node
	index  *intmap.Map[NodeID, *Node]
	nextID NodeID
}

// New creates a hierarchy containing only its root node.
func New() *Hierarchy {
	h := &Hierarchy{
		index: intmap.New[NodeID, *Node](64),
	}
	h.root = h.NewNode("root", Group{})
	return h
}

// Root returns the root node. Top-level nodes are its children.
func (h *Hierarchy) Root() *Node {
	return h.root
}

// NewNode registers a detached node. A nil payload yields a Group.
func (h *Hierarchy) NewNode(name string, payload Payload) *Node {
	h.nextID++
	n := newNode(h.nextID, name, payload)
	h.index.Put(n.id, n)
	return n
}

// Node looks a node up by id.
func (h *Hierarchy) Node(id NodeID) (*Node, bool) {
	return h.index.Get(id)
}

// Len returns the number of registered nodes, including the root.
func (h *Hierarchy) Len() int {
	return h.index.Len()
}

func (h *Hierarchy) owns(n *Node) bool {
	if n == nil {
		return false
	}
	registered, ok := h.index.Get(n.id)
	return ok && registered == n
}

// Add attaches child under the root.
func (h *Hierarchy) Add(child *Node) error {
	return h.AddChild(h.root, child)
}

// AddChild attaches child as the last child of parent. It fails with a
// *CycleError, leaving the tree untouched, if child is parent, child is an
// ancestor of parent, or child already has a different parent. Attaching a
// child to its current parent is a no-op.
func (h *Hierarchy) AddChild(parent, child *Node) error {
	if !h.owns(parent) || !h.owns(child) {
		return ErrForeignNode
	}
	if child == parent {
		return &CycleError{Parent: parent.name, Child: child.name, Reason: ReasonSelf}
	}
	if child.IsAncestorOf(parent) {
		return &CycleError{Parent: parent.name, Child: child.name, Reason: ReasonAncestor}
	}
	if current := child.Parent(); current != nil {
		if current == parent {
			return nil
		}
		return &CycleError{Parent: parent.name, Child: child.name, Reason: ReasonParented}
	}
	if child == h.root {
		return &CycleError{Parent: parent.name, Child: child.name, Reason: ReasonAncestor}
	}

	parent.children = append(parent.children, child)
	child.parent = weak.Make(parent)
	child.dirty = false
	child.invalidate()
	return nil
}

// Detach removes child from its parent. Detaching a node without a parent is
// a no-op. The subtree stays registered and can be attached again.
func (h *Hierarchy) Detach(child *Node) error {
	if !h.owns(child) {
		return ErrForeignNode
	}
	parent := child.Parent()
	if parent == nil {
		return nil
	}
	parent.children = slices.DeleteFunc(parent.children, func(n *Node) bool {
		return n == child
	})
	child.parent = weak.Pointer[Node]{}
	child.dirty = false
	child.invalidate()
	return nil
}

// WorldTransform returns the composition of the local transforms on the path
// from the root to n. Cached values are invalidated by any local mutation of
// n or its ancestors, so the result always reflects the current state.
func (h *Hierarchy) WorldTransform(n *Node) mgl64.Mat4 {
	return n.worldTransform()
}

// WorldPosition returns the translation part of the node's world transform.
func (h *Hierarchy) WorldPosition(n *Node) mgl64.Vec3 {
	return n.worldTransform().Col(3).Vec3()
}

// Walk visits every node reachable from the root depth-first, in child order,
// together with its world transform. Returning false stops the walk.
func (h *Hierarchy) Walk(fn func(n *Node, world mgl64.Mat4) bool) {
	h.walk(h.root, fn)
}

func (h *Hierarchy) walk(n *Node, fn func(*Node, mgl64.Mat4) bool) bool {
	if !fn(n, n.worldTransform()) {
		return false
	}
	for _, child := range n.children {
		if !h.walk(child, fn) {
			return false
		}
	}
	return true
}

// Find returns the first reachable node with the given name.
func (h *Hierarchy) Find(name string) *Node {
	var found *Node
	h.Walk(func(n *Node, _ mgl64.Mat4) bool {
		if n.name == name {
			found = n
			return false
		}
		return true
	})
	return found
}
