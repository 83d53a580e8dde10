// Package input describes per-frame device snapshots. Device polling itself
// lives in the window package; this package only holds the data the loop
// forwards to controllers.
package input

import "strings"

// Key is a logical key understood by the controllers.
type Key uint8

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyR
	KeyF
	KeyQ
	KeyE
	KeyT
	KeyG
	KeyEscape
	keyCount
)

var keyNames = [keyCount]string{"W", "A", "S", "D", "R", "F", "Q", "E", "T", "G", "Escape"}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Unknown"
}

// State is the set of keys held down during a frame.
type State struct {
	down uint32
}

// Press returns a copy of s with k held down.
func (s State) Press(k Key) State {
	s.down |= 1 << k
	return s
}

// Release returns a copy of s with k released.
func (s State) Release(k Key) State {
	s.down &^= 1 << k
	return s
}

// Down reports whether k is held.
func (s State) Down(k Key) bool {
	return s.down&(1<<k) != 0
}

// Empty reports whether no key is held.
func (s State) Empty() bool {
	return s.down == 0
}

func (s State) String() string {
	var held []string
	for k := Key(0); k < keyCount; k++ {
		if s.Down(k) {
			held = append(held, k.String())
		}
	}
	return "[" + strings.Join(held, " ") + "]"
}

// Snapshot is the result of sampling the input devices once.
type Snapshot struct {
	Quit   bool
	Device State
}
