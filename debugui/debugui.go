// Package debugui draws Dear ImGui panels over the window: loop timing,
// per-system statistics and the body table.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

// Item holds a Dear ImGui render function invoked once per frame.
type Item struct {
	Name   string
	Render func()
}

// InputState tracks whether ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay collects panels and renders them between the backend's
// BeginFrame and EndFrame.
type Overlay struct {
	items []Item
	input InputState
	shown bool
}

// NewOverlay creates a visible overlay with no panels.
func NewOverlay() *Overlay {
	return &Overlay{shown: true}
}

// Add appends a panel. Panels render in the order they were added.
func (o *Overlay) Add(name string, render func()) {
	o.items = append(o.items, Item{Name: name, Render: render})
}

// Len returns the number of panels.
func (o *Overlay) Len() int {
	return len(o.items)
}

// Toggle flips panel visibility.
func (o *Overlay) Toggle() {
	o.shown = !o.shown
}

// Shown reports whether panels are drawn.
func (o *Overlay) Shown() bool {
	return o.shown
}

// Input returns the capture state observed during the last Render.
func (o *Overlay) Input() InputState {
	return o.input
}

// Render updates the input capture state and runs every panel.
func (o *Overlay) Render() {
	io := imgui.CurrentIO()
	o.input.WantCaptureMouse = io.WantCaptureMouse()
	o.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if !o.shown {
		return
	}
	for _, item := range o.items {
		item.Render()
	}
}
