package input_test

import (
	"testing"

	"github.com/plus3/orrery/input"
	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	var s input.State
	assert.True(t, s.Empty())

	s = s.Press(input.KeyW).Press(input.KeyE)
	assert.True(t, s.Down(input.KeyW))
	assert.True(t, s.Down(input.KeyE))
	assert.False(t, s.Down(input.KeyS))
	assert.Equal(t, "[W E]", s.String())

	s = s.Release(input.KeyW)
	assert.False(t, s.Down(input.KeyW))
	assert.False(t, s.Empty())
}

func TestScript(t *testing.T) {
	t.Run("quits after the configured frames", func(t *testing.T) {
		script := &input.Script{Frames: 3}
		for range 3 {
			assert.False(t, script.Sample().Quit)
		}
		assert.True(t, script.Sample().Quit)
		assert.True(t, script.Sample().Quit)
		assert.Equal(t, 3, script.Sampled())
	})

	t.Run("cycles device states", func(t *testing.T) {
		forward := input.State{}.Press(input.KeyW)
		script := &input.Script{Devices: []input.State{forward, {}}}

		assert.True(t, script.Sample().Device.Down(input.KeyW))
		assert.True(t, script.Sample().Device.Empty())
		assert.True(t, script.Sample().Device.Down(input.KeyW))
	})

	t.Run("zero frames never quits", func(t *testing.T) {
		script := &input.Script{}
		for range 100 {
			assert.False(t, script.Sample().Quit)
		}
	})
}
