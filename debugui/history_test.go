package debugui_test

import (
	"testing"

	"github.com/plus3/orrery/debugui"
	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := debugui.NewHistory(4)
		assert.Equal(t, 0, h.Len())
		assert.Empty(t, h.Ordered(nil))

		avg, lo, hi := h.Summary()
		assert.Zero(t, avg)
		assert.Zero(t, lo)
		assert.Zero(t, hi)
	})

	t.Run("partially filled", func(t *testing.T) {
		h := debugui.NewHistory(4)
		h.Push(2)
		h.Push(6)

		assert.Equal(t, 2, h.Len())
		assert.Equal(t, []float32{2, 6}, h.Ordered(nil))

		avg, lo, hi := h.Summary()
		assert.Equal(t, float32(4), avg)
		assert.Equal(t, float32(2), lo)
		assert.Equal(t, float32(6), hi)
	})

	t.Run("wraps oldest first", func(t *testing.T) {
		h := debugui.NewHistory(3)
		for _, v := range []float32{1, 2, 3, 4, 5} {
			h.Push(v)
		}

		assert.Equal(t, 3, h.Len())
		assert.Equal(t, []float32{3, 4, 5}, h.Ordered(make([]float32, 0, 3)))

		avg, lo, hi := h.Summary()
		assert.Equal(t, float32(4), avg)
		assert.Equal(t, float32(3), lo)
		assert.Equal(t, float32(5), hi)
	})

	t.Run("size is at least one", func(t *testing.T) {
		h := debugui.NewHistory(0)
		h.Push(7)
		h.Push(8)
		assert.Equal(t, []float32{8}, h.Ordered(nil))
	})
}

func TestOverlay(t *testing.T) {
	o := debugui.NewOverlay()
	assert.True(t, o.Shown())
	assert.Equal(t, 0, o.Len())

	o.Add("noop", func() {})
	assert.Equal(t, 1, o.Len())

	o.Toggle()
	assert.False(t, o.Shown())
}
