package render

import (
	"errors"
	"fmt"
	"image"
)

// ErrNoFrame is returned when a frame buffer is read before anything was drawn.
var ErrNoFrame = errors.New("render: no frame buffer")

// FrameBuffer holds one rendered frame as 8-bit RGBA. Rows are stored
// bottom-up, the way graphics APIs read back their color attachment, so row 0
// is the bottom of the image.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrameBuffer allocates a cleared frame buffer.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Stride returns the byte length of one row.
func (fb *FrameBuffer) Stride() int {
	return fb.Width * 4
}

// Validate checks that the pixel slice matches the declared dimensions.
func (fb *FrameBuffer) Validate() error {
	if fb == nil {
		return ErrNoFrame
	}
	if fb.Width <= 0 || fb.Height <= 0 {
		return fmt.Errorf("render: invalid frame size %dx%d", fb.Width, fb.Height)
	}
	if want := fb.Width * fb.Height * 4; len(fb.Pix) != want {
		return fmt.Errorf("render: frame buffer holds %d bytes, want %d", len(fb.Pix), want)
	}
	return nil
}

// ReadPixels copies the buffer into an image in buffer row order, so the
// result is upside down relative to a standard image.
func (fb *FrameBuffer) ReadPixels() (*image.RGBA, error) {
	if err := fb.Validate(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Pix)
	return img, nil
}

// storeFlipped writes a top-down image into the buffer in bottom-up order.
func (fb *FrameBuffer) storeFlipped(img *image.RGBA) {
	stride := fb.Stride()
	for y := 0; y < fb.Height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+stride]
		dst := fb.Pix[(fb.Height-1-y)*stride:]
		copy(dst[:stride], src)
	}
}
