package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// MaxTargetSize bounds either dimension of a render target.
const MaxTargetSize = 8192

// ErrTargetSize is returned for a render target the backend cannot
// allocate.
var ErrTargetSize = errors.New("raster: unsupported target size")

// FrameBuffer holds a render target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // 1/w per pixel, larger is nearer, cleared to -inf
}

// NewFrameBuffer allocates a zeroed color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
	}
	fb.ClearDepth()
	return fb
}

// NewTarget validates the size and allocates an offscreen target.
func NewTarget(w, h int) (*FrameBuffer, error) {
	if w <= 0 || h <= 0 || w > MaxTargetSize || h > MaxTargetSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrTargetSize, w, h)
	}
	return NewFrameBuffer(w, h), nil
}

// ClearDepth resets the z-buffer.
func (fb *FrameBuffer) ClearDepth() {
	inf := math.Inf(-1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}

// Fill sets every pixel to c.
func (fb *FrameBuffer) Fill(c color.NRGBA) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = c.R
		fb.Color[i+1] = c.G
		fb.Color[i+2] = c.B
		fb.Color[i+3] = c.A
	}
}

// Image returns an NRGBA view sharing the color buffer. Rendering into the
// target is visible through the view without copying.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Snapshot copies the color buffer into a new image.
func (fb *FrameBuffer) Snapshot() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// Release drops the buffers. The framebuffer must not be rendered to
// afterwards.
func (fb *FrameBuffer) Release() {
	fb.Color = nil
	fb.ZBuf = nil
	fb.Width, fb.Height = 0, 0
}
