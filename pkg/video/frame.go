package video

import (
	"errors"
	"image"
	"time"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Frame is one decoded video frame in tightly-packed RGBA form.
//
// A Frame is borrowed by whoever receives it: it is only valid for the
// duration of the call it was handed to, and a consumer that wants to keep
// the pixels must copy them.
type Frame struct {
	// Pix holds the pixel data, 4 bytes per pixel, row-major.
	Pix []byte
	// Stride is the byte distance between vertically adjacent pixels.
	Stride int

	Width  int
	Height int

	// Seq is a monotonically increasing sequence number assigned by the
	// producer.
	Seq uint64
	// Timestamp is the producer-side capture time.
	Timestamp time.Time

	// Precious marks a buffer that is still referenced elsewhere and must
	// not be mutated in place.
	Precious bool
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Pix:    make([]byte, 4*width*height),
		Stride: 4 * width,
		Width:  width,
		Height: height,
	}
}

// FromImage wraps an *image.RGBA in a Frame without copying pixels.
func FromImage(img *image.RGBA) *Frame {
	b := img.Bounds()
	return &Frame{
		Pix:    img.Pix,
		Stride: img.Stride,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// Image returns an *image.RGBA view over the frame's pixels. The returned
// image shares the frame's buffer.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Size returns the frame's dimensions.
func (f *Frame) Size() Size { return Size{Width: f.Width, Height: f.Height} }

var (
	errEmptyFrame = errors.New("video: frame has no pixels")
	errBadStride  = errors.New("video: stride shorter than row")
	errShortPix   = errors.New("video: pixel buffer shorter than stride*height")
)

// Validate reports whether the frame is a well-formed pixel buffer. A
// non-nil error means the frame must not be handed to a renderer.
func (f *Frame) Validate() error {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return errEmptyFrame
	}
	if f.Stride < 4*f.Width {
		return errBadStride
	}
	if len(f.Pix) < f.Stride*f.Height {
		return errShortPix
	}
	return nil
}
