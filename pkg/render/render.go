// Package render defines the drawing-surface contract the display sink
// calls into, and a software reference implementation of it. The sink
// never looks inside a surface; texture upload, shading and colour
// conversion are entirely the surface's business.
package render

import (
	"github.com/google/uuid"

	"github.com/kamrankamilli/govsink/pkg/video"
)

// Surface is a drawing target the sink presents frames on. Implementations
// are not required to be safe for concurrent use; the sink serializes
// every call through its own lock.
type Surface interface {
	// Init (re)binds the surface to a drawing target of the given size.
	// Calling Init again fully replaces the previous binding.
	Init(width, height int) error
	// Present hands the surface the next frame to display. The frame is
	// borrowed; the surface must copy anything it wants to keep.
	Present(f *video.Frame)
	// Zoom updates the surface's view transform.
	Zoom(p ZoomParams)
	// Render draws the most recently presented frame immediately.
	Render(flags RenderFlags) error
	// Close releases the surface. No other method may be called after.
	Close() error
}

// Renderer creates surfaces. The sink owns each surface it creates and is
// the only caller of its Close.
type Renderer interface {
	NewSurface() (Surface, error)
}

// Target describes a native drawing target a surface gets bound to.
type Target struct {
	ID     uuid.UUID
	Width  int
	Height int
}

// NewTarget returns a target descriptor with a fresh id.
func NewTarget(width, height int) *Target {
	return &Target{ID: uuid.New(), Width: width, Height: height}
}

// ZoomParams is a magnification factor around a normalized center point.
// Factor 1 with center (0.5, 0.5) is the identity view.
type ZoomParams struct {
	Factor  float64
	CenterX float64
	CenterY float64
}

// RenderFlags tune a single Render call.
type RenderFlags uint32

// RenderDefault requests a plain redraw of the current frame.
const RenderDefault RenderFlags = 0
