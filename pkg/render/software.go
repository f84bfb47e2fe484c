package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/kamrankamilli/govsink/pkg/video"
)

// SoftwareRenderer creates CPU-backed surfaces. It is the stand-in for a
// GPU renderer library: the CLI demo and the tests run against it so the
// whole pipeline works without a display driver.
type SoftwareRenderer struct{}

// NewSurface implements Renderer.
func (SoftwareRenderer) NewSurface() (Surface, error) {
	return &SoftwareSurface{zoom: ZoomParams{Factor: 1, CenterX: 0.5, CenterY: 0.5}}, nil
}

// SoftwareSurface rasterizes presented frames into an in-memory NRGBA
// canvas. Present only stores a copy of the frame; the actual scale and
// compose happens in Render, mirroring how a GL surface defers drawing to
// its redraw callback.
type SoftwareSurface struct {
	mu sync.Mutex

	width, height int
	last          *image.NRGBA // copy of the last presented frame
	canvas        *image.NRGBA
	zoom          ZoomParams

	presents uint64
	renders  uint64
	closed   bool
}

var errSurfaceClosed = errors.New("render: surface is closed")

// Init implements Surface.
func (s *SoftwareSurface) Init(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("render: invalid surface size %dx%d", width, height)
	}
	s.width, s.height = width, height
	s.canvas = imaging.New(width, height, color.NRGBA{A: 0xff})
	return nil
}

// Present implements Surface. The frame is copied because it is only
// borrowed for the duration of this call.
func (s *SoftwareSurface) Present(f *video.Frame) {
	if f == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.canvas == nil {
		return
	}
	s.last = imaging.Clone(f.Image())
	s.presents++
}

// Zoom implements Surface.
func (s *SoftwareSurface) Zoom(p ZoomParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Factor < 1 {
		p.Factor = 1
	}
	s.zoom = p
}

// Render implements Surface. It scales the zoomed region of the last
// presented frame to fit the canvas, centered on a black background.
func (s *SoftwareSurface) Render(flags RenderFlags) error {
	_ = flags
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSurfaceClosed
	}
	if s.canvas == nil {
		return errors.New("render: surface not initialized")
	}
	if s.last == nil {
		return nil
	}
	src := s.last
	if s.zoom.Factor > 1 {
		src = imaging.Crop(src, zoomRect(src.Bounds(), s.zoom))
	}
	w, h := fitDims(src.Bounds().Dx(), src.Bounds().Dy(), s.width, s.height)
	fitted := imaging.Resize(src, w, h, imaging.NearestNeighbor)
	s.canvas = imaging.PasteCenter(imaging.New(s.width, s.height, color.NRGBA{A: 0xff}), fitted)
	s.renders++
	return nil
}

// Close implements Surface.
func (s *SoftwareSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.last = nil
	s.canvas = nil
	return nil
}

// Canvas returns the current rasterized output, or nil before the first
// successful Render.
func (s *SoftwareSurface) Canvas() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renders == 0 {
		return nil
	}
	return s.canvas
}

// Counts returns how many Present and Render calls succeeded.
func (s *SoftwareSurface) Counts() (presents, renders uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents, s.renders
}

// fitDims scales srcW x srcH to the largest size that fits maxW x maxH
// while keeping aspect. Unlike imaging.Fit this also upscales, which a
// zoomed-in view needs.
func fitDims(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 1, 1
	}
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		w, h = srcW*maxH/srcH, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// zoomRect is the source region a zoom view shows: the frame shrunk by
// the zoom factor, centered on the normalized center, clamped to bounds.
func zoomRect(b image.Rectangle, p ZoomParams) image.Rectangle {
	w := int(float64(b.Dx()) / p.Factor)
	h := int(float64(b.Dy()) / p.Factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cx := b.Min.X + int(p.CenterX*float64(b.Dx()))
	cy := b.Min.Y + int(p.CenterY*float64(b.Dy()))
	r := image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
	// Slide back inside the frame rather than clipping, so the view keeps
	// its aspect when the center is near an edge.
	if r.Min.X < b.Min.X {
		r = r.Add(image.Pt(b.Min.X-r.Min.X, 0))
	}
	if r.Min.Y < b.Min.Y {
		r = r.Add(image.Pt(0, b.Min.Y-r.Min.Y))
	}
	if r.Max.X > b.Max.X {
		r = r.Add(image.Pt(b.Max.X-r.Max.X, 0))
	}
	if r.Max.Y > b.Max.Y {
		r = r.Add(image.Pt(0, b.Max.Y-r.Max.Y))
	}
	return r.Intersect(b)
}
