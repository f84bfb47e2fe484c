package render

import (
	"image/color"
	"testing"

	"github.com/kamrankamilli/govsink/pkg/video"
)

func newSoftware(t *testing.T, w, h int) *SoftwareSurface {
	t.Helper()
	surf, err := SoftwareRenderer{}.NewSurface()
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if err := surf.Init(w, h); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return surf.(*SoftwareSurface)
}

func solidFrame(w, h int, c color.NRGBA) *video.Frame {
	f := video.NewFrame(w, h)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return f
}

func TestInitRejectsBadSize(t *testing.T) {
	surf, _ := SoftwareRenderer{}.NewSurface()
	if err := surf.Init(0, 480); err == nil {
		t.Error("Init(0,480) succeeded")
	}
	if err := surf.Init(640, -1); err == nil {
		t.Error("Init(640,-1) succeeded")
	}
}

func TestRenderDrawsLastPresentedFrame(t *testing.T) {
	s := newSoftware(t, 8, 8)

	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("render with no frame: %v", err)
	}
	if s.Canvas() != nil {
		t.Error("canvas available before anything was drawn")
	}

	red := color.NRGBA{R: 0xff, A: 0xff}
	s.Present(solidFrame(8, 8, red))
	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := s.Canvas()
	if out == nil {
		t.Fatal("no canvas after render")
	}
	if b := out.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("canvas bounds = %v", b)
	}
	if got := out.NRGBAAt(4, 4); got != red {
		t.Errorf("center pixel = %v, want %v", got, red)
	}

	presents, renders := s.Counts()
	if presents != 1 || renders != 1 {
		t.Errorf("counts = %d/%d, want 1/1", presents, renders)
	}
}

func TestRenderLetterboxesMismatchedAspect(t *testing.T) {
	s := newSoftware(t, 8, 8)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// A wide frame on a square canvas: black bars above and below.
	s.Present(solidFrame(8, 4, white))
	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := s.Canvas()
	if got := out.NRGBAAt(4, 4); got != white {
		t.Errorf("center = %v, want frame colour", got)
	}
	black := color.NRGBA{A: 0xff}
	if got := out.NRGBAAt(4, 0); got != black {
		t.Errorf("top bar = %v, want black", got)
	}
	if got := out.NRGBAAt(4, 7); got != black {
		t.Errorf("bottom bar = %v, want black", got)
	}
}

func TestZoomShowsRegionAroundCenter(t *testing.T) {
	s := newSoftware(t, 4, 4)

	// Left half red, right half green.
	f := video.NewFrame(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			o := y*f.Stride + 4*x
			if x < 4 {
				f.Pix[o] = 0xff
			} else {
				f.Pix[o+1] = 0xff
			}
			f.Pix[o+3] = 0xff
		}
	}
	s.Present(f)

	// 2x zoom into the left edge shows only red.
	s.Zoom(ZoomParams{Factor: 2, CenterX: 0, CenterY: 0.5})
	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("Render: %v", err)
	}
	red := color.NRGBA{R: 0xff, A: 0xff}
	out := s.Canvas()
	for x := 0; x < 4; x++ {
		if got := out.NRGBAAt(x, 2); got != red {
			t.Fatalf("pixel %d = %v, want red", x, got)
		}
	}

	// Identity zoom shows both halves again.
	s.Zoom(ZoomParams{Factor: 1, CenterX: 0.5, CenterY: 0.5})
	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out = s.Canvas()
	if got := out.NRGBAAt(0, 2); got != red {
		t.Errorf("left = %v, want red", got)
	}
	if got := out.NRGBAAt(3, 2); (got != color.NRGBA{G: 0xff, A: 0xff}) {
		t.Errorf("right = %v, want green", got)
	}
}

func TestPresentCopiesBorrowedFrame(t *testing.T) {
	s := newSoftware(t, 4, 4)
	f := solidFrame(4, 4, color.NRGBA{B: 0xff, A: 0xff})
	s.Present(f)

	// Producer reuses the buffer after hand-off.
	for i := range f.Pix {
		f.Pix[i] = 0
	}
	if err := s.Render(RenderDefault); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := s.Canvas().NRGBAAt(2, 2); (got != color.NRGBA{B: 0xff, A: 0xff}) {
		t.Errorf("render used the mutated buffer: %v", got)
	}
}

func TestClosedSurfaceRefusesWork(t *testing.T) {
	s := newSoftware(t, 4, 4)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Init(4, 4); err == nil {
		t.Error("Init after Close succeeded")
	}
	if err := s.Render(RenderDefault); err == nil {
		t.Error("Render after Close succeeded")
	}
	s.Present(solidFrame(4, 4, color.NRGBA{A: 0xff})) // must not panic
}
