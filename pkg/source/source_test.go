package source

import (
	"testing"

	"github.com/kamrankamilli/govsink/pkg/video"
)

func TestNewSelectsImplementation(t *testing.T) {
	if _, ok := New(NameGstreamer, false).(*Gstreamer); !ok {
		t.Error("gstreamer name did not build a Gstreamer source")
	}
	if _, ok := New(NameScreenCapture, false).(*ScreenCapture); !ok {
		t.Error("screencap name did not build a ScreenCapture source")
	}
	if s := New("v4l2", false); s != nil {
		t.Errorf("unknown name built %T", s)
	}
}

func TestEnqueueLatestEvictsWhenBehind(t *testing.T) {
	q := make(chan *video.Frame, 2)

	frames := make([]*video.Frame, 4)
	for i := range frames {
		frames[i] = video.NewFrame(1, 1)
		frames[i].Seq = uint64(i)
		enqueueLatest(q, frames[i])
	}

	// The consumer was never scheduled; the newest frame must still be
	// reachable within the queue's capacity.
	var got *video.Frame
	for len(q) > 0 {
		got = <-q
	}
	if got == nil || got.Seq != 3 {
		t.Fatalf("newest queued frame seq = %v, want 3", got)
	}
}

func TestRecycledFramesAreMarkedPrecious(t *testing.T) {
	g := &Gstreamer{}
	g.w, g.h = 2, 2
	g.workA = video.NewFrame(2, 2)
	g.workB = video.NewFrame(2, 2)

	a, b, c := g.nextFrame(), g.nextFrame(), g.nextFrame()
	if !a.Precious || !b.Precious {
		t.Error("recycled frames must be precious")
	}
	if a == b {
		t.Error("work buffers did not alternate")
	}
	if a != c {
		t.Error("third frame should reuse the first work buffer")
	}
	if a.Seq != 1 || b.Seq != 2 || c.Seq != 3 {
		t.Errorf("sequence numbers = %d,%d,%d", a.Seq, b.Seq, c.Seq)
	}
}

func TestCopyModeAllocatesMutableFrames(t *testing.T) {
	g := &Gstreamer{CopyFrames: true}
	g.w, g.h = 2, 2

	a, b := g.nextFrame(), g.nextFrame()
	if a.Precious || b.Precious {
		t.Error("copied frames must not be precious")
	}
	if a == b || &a.Pix[0] == &b.Pix[0] {
		t.Error("copy mode reused a buffer")
	}
}
