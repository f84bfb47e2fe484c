// Package sink implements a generic video display sink: a two-input,
// zero-output pipeline filter that hands the newest decoded frame to a
// drawing surface and exposes the usual display controls (attach target,
// show/hide, mirroring, zoom, explicit render).
package sink

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kamrankamilli/govsink/pkg/filter"
	"github.com/kamrankamilli/govsink/pkg/internal/log"
	"github.com/kamrankamilli/govsink/pkg/queue"
	"github.com/kamrankamilli/govsink/pkg/render"
	"github.com/kamrankamilli/govsink/pkg/video"
)

// Sink is the display adapter. One mutex guards all of its state; every
// surface call happens while that mutex is held, so the surface itself
// does not need to be thread-safe.
//
// Width/height of zero mean no drawing target is attached, in which case
// ingestion and rendering are no-ops (input ports are still drained).
type Sink struct {
	renderer render.Renderer

	mu        sync.Mutex
	surf      render.Surface // owned; nil when detached or degraded
	target    *render.Target
	surfaceW  int
	surfaceH  int
	visible   bool
	mirroring bool
	videoSize video.Size

	presented uint64
	drained   uint64 // atomic; counted outside the lock
}

// State is a consistent snapshot of the sink's observable state.
type State struct {
	Attached      bool
	SurfaceWidth  int
	SurfaceHeight int
	Visible       bool
	Mirroring     bool
	VideoSize     video.Size
	Presented     uint64
	Drained       uint64
}

// New returns a sink that creates its drawing surfaces with r. The sink
// starts visible, with no target attached.
func New(r render.Renderer) *Sink {
	return &Sink{renderer: r, visible: true}
}

// Desc implements the filter description for this node.
func (s *Sink) Desc() filter.Desc {
	return filter.Desc{
		Name:     "govsink",
		Text:     "A generic video display sink",
		NInputs:  2,
		NOutputs: 0,
	}
}

// Init implements filter.Filter. A missing renderer is not fatal: the
// sink keeps running and presentation silently does nothing.
func (s *Sink) Init() error {
	if s.renderer == nil {
		log.Error("sink: no renderer available, running without presentation")
	}
	return nil
}

// Process implements filter.Filter. It runs once per host tick: under the
// lock it takes the most recent frame on port 0 and forwards it to the
// surface, then — on every branch — flushes both ports. Older frames are
// never presented; a slow consumer drops frames instead of delaying them.
func (s *Sink) Process(in0, in1 *queue.Port) {
	s.mu.Lock()
	// No target attached or video hidden: fall through to the drain.
	if s.surfaceW != 0 && s.surfaceH != 0 && s.visible && in0 != nil {
		if f := in0.PeekLast(); f != nil {
			if err := f.Validate(); err != nil {
				log.Debugf("sink: dropping malformed frame seq=%d: %v", f.Seq, err)
			} else {
				s.videoSize = f.Size()
				if s.mirroring && !f.Precious {
					video.MirrorInPlace(f)
				}
				if s.surf != nil {
					s.surf.Present(f)
					s.presented++
				}
			}
		}
	}
	s.mu.Unlock()

	n := 0
	if in0 != nil {
		n += in0.Flush()
	}
	if in1 != nil {
		n += in1.Flush()
	}
	if n > 0 {
		atomic.AddUint64(&s.drained, uint64(n))
	}
}

// Uninit implements filter.Filter and releases the owned surface.
func (s *Sink) Uninit() {
	s.mu.Lock()
	s.detachLocked()
	s.mu.Unlock()
}

// SetVideoSize stores the source video size hint. Informational only; it
// gates nothing and is not checked against actual frames.
func (s *Sink) SetVideoSize(sz video.Size) {
	s.mu.Lock()
	s.videoSize = sz
	s.mu.Unlock()
}

// AttachTarget binds the sink to a native drawing target, replacing any
// previous one. A nil target detaches: dimensions drop to zero and the
// owned surface is destroyed. Surface creation or init failures leave the
// sink attached but degraded (logged, presentation no-ops).
func (s *Sink) AttachTarget(t *render.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detachLocked()

	if t == nil {
		log.Debug("sink: reset native drawing target")
		return
	}

	log.Debugf("sink: set native drawing target %s (%dx%d)", t.ID, t.Width, t.Height)
	s.target = t
	s.surfaceW, s.surfaceH = t.Width, t.Height

	if s.renderer == nil {
		return
	}
	surf, err := s.renderer.NewSurface()
	if err != nil {
		log.Errorf("sink: creating surface: %v", err)
		return
	}
	if err := surf.Init(t.Width, t.Height); err != nil {
		log.Errorf("sink: binding surface to %dx%d target: %v", t.Width, t.Height, err)
		if cerr := surf.Close(); cerr != nil {
			log.Errorf("sink: closing unbound surface: %v", cerr)
		}
		return
	}
	s.surf = surf
}

// detachLocked destroys the owned surface and clears the target.
// Callers hold s.mu.
func (s *Sink) detachLocked() {
	if s.surf != nil {
		if err := s.surf.Close(); err != nil {
			log.Errorf("sink: closing surface: %v", err)
		}
		s.surf = nil
	}
	s.target = nil
	s.surfaceW, s.surfaceH = 0, 0
}

// TargetID returns the id of the attached target, or uuid.Nil when
// detached.
func (s *Sink) TargetID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return uuid.Nil
	}
	return s.target.ID
}

// SetVisible shows or hides the video. While hidden, ingestion still
// drains its ports but nothing reaches the surface.
func (s *Sink) SetVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
}

// SetMirroring toggles horizontal mirroring of non-precious frames.
func (s *Sink) SetMirroring(m bool) {
	s.mu.Lock()
	s.mirroring = m
	s.mu.Unlock()
}

// Zoom forwards view parameters to the surface. No sink state changes;
// without an attached surface this is a no-op.
func (s *Sink) Zoom(p render.ZoomParams) {
	s.mu.Lock()
	if s.surf != nil {
		s.surf.Zoom(p)
	}
	s.mu.Unlock()
}

// CallRender asks the surface to draw the current frame right now,
// independent of the ingest cadence. It observes the same gating as
// ingestion: no target or hidden video means no-op.
func (s *Sink) CallRender() {
	s.mu.Lock()
	if s.surfaceW > 0 && s.surfaceH > 0 && s.visible && s.surf != nil {
		if err := s.surf.Render(render.RenderDefault); err != nil {
			log.Errorf("sink: render: %v", err)
		}
	}
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the sink's state.
func (s *Sink) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Attached:      s.surfaceW != 0 && s.surfaceH != 0,
		SurfaceWidth:  s.surfaceW,
		SurfaceHeight: s.surfaceH,
		Visible:       s.visible,
		Mirroring:     s.mirroring,
		VideoSize:     s.videoSize,
		Presented:     s.presented,
		Drained:       atomic.LoadUint64(&s.drained),
	}
}
