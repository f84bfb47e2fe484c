// Package queue implements the input ports a pipeline host feeds frames
// through. A Port is deliberately not a general work queue: consumers of
// a display sink only ever peek at the newest frame and then discard the
// whole backlog, so that is the only surface offered.
package queue

import (
	"sync"

	"github.com/kamrankamilli/govsink/pkg/video"
)

// Port is a mutex-guarded frame queue. Producers Push, the consumer
// PeekLasts and Flushes once per tick.
type Port struct {
	mu     sync.Mutex
	frames []*video.Frame
}

// NewPort returns an empty port.
func NewPort() *Port { return &Port{} }

// Push appends a frame to the port. Never blocks.
func (p *Port) Push(f *video.Frame) {
	if f == nil {
		return
	}
	p.mu.Lock()
	p.frames = append(p.frames, f)
	p.mu.Unlock()
}

// PeekLast returns the most recently pushed frame without removing it,
// or nil when the port is empty.
func (p *Port) PeekLast() *video.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[len(p.frames)-1]
}

// Flush discards every queued frame and returns how many were dropped.
func (p *Port) Flush() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.frames)
	for i := range p.frames {
		p.frames[i] = nil
	}
	p.frames = p.frames[:0]
	return n
}

// Len returns the number of queued frames.
func (p *Port) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}
