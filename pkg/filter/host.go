package filter

import (
	"sync"
	"time"

	"github.com/kamrankamilli/govsink/pkg/internal/log"
	"github.com/kamrankamilli/govsink/pkg/queue"
)

// Host drives a Filter: it ticks Process at a fixed interval and runs
// dispatched control calls on the same loop. Filters still carry their
// own locking; the host loop is a convenience, not the mutual-exclusion
// guarantee.
type Host struct {
	f    Filter
	tick time.Duration

	in0, in1 *queue.Port

	cmdQ chan func()
	done chan struct{}
	wg   sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once
}

// NewHost returns a host for f ticking at the given interval.
func NewHost(f Filter, tick time.Duration) *Host {
	return &Host{
		f:    f,
		tick: tick,
		in0:  queue.NewPort(),
		in1:  queue.NewPort(),
		cmdQ: make(chan func(), 128),
		done: make(chan struct{}),
	}
}

// Input returns the port for the given index (0 or 1).
func (h *Host) Input(i int) *queue.Port {
	if i == 0 {
		return h.in0
	}
	return h.in1
}

// Dispatch queues a control call to run on the host loop. Calls are
// executed in dispatch order, interleaved with Process ticks. Dispatch
// after Close is a no-op.
func (h *Host) Dispatch(cmd func()) {
	select {
	case h.cmdQ <- cmd:
	case <-h.done:
	}
}

// Start initializes the filter and begins ticking. The returned error is
// the filter's Init error.
func (h *Host) Start() error {
	var err error
	h.startOnce.Do(func() {
		if err = h.f.Init(); err != nil {
			return
		}
		h.wg.Add(1)
		go h.run()
	})
	return err
}

func (h *Host) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-h.cmdQ:
			cmd()
		case <-ticker.C:
			h.f.Process(h.in0, h.in1)
		case <-h.done:
			// Run whatever was dispatched before the close, then stop.
			for {
				select {
				case cmd := <-h.cmdQ:
					cmd()
				default:
					return
				}
			}
		}
	}
}

// Close stops the loop, flushes both ports and uninitializes the filter.
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()
		if n := h.in0.Flush() + h.in1.Flush(); n > 0 {
			log.Debugf("host: dropped %d queued frames on close", n)
		}
		h.f.Uninit()
	})
}
