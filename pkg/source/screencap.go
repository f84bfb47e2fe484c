package source

import (
	"image"
	"image/draw"
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/nfnt/resize"

	"github.com/kamrankamilli/govsink/pkg/internal/log"
	"github.com/kamrankamilli/govsink/pkg/video"
)

// ScreenCapture produces frames by periodically grabbing the screen.
type ScreenCapture struct {
	// CopyFrames allocates a fresh buffer per frame instead of recycling
	// two work buffers. Recycled frames are marked precious.
	CopyFrames bool

	frameQueue chan *video.Frame
	stopCh     chan struct{}
	stopOnce   sync.Once

	workA *video.Frame
	workB *video.Frame
	swap  bool
	seq   uint64
	w     int
	h     int
}

func (s *ScreenCapture) Close() error {
	if s.stopCh != nil {
		s.stopOnce.Do(func() { close(s.stopCh) })
	}
	return nil
}

// PullFrame returns the next frame, or nil once the source is closed.
func (s *ScreenCapture) PullFrame() *video.Frame {
	select {
	case f := <-s.frameQueue:
		return f
	case <-s.stopCh:
		return nil
	}
}

func (s *ScreenCapture) Start(width, height, fps int) error {
	s.frameQueue = make(chan *video.Frame, 2)
	s.stopCh = make(chan struct{})
	s.w, s.h = width, height
	s.workA = video.NewFrame(width, height)
	s.workB = video.NewFrame(width, height)
	if fps <= 0 {
		fps = 5
	}

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				log.Debug("Stopping screen capture")
				return
			case <-ticker.C:
				bitMap := robotgo.CaptureScreen()
				if bitMap == nil {
					log.Error("CaptureScreen returned nil bitmap")
					continue
				}

				// Convert to Go image and free native bitmap ASAP (no defer in loop)
				img := robotgo.ToImage(bitMap)
				robotgo.FreeBitmap(bitMap)

				if img == nil {
					log.Error("robotgo.ToImage returned nil image")
					continue
				}

				// Resize cheaply if needed
				b := img.Bounds()
				if b.Dx() != width || b.Dy() != height {
					img = resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)
				}

				dst := s.nextFrame()

				// Copy into the RGBA buffer row-wise (draw.Draw is optimized)
				draw.Draw(dst.Image(), image.Rect(0, 0, width, height), img, img.Bounds().Min, draw.Src)

				enqueueLatest(s.frameQueue, dst)
			}
		}
	}()
	return nil
}

func (s *ScreenCapture) nextFrame() *video.Frame {
	s.seq++
	if s.CopyFrames {
		f := video.NewFrame(s.w, s.h)
		f.Seq = s.seq
		f.Timestamp = time.Now()
		return f
	}
	dst := s.workA
	if s.swap {
		dst = s.workB
	}
	s.swap = !s.swap
	dst.Seq = s.seq
	dst.Timestamp = time.Now()
	dst.Precious = true
	return dst
}
