package source

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
	gstvideo "github.com/tinyzimmer/go-gst/gst/video"

	"github.com/kamrankamilli/govsink/pkg/config"
	"github.com/kamrankamilli/govsink/pkg/internal/log"
	"github.com/kamrankamilli/govsink/pkg/video"
)

// Gstreamer produces frames from a gstreamer pipeline ending in an
// appsink with tightly-packed RGBA caps.
type Gstreamer struct {
	// Element is the source element name. "videotestsrc" by default;
	// "screen" picks the platform screen capture element.
	Element string
	// CopyFrames allocates a fresh buffer per frame instead of recycling
	// two work buffers. Recycled frames are marked precious.
	CopyFrames bool

	pipeline   *gst.Pipeline
	frameQueue chan *video.Frame // latest-only queue
	done       chan struct{}

	workA *video.Frame
	workB *video.Frame
	swap  bool
	seq   uint64
	w     int
	h     int
}

// Close stops the gstreamer pipeline and releases resources.
func (g *Gstreamer) Close() error {
	if g.pipeline == nil {
		return nil
	}
	close(g.done)
	err := g.pipeline.SetState(gst.StateNull)
	g.pipeline.Unref()
	g.pipeline = nil
	return err
}

// PullFrame returns the next frame, or nil once the source is closed.
func (g *Gstreamer) PullFrame() *video.Frame {
	select {
	case f := <-g.frameQueue:
		return f
	case <-g.done:
		return nil
	}
}

// Start builds and starts the pipeline:
// src ! queue ! videorate ! videoscale ! videoconvert ! capsfilter (RGBA WxH fps) ! appsink
func (g *Gstreamer) Start(width, height, fps int) error {
	log.Debug("Building gstreamer pipeline for frame source")
	g.frameQueue = make(chan *video.Frame, 2)
	g.done = make(chan struct{})
	g.w, g.h = width, height
	g.workA = video.NewFrame(width, height)
	g.workB = video.NewFrame(width, height)
	if fps <= 0 {
		fps = 5
	}

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return err
	}

	src, err := g.newSourceElement()
	if err != nil {
		return err
	}

	elements, err := gst.NewElementMany("queue", "videorate", "videoscale", "videoconvert", "capsfilter", "appsink")
	if err != nil {
		return err
	}
	queue, videorate, videoscale, videoconvert, capsfilter, appsink :=
		elements[0], elements[1], elements[2], elements[3], elements[4], elements[5]

	rateCaps := gst.NewCapsFromString(fmt.Sprintf("video/x-raw,framerate=%d/1", fps))
	scaleCaps := gst.NewCapsFromString(fmt.Sprintf("video/x-raw,width=%d,height=%d", g.w, g.h))
	rgbaCaps := gst.NewCapsFromString(fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/1", g.w, g.h, fps))

	videoInfo := gstvideo.NewInfo().
		WithFormat(gstvideo.FormatRGBA, uint(g.w), uint(g.h)).
		WithFPS(gst.Fraction(fps, 1))

	if err := runAllUntilError([]func() error{
		func() error { return videoscale.SetProperty("method", 0) }, // nearest neighbor (cheap)
		func() error { return pipeline.AddMany(src) },
		func() error { return pipeline.AddMany(elements...) },
		func() error {
			if err := src.Link(queue); err != nil {
				return fmt.Errorf("link src->queue failed: %v", err)
			}
			return nil
		},
		func() error {
			if err := queue.Link(videorate); err != nil {
				return fmt.Errorf("link queue->videorate failed: %v", err)
			}
			return nil
		},
		func() error {
			if err := videorate.LinkFiltered(videoscale, rateCaps); err != nil {
				return fmt.Errorf("link videorate->videoscale failed: %v", err)
			}
			return nil
		},
		func() error {
			if err := videoscale.LinkFiltered(videoconvert, scaleCaps); err != nil {
				return fmt.Errorf("link videoscale->videoconvert failed: %v", err)
			}
			return nil
		},
		func() error { capsfilter.SetProperty("caps", rgbaCaps); return nil },
		func() error {
			if err := videoconvert.Link(capsfilter); err != nil {
				return fmt.Errorf("link videoconvert->capsfilter failed: %v", err)
			}
			return nil
		},
		func() error {
			if err := capsfilter.Link(appsink); err != nil {
				return fmt.Errorf("link capsfilter->appsink failed: %v", err)
			}
			return nil
		},
		func() error {
			sink := app.SinkFromElement(appsink)
			if sink == nil {
				return fmt.Errorf("appsink type assertion failed")
			}
			// Drop when behind; the display only ever wants the newest frame.
			sink.SetCaps(videoInfo.ToCaps())
			sink.SetMaxBuffers(2)
			sink.SetDrop(true)
			sink.SetCallbacks(&app.SinkCallbacks{
				NewSampleFunc: g.newSample,
			})
			return nil
		},
	}); err != nil {
		pipeline.Unref()
		return err
	}

	if config.Debug {
		bus := pipeline.GetPipelineBus()
		go func() {
			for {
				msg := bus.TimedPop(time.Duration(-1))
				if msg == nil {
					return
				}
				log.Debug(msg)
				msg.Unref()
			}
		}()
	}

	g.pipeline = pipeline
	return pipeline.SetState(gst.StatePlaying)
}

func (g *Gstreamer) newSample(self *app.Sink) gst.FlowReturn {
	sample := self.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	defer sample.Unref()

	r := sample.GetBuffer().Reader()
	if r == nil {
		return gst.FlowOK
	}

	dst := g.nextFrame()

	// Expect tightly-packed RGBA
	need := g.w * g.h * 4
	n, err := io.ReadFull(r, dst.Pix[:need])
	if err != nil {
		logPipelineErr(fmt.Errorf("read RGBA bytes failed: %v", err))
		return gst.FlowError
	}
	if n != need {
		logPipelineErr(fmt.Errorf("short RGBA read: got=%d want=%d", n, need))
		return gst.FlowError
	}

	enqueueLatest(g.frameQueue, dst)
	return gst.FlowOK
}

// nextFrame picks the destination buffer for the next sample: a fresh
// allocation in copy mode, otherwise one of two recycled work frames
// marked precious (the source will write into it again).
func (g *Gstreamer) nextFrame() *video.Frame {
	g.seq++
	if g.CopyFrames {
		f := video.NewFrame(g.w, g.h)
		f.Seq = g.seq
		f.Timestamp = time.Now()
		return f
	}
	dst := g.workA
	if g.swap {
		dst = g.workB
	}
	g.swap = !g.swap
	dst.Seq = g.seq
	dst.Timestamp = time.Now()
	dst.Precious = true
	return dst
}

func (g *Gstreamer) newSourceElement() (*gst.Element, error) {
	name := g.Element
	if name == "" {
		name = "videotestsrc"
	}
	if name == "screen" {
		return newScreenCaptureElement()
	}
	elem, err := gst.NewElement(name)
	if err != nil {
		return nil, err
	}
	if name == "videotestsrc" {
		// Animated pattern so successive frames differ.
		if err := elem.SetProperty("pattern", 18); err != nil {
			log.Debugf("videotestsrc pattern not settable: %v", err)
		}
		if err := elem.SetProperty("is-live", true); err != nil {
			return nil, err
		}
	}
	return elem, nil
}

func newScreenCaptureElement() (elem *gst.Element, err error) {
	switch runtime.GOOS {
	case "windows":
		log.Debug("Detected Windows, using gdiscreencapsrc")
		elem, err = gst.NewElement("gdiscreencapsrc")
		if err != nil {
			return
		}
		err = elem.SetProperty("cursor", true)

	case "darwin":
		log.Debug("Detected macOS, using avfvideosrc")
		elem, err = gst.NewElement("avfvideosrc")
		if err != nil {
			return
		}
		if err = elem.SetProperty("capture-screen", true); err != nil {
			return
		}
		err = elem.SetProperty("capture-screen-cursor", true)

	default:
		log.Debug("Detected Linux, using ximagesrc")
		elem, err = gst.NewElement("ximagesrc")
		if err != nil {
			return
		}
		if err = elem.SetProperty("show-pointer", true); err != nil {
			return
		}
		err = elem.SetProperty("use-damage", false)
	}
	return
}

// enqueueLatest pushes f without blocking, evicting the queued frame when
// the consumer is behind.
func enqueueLatest(q chan *video.Frame, f *video.Frame) {
	select {
	case q <- f:
	default:
		select {
		case <-q:
		default:
		}
		select {
		case q <- f:
		default:
			// still full; drop
		}
	}
}

func runAllUntilError(fs []func() error) error {
	for _, f := range fs {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

func logPipelineErr(err error) {
	log.Error("[go-gst-error] ", err.Error())
}
