// Package source contains the frame producers that feed a display sink's
// input port: a gstreamer pipeline and a robotgo screen grabber.
package source

import "github.com/kamrankamilli/govsink/pkg/video"

// A Source produces decoded RGBA frames at a fixed size and rate.
type Source interface {
	// Start begins producing width x height frames at fps.
	Start(width, height, fps int) error
	// PullFrame blocks until the next frame is available. It returns nil
	// once the source is closed.
	PullFrame() *video.Frame
	Close() error
}

// Name selects a source implementation.
type Name string

const (
	NameGstreamer     Name = "gstreamer"
	NameScreenCapture Name = "screencap"
)

// New returns the source for the given name, or nil for an unknown one.
//
// copyFrames trades an allocation per frame for frames the consumer may
// mutate in place. When false, sources recycle two work buffers and mark
// every frame precious.
func New(n Name, copyFrames bool) Source {
	switch n {
	case NameGstreamer:
		return &Gstreamer{CopyFrames: copyFrames}
	case NameScreenCapture:
		return &ScreenCapture{CopyFrames: copyFrames}
	default:
		return nil
	}
}
