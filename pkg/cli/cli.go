// Package cli wires a frame source, a host-driven display sink and a
// software surface into a runnable demo pipeline.
package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kamrankamilli/govsink/pkg/config"
	"github.com/kamrankamilli/govsink/pkg/filter"
	"github.com/kamrankamilli/govsink/pkg/internal/log"
	"github.com/kamrankamilli/govsink/pkg/render"
	"github.com/kamrankamilli/govsink/pkg/sink"
	"github.com/kamrankamilli/govsink/pkg/source"
)

var (
	width, height int
	fps           int
	sourceName    string
	srcElement    string
	mirror        bool
	hidden        bool
	zoomFactor    float64
	duration      time.Duration
	debug         bool
)

// RootCmd is the entrypoint for the govsink binary.
var RootCmd = &cobra.Command{
	Use:           "govsink",
	Short:         "A generic video display sink",
	Long:          "Runs a frame source against the display sink and reports presentation stats.",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.IntVarP(&width, "width", "w", 640, "Target surface width.")
	flags.IntVarP(&height, "height", "H", 480, "Target surface height.")
	flags.IntVarP(&fps, "fps", "f", 5, "Source frame rate.")
	flags.StringVarP(&sourceName, "source", "s", string(source.NameGstreamer), "Frame source to use (gstreamer, screencap).")
	flags.StringVar(&srcElement, "element", "videotestsrc", "Gstreamer source element ('screen' picks the platform capture element).")
	flags.BoolVarP(&mirror, "mirror", "m", false, "Mirror frames horizontally before presentation.")
	flags.BoolVar(&hidden, "hidden", false, "Start with video hidden (frames are drained, nothing is presented).")
	flags.Float64VarP(&zoomFactor, "zoom", "z", 1, "Zoom factor around the frame center.")
	flags.DurationVarP(&duration, "duration", "t", 0, "Stop after this long (0 runs until interrupted).")
	flags.BoolVarP(&debug, "debug", "d", false, "Enable debug logging.")
}

func run(cmd *cobra.Command, args []string) error {
	config.Debug = debug
	if fps <= 0 {
		fps = 5
	}

	s := sink.New(render.SoftwareRenderer{})
	host := filter.NewHost(s, time.Second/time.Duration(fps))
	if err := host.Start(); err != nil {
		return errors.Wrap(err, "starting host")
	}
	defer host.Close()

	// Mirroring mutates frames in place, so ask the source for mutable
	// (non-precious) frames when it is on.
	src := source.New(source.Name(sourceName), mirror)
	if src == nil {
		return errors.Errorf("unknown source %q", sourceName)
	}
	if g, ok := src.(*source.Gstreamer); ok {
		g.Element = srcElement
	}
	if err := src.Start(width, height, fps); err != nil {
		return errors.Wrapf(err, "starting %s source", sourceName)
	}
	defer src.Close()

	target := render.NewTarget(width, height)
	s.AttachTarget(target)
	s.SetMirroring(mirror)
	s.SetVisible(!hidden)
	if zoomFactor > 1 {
		s.Zoom(render.ZoomParams{Factor: zoomFactor, CenterX: 0.5, CenterY: 0.5})
	}
	log.Infof("Presenting %s frames on target %s (%dx%d)", sourceName, target.ID, width, height)

	// Pump source frames onto input port 0; the host tick does the rest.
	go func() {
		for {
			f := src.PullFrame()
			if f == nil {
				return
			}
			host.Input(0).Push(f)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var expired <-chan time.Time
	if duration > 0 {
		t := time.NewTimer(duration)
		defer t.Stop()
		expired = t.C
	}

	// Once a second: force a redraw and report where the sink stands.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			host.Dispatch(func() {
				if _, err := s.Exec(sink.CmdCallRender, nil); err != nil {
					log.Errorf("render command: %v", err)
				}
			})
			st := s.Snapshot()
			log.Debugf("presented=%d drained=%d video=%dx%d visible=%v",
				st.Presented, st.Drained, st.VideoSize.Width, st.VideoSize.Height, st.Visible)
		case <-expired:
			st := s.Snapshot()
			log.Infof("Done: presented %d frames, drained %d", st.Presented, st.Drained)
			return nil
		case <-stop:
			log.Info("Interrupted, shutting down")
			return nil
		}
	}
}
