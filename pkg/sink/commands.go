package sink

import (
	"github.com/pkg/errors"

	"github.com/kamrankamilli/govsink/pkg/render"
	"github.com/kamrankamilli/govsink/pkg/video"
)

// CommandName identifies an entry in the sink's control table.
type CommandName string

// The control surface a pipeline host can dispatch by name.
const (
	CmdSetVideoSize    CommandName = "set-video-size"
	CmdSetNativeTarget CommandName = "set-native-target"
	CmdGetNativeTarget CommandName = "get-native-target"
	CmdShowVideo       CommandName = "show-video"
	CmdEnableMirroring CommandName = "enable-mirroring"
	CmdZoom            CommandName = "zoom"
	CmdCallRender      CommandName = "call-render"
)

// CommandFunc executes one named command against a sink. The error is
// only ever a dispatch-level complaint (unknown argument type); the
// commands themselves do not fail — a command without an attached target
// just updates state for later.
type CommandFunc func(s *Sink, arg interface{}) (interface{}, error)

// Commands returns a fresh copy of the control table so callers can
// override entries without affecting each other.
func Commands() map[CommandName]CommandFunc {
	out := make(map[CommandName]CommandFunc, len(commandTable))
	for name, fn := range commandTable {
		out[name] = fn
	}
	return out
}

// Exec looks up and runs a named command.
func (s *Sink) Exec(name CommandName, arg interface{}) (interface{}, error) {
	fn, ok := commandTable[name]
	if !ok {
		return nil, errors.Errorf("sink: unknown command %q", name)
	}
	return fn(s, arg)
}

var commandTable = map[CommandName]CommandFunc{
	CmdSetVideoSize: func(s *Sink, arg interface{}) (interface{}, error) {
		sz, ok := arg.(video.Size)
		if !ok {
			return nil, errors.Errorf("sink: %s: want video.Size, got %T", CmdSetVideoSize, arg)
		}
		s.SetVideoSize(sz)
		return nil, nil
	},
	CmdSetNativeTarget: func(s *Sink, arg interface{}) (interface{}, error) {
		if arg == nil {
			s.AttachTarget(nil)
			return nil, nil
		}
		t, ok := arg.(*render.Target)
		if !ok {
			return nil, errors.Errorf("sink: %s: want *render.Target, got %T", CmdSetNativeTarget, arg)
		}
		s.AttachTarget(t)
		return nil, nil
	},
	CmdGetNativeTarget: func(s *Sink, arg interface{}) (interface{}, error) {
		return s.TargetID(), nil
	},
	CmdShowVideo: func(s *Sink, arg interface{}) (interface{}, error) {
		v, ok := arg.(bool)
		if !ok {
			return nil, errors.Errorf("sink: %s: want bool, got %T", CmdShowVideo, arg)
		}
		s.SetVisible(v)
		return nil, nil
	},
	CmdEnableMirroring: func(s *Sink, arg interface{}) (interface{}, error) {
		m, ok := arg.(bool)
		if !ok {
			return nil, errors.Errorf("sink: %s: want bool, got %T", CmdEnableMirroring, arg)
		}
		s.SetMirroring(m)
		return nil, nil
	},
	CmdZoom: func(s *Sink, arg interface{}) (interface{}, error) {
		p, ok := arg.(render.ZoomParams)
		if !ok {
			return nil, errors.Errorf("sink: %s: want render.ZoomParams, got %T", CmdZoom, arg)
		}
		s.Zoom(p)
		return nil, nil
	},
	CmdCallRender: func(s *Sink, arg interface{}) (interface{}, error) {
		s.CallRender()
		return nil, nil
	},
}
