package sink

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kamrankamilli/govsink/pkg/render"
	"github.com/kamrankamilli/govsink/pkg/video"
)

func TestExecCoversControlSurface(t *testing.T) {
	s, r := newAttachedSink(t, 64, 64)

	if _, err := s.Exec(CmdSetVideoSize, video.Size{Width: 320, Height: 240}); err != nil {
		t.Fatalf("set-video-size: %v", err)
	}
	if st := s.Snapshot(); st.VideoSize != (video.Size{Width: 320, Height: 240}) {
		t.Errorf("video size = %+v", st.VideoSize)
	}

	if _, err := s.Exec(CmdShowVideo, false); err != nil {
		t.Fatalf("show-video: %v", err)
	}
	if s.Snapshot().Visible {
		t.Error("still visible after show-video false")
	}

	if _, err := s.Exec(CmdEnableMirroring, true); err != nil {
		t.Fatalf("enable-mirroring: %v", err)
	}
	if !s.Snapshot().Mirroring {
		t.Error("mirroring not enabled")
	}

	if _, err := s.Exec(CmdZoom, render.ZoomParams{Factor: 3, CenterX: 0.5, CenterY: 0.5}); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	if got := len(r.last().zooms); got != 1 {
		t.Errorf("zoom not forwarded, %d calls", got)
	}

	tgt := render.NewTarget(80, 60)
	if _, err := s.Exec(CmdSetNativeTarget, tgt); err != nil {
		t.Fatalf("set-native-target: %v", err)
	}
	got, err := s.Exec(CmdGetNativeTarget, nil)
	if err != nil {
		t.Fatalf("get-native-target: %v", err)
	}
	if got != tgt.ID {
		t.Errorf("target id = %v, want %v", got, tgt.ID)
	}

	if _, err := s.Exec(CmdSetNativeTarget, nil); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if got, _ := s.Exec(CmdGetNativeTarget, nil); got != uuid.Nil {
		t.Errorf("target id after detach = %v", got)
	}

	// Render with no target attached is a legal no-op.
	if _, err := s.Exec(CmdCallRender, nil); err != nil {
		t.Fatalf("call-render: %v", err)
	}
}

func TestExecRejectsBadArguments(t *testing.T) {
	s := New(&fakeRenderer{})

	cases := []struct {
		name CommandName
		arg  interface{}
	}{
		{CmdSetVideoSize, "320x240"},
		{CmdShowVideo, 1},
		{CmdEnableMirroring, "yes"},
		{CmdZoom, 2.0},
		{CmdSetNativeTarget, render.Target{}},
	}
	for _, c := range cases {
		if _, err := s.Exec(c.name, c.arg); err == nil {
			t.Errorf("%s accepted %T", c.name, c.arg)
		}
	}

	if _, err := s.Exec("rotate", nil); err == nil {
		t.Error("unknown command accepted")
	}
}

func TestCommandsReturnsACopy(t *testing.T) {
	a := Commands()
	b := Commands()
	a[CmdCallRender] = nil
	if b[CmdCallRender] == nil {
		t.Error("mutating one table affected the other")
	}
	if len(a) != 7 {
		t.Errorf("control table has %d entries, want 7", len(a))
	}
}
