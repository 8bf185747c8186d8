package editor

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability"
)

type saveHooks struct {
	observability.NoopEditorHooks
	saved, failed int
	space         string
}

func (h *saveHooks) OnSaveComplete(_ context.Context, spaceID string, saved, failed int, _ time.Duration) {
	h.space, h.saved, h.failed = spaceID, saved, failed
}

func TestSaveContinuesAfterFailure(t *testing.T) {
	hooks := &saveHooks{}
	observability.SetEditorHooks(hooks)
	defer observability.Reset()

	var buf bytes.Buffer
	logger := log.New(&buf)

	u := &recordingUpdater{fail: map[string]error{"b": stderrors.New("conflict")}}
	anchors := []Anchor{
		{ID: "a", Position: Vec3{X: 10, Y: 20}},
		{ID: "b"},
		{ID: "c", Position: Vec3{X: -50}},
	}
	report := Save(context.Background(), u, anchors, SaveOptions{SpaceID: "room", Logger: logger})

	if diff := cmp.Diff([]string{"a", "b", "c"}, u.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, report.Saved); diff != "" {
		t.Errorf("saved mismatch (-want +got):\n%s", diff)
	}
	if len(report.Failed) != 1 || report.Failed[0].ID != "b" {
		t.Fatalf("failed = %+v", report.Failed)
	}
	if report.OK() {
		t.Error("OK() = true")
	}
	if err := report.Err(); !errors.Is(err, errors.ErrCodeAPI) || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("Err() = %v", err)
	}

	if got := u.got["a"]; got.Lat != 0.1 || got.Lon != 0.2 {
		t.Errorf("a update = %+v", got)
	}
	if !strings.Contains(buf.String(), "anchor=b") {
		t.Errorf("log output missing anchor key: %q", buf.String())
	}
	if hooks.space != "room" || hooks.saved != 2 || hooks.failed != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestSaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := &recordingUpdater{}
	report := Save(ctx, u, []Anchor{{ID: "a"}, {ID: "b"}}, SaveOptions{Logger: log.New(&bytes.Buffer{})})
	if len(u.calls) != 0 {
		t.Errorf("calls after cancel = %v", u.calls)
	}
	if len(report.Failed) != 2 {
		t.Errorf("failed = %+v", report.Failed)
	}
}

func TestSaveEmpty(t *testing.T) {
	report := Save(context.Background(), &recordingUpdater{}, nil, SaveOptions{})
	if !report.OK() || report.Err() != nil {
		t.Errorf("report = %+v", report)
	}
}
