package cli

import (
	"context"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
)

type fakeEditorClient struct {
	mu      sync.Mutex
	spaces  []api.Space
	anchors map[string][]api.Anchor
	updates map[string]api.AnchorUpdate
}

func (f *fakeEditorClient) Spaces(context.Context) ([]api.Space, error) {
	return f.spaces, nil
}

func (f *fakeEditorClient) AnchorsInSpace(_ context.Context, spaceID string) ([]api.Anchor, error) {
	return f.anchors[spaceID], nil
}

func (f *fakeEditorClient) UpdateAnchor(_ context.Context, id string, u api.AnchorUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = make(map[string]api.AnchorUpdate)
	}
	f.updates[id] = u
	return nil
}

func ptr(f float64) *float64 { return &f }

// newTestEditor returns a model on space "room" with two anchors loaded
// and an 80x25 canvas area over an 800x500 canvas.
func newTestEditor(t *testing.T) (*editorModel, *fakeEditorClient) {
	t.Helper()
	client := &fakeEditorClient{
		spaces: []api.Space{{ID: "room", Name: "Room"}},
		anchors: map[string][]api.Anchor{"room": {
			{ID: "origin", Type: "QR", Lat: ptr(0), Lon: ptr(0)},
			{ID: "door", Type: "GPS", Lat: ptr(1.5), Lon: ptr(-0.5)},
		}},
	}
	m := newEditorModel(context.Background(), client, log.New(io.Discard), editor.DefaultViewport(), 800, 500, "room")

	load, ok := m.pending.(editor.LoadAnchors)
	if !ok {
		t.Fatalf("pending effect = %T, want LoadAnchors", m.pending)
	}
	m.pending = nil
	m.Update(editor.Fetch(context.Background(), client, load))
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25 + editorHeaderLines + editorFooterLines})

	if len(m.state.Anchors) != 2 {
		t.Fatalf("loaded %d anchors, want 2", len(m.state.Anchors))
	}
	return m, client
}

func TestEditorKeyboardNudge(t *testing.T) {
	m, _ := newTestEditor(t)

	m.Update(key("right"))
	if m.state.Dirty {
		t.Fatal("nudge without a selection changed state")
	}

	m.Update(key("tab"))
	if m.state.Selected != "origin" {
		t.Fatalf("tab selected %q, want origin", m.state.Selected)
	}
	m.Update(key("right"))
	m.Update(key("down"))

	a, _ := m.state.SelectedAnchor()
	if a.Position.X != 10 || a.Position.Y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", a.Position.X, a.Position.Y)
	}
	if !m.state.Dirty || m.state.Dragging {
		t.Errorf("dirty=%v dragging=%v, want dirty and not dragging", m.state.Dirty, m.state.Dragging)
	}

	m.Update(key("tab"))
	if m.state.Selected != "door" {
		t.Errorf("second tab selected %q, want door", m.state.Selected)
	}
}

func TestEditorMouseDrag(t *testing.T) {
	m, _ := newTestEditor(t)

	// "origin" projects to (400, 300): cell (40, 15), below the header.
	mouse := func(x, y int, action tea.MouseAction) {
		m.Update(tea.MouseMsg{X: x, Y: y + editorHeaderLines, Action: action, Button: tea.MouseButtonLeft})
	}
	mouse(40, 15, tea.MouseActionPress)
	mouse(40, 15, tea.MouseActionRelease)
	if m.state.Selected != "origin" {
		t.Fatalf("click selected %q, want origin", m.state.Selected)
	}

	mouse(40, 15, tea.MouseActionPress)
	mouse(50, 15, tea.MouseActionMotion)
	mouse(50, 15, tea.MouseActionRelease)

	a, _ := m.state.SelectedAnchor()
	if a.ID != "origin" || a.Position.X != 105 || a.Position.Y != 10 {
		t.Errorf("after drag: %s at (%v, %v), want origin at (105, 10)", a.ID, a.Position.X, a.Position.Y)
	}
	if !m.state.Dirty {
		t.Error("drag did not mark the state dirty")
	}

	mouse(0, 0, tea.MouseActionPress)
	mouse(0, 0, tea.MouseActionRelease)
	if m.state.Selected != "" {
		t.Errorf("click on empty canvas kept selection %q", m.state.Selected)
	}
}

func TestEditorSave(t *testing.T) {
	m, client := newTestEditor(t)
	m.Update(key("tab"))
	m.Update(key("right"))

	_, cmd := m.Update(key("s"))
	if cmd == nil || !m.saving {
		t.Fatal("save did not start")
	}
	m.Update(key("right"))
	if a, _ := m.state.SelectedAnchor(); a.Position.X != 10 {
		t.Errorf("nudge during save moved anchor to %v", a.Position.X)
	}

	m.Update(cmd())
	if m.saving || m.state.Dirty {
		t.Errorf("after save: saving=%v dirty=%v", m.saving, m.state.Dirty)
	}
	if got := client.updates["origin"]; got.Lat != 0.1 || got.Lon != 0 {
		t.Errorf("origin update = %+v, want lat 0.1 lon 0", got)
	}
	if _, ok := client.updates["door"]; !ok {
		t.Error("unchanged anchor was not written")
	}
	if err := m.lastSave.Err(); err != nil {
		t.Errorf("lastSave.Err() = %v", err)
	}
}

func TestEditorQuitConfirmation(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Update(key("tab"))
	m.Update(key("right"))

	if _, cmd := m.Update(key("q")); cmd != nil {
		t.Fatal("first q with unsaved changes quit")
	}
	if !m.confirmQuit || m.notice == "" {
		t.Error("first q did not ask for confirmation")
	}
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("second q did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("second q returned a command other than tea.Quit")
	}
}

func TestEditorQuitBlockedDuringSave(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Update(key("tab"))
	m.Update(key("right"))

	_, save := m.Update(key("s"))
	if save == nil {
		t.Fatal("save did not start")
	}
	for range 2 {
		if _, cmd := m.Update(key("q")); cmd != nil {
			t.Fatal("q quit while a save was in flight")
		}
	}
	if m.notice == "" {
		t.Error("blocked quit left no notice")
	}

	m.Update(save())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q after the save completed did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q returned a command other than tea.Quit")
	}
}

func TestEditorDiscardsStaleLoad(t *testing.T) {
	m, client := newTestEditor(t)

	_, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("reload returned no command")
	}
	stale := editor.AnchorsLoaded{SpaceID: "room", Generation: m.state.Generation - 1}
	m.Update(stale)
	if m.state.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", m.state.Discarded)
	}
	if !m.state.Loading || len(m.state.Anchors) != 2 {
		t.Errorf("stale load changed state: loading=%v anchors=%d", m.state.Loading, len(m.state.Anchors))
	}

	m.Update(editor.Fetch(context.Background(), client, editor.LoadAnchors{SpaceID: "room", Generation: m.state.Generation}))
	if m.state.Loading {
		t.Error("current load left the state loading")
	}
}

func TestEditorPickerSwitchesSpace(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Update(editor.SpacesLoaded{Spaces: []api.Space{{ID: "room"}, {ID: "hall"}}})

	m.Update(key("p"))
	if m.picker == nil {
		t.Fatal("p did not open the picker")
	}
	m.Update(key("down"))
	_, cmd := m.Update(key("enter"))
	if m.picker != nil {
		t.Error("picker still open after enter")
	}
	if cmd == nil || m.state.SpaceID != "hall" || len(m.state.Anchors) != 0 {
		t.Errorf("space=%q anchors=%d cmd=%v, want hall with no anchors and a load", m.state.SpaceID, len(m.state.Anchors), cmd != nil)
	}
}
