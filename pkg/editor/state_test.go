package editor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// loaded puts s in the state it has after anchors for spaceID arrive.
func loaded(t *testing.T, s *State, spaceID string, anchors ...Anchor) {
	t.Helper()
	eff := s.Apply(SelectSpace{ID: spaceID})
	req, ok := eff.(LoadAnchors)
	if !ok {
		t.Fatalf("SelectSpace effect = %#v, want LoadAnchors", eff)
	}
	s.Apply(AnchorsLoaded{SpaceID: spaceID, Generation: req.Generation, Anchors: anchors})
}

type recordingUpdater struct {
	calls []string
	got   map[string]api.AnchorUpdate
	fail  map[string]error
}

func (r *recordingUpdater) UpdateAnchor(_ context.Context, id string, u api.AnchorUpdate) error {
	r.calls = append(r.calls, id)
	if err := r.fail[id]; err != nil {
		return err
	}
	if r.got == nil {
		r.got = make(map[string]api.AnchorUpdate)
	}
	r.got[id] = u
	return nil
}

func TestClickDragSaveScenario(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a1", Type: TypeImage, Status: StatusActive})

	s.Apply(Click{At: Point{400, 300}})
	if s.Selected != "a1" {
		t.Fatalf("Selected = %q, want a1", s.Selected)
	}

	s.Apply(PointerDown{})
	s.Apply(PointerMove{At: Point{450, 300}})
	s.Apply(PointerUp{})

	a, _ := s.SelectedAnchor()
	if a.Position.X != 50 || a.Position.Y != 0 {
		t.Fatalf("position = %v, want (50, 0)", a.Position)
	}
	if !s.Dirty {
		t.Error("Dirty = false after drag")
	}

	u := &recordingUpdater{}
	report := Save(context.Background(), u, s.Anchors, SaveOptions{SpaceID: "room"})
	if diff := cmp.Diff([]string{"a1"}, u.calls); diff != "" {
		t.Fatalf("update calls mismatch (-want +got):\n%s", diff)
	}
	if got := u.got["a1"]; got.Lat != 0.5 || got.Lon != 0 {
		t.Errorf("update = %+v, want lat 0.5 lon 0", got)
	}

	s.Apply(SaveCompleted{Report: report})
	if s.Dirty {
		t.Error("Dirty still set after successful save")
	}
}

func TestDragWithoutSelectionNeverMoves(t *testing.T) {
	anchors := []Anchor{
		{ID: "a", Position: Vec3{X: 1, Y: 2, Z: 3}},
		{ID: "b", Position: Vec3{X: -4, Y: 5}},
	}
	s := New(DefaultViewport())
	loaded(t, s, "room", anchors...)
	before := append([]Anchor(nil), s.Anchors...)

	events := []Event{
		PointerDown{},
		PointerMove{At: Point{0, 0}},
		PointerMove{At: Point{401, 302}},
		PointerUp{},
		PointerMove{At: Point{900, 900}},
		PointerLeave{},
	}
	for _, ev := range events {
		s.Apply(ev)
	}
	if diff := cmp.Diff(before, s.Anchors); diff != "" {
		t.Errorf("anchors changed (-before +after):\n%s", diff)
	}
	if s.Dirty {
		t.Error("Dirty set without a drag")
	}
}

func TestMoveWithoutDragNeverMoves(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a"})
	s.Apply(Click{At: Point{400, 300}})

	s.Apply(PointerMove{At: Point{500, 500}})
	if a, _ := s.SelectedAnchor(); a.Position != (Vec3{}) {
		t.Errorf("moved without drag: %v", a.Position)
	}

	s.Apply(PointerDown{})
	s.Apply(PointerLeave{})
	s.Apply(PointerMove{At: Point{500, 500}})
	if a, _ := s.SelectedAnchor(); a.Position != (Vec3{}) {
		t.Errorf("moved after pointer left: %v", a.Position)
	}
}

func TestDragOnlyMovesSelected(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room",
		Anchor{ID: "a", Position: Vec3{X: 0, Y: 0, Z: 7}},
		Anchor{ID: "b", Position: Vec3{X: 100, Y: 100}},
	)
	s.Apply(Click{At: Point{400, 300}})
	s.Apply(PointerDown{})
	s.Apply(PointerMove{At: Point{410, 290}})
	s.Apply(PointerMove{At: Point{420, 280}})

	want := []Anchor{
		{ID: "a", Position: Vec3{X: 20, Y: -20, Z: 7}},
		{ID: "b", Position: Vec3{X: 100, Y: 100}},
	}
	if diff := cmp.Diff(want, s.Anchors); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestDragRespectsScale(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a"})
	s.Apply(ZoomIn{})
	s.Apply(Click{At: Point{400, 300}})
	s.Apply(PointerDown{})
	s.Apply(PointerMove{At: Point{400 + 120, 300}})

	a, _ := s.SelectedAnchor()
	if a.Position.X < 99.999 || a.Position.X > 100.001 {
		t.Errorf("X = %v, want 100", a.Position.X)
	}
}

func TestSelectSpaceDiscardsSnapshot(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "a", Anchor{ID: "x"})
	s.Apply(Click{At: Point{400, 300}})
	s.Apply(PointerDown{})

	eff := s.Apply(SelectSpace{ID: "b"})
	if len(s.Anchors) != 0 || s.Selected != "" || s.Dragging || !s.Loading {
		t.Errorf("state after SelectSpace = %+v", s)
	}
	req := eff.(LoadAnchors)
	if req.SpaceID != "b" || req.Generation != s.Generation {
		t.Errorf("effect = %+v", req)
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	s := New(DefaultViewport())
	reqA := s.Apply(SelectSpace{ID: "A"}).(LoadAnchors)
	reqB := s.Apply(SelectSpace{ID: "B"}).(LoadAnchors)

	s.Apply(AnchorsLoaded{SpaceID: "B", Generation: reqB.Generation, Anchors: []Anchor{{ID: "b1"}}})
	s.Apply(AnchorsLoaded{SpaceID: "A", Generation: reqA.Generation, Anchors: []Anchor{{ID: "a1"}}})

	if s.SpaceID != "B" || len(s.Anchors) != 1 || s.Anchors[0].ID != "b1" {
		t.Errorf("state = space %q anchors %+v, want B's", s.SpaceID, s.Anchors)
	}
	if s.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", s.Discarded)
	}
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a"}, Anchor{ID: "b"})

	req := s.Apply(Reload{}).(LoadAnchors)
	if len(s.Anchors) != 2 {
		t.Fatalf("Reload discarded anchors: %+v", s.Anchors)
	}
	s.Apply(AnchorsLoaded{SpaceID: "room", Generation: req.Generation, Err: stderrors.New("boom")})
	if len(s.Anchors) != 2 || s.Loading {
		t.Errorf("after failed reload: anchors=%d loading=%v", len(s.Anchors), s.Loading)
	}
	if s.Status == "" {
		t.Error("Status empty after failed reload")
	}
}

func TestReloadKeepsSelectionWhenStillPresent(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a"}, Anchor{ID: "b", Position: Vec3{X: 200}})
	s.Apply(SelectAnchor{ID: "b"})

	req := s.Apply(Reload{}).(LoadAnchors)
	s.Apply(AnchorsLoaded{SpaceID: "room", Generation: req.Generation, Anchors: []Anchor{{ID: "b"}}})
	if s.Selected != "b" {
		t.Errorf("Selected = %q, want b", s.Selected)
	}

	req = s.Apply(Reload{}).(LoadAnchors)
	s.Apply(AnchorsLoaded{SpaceID: "room", Generation: req.Generation, Anchors: []Anchor{{ID: "c"}}})
	if s.Selected != "" {
		t.Errorf("Selected = %q, want cleared", s.Selected)
	}
}

func TestSpacesLoadedSelectsFirst(t *testing.T) {
	s := New(DefaultViewport())
	eff := s.Apply(SpacesLoaded{Spaces: []api.Space{{ID: "s1"}, {ID: "s2"}}})
	req, ok := eff.(LoadAnchors)
	if !ok || req.SpaceID != "s1" || s.SpaceID != "s1" {
		t.Fatalf("effect = %#v, SpaceID = %q", eff, s.SpaceID)
	}

	if eff := s.Apply(SpacesLoaded{Spaces: []api.Space{{ID: "s2"}}}); eff != nil {
		t.Errorf("second listing re-selected: %#v", eff)
	}
	if sp, ok := s.Space(); ok {
		t.Errorf("Space() = %+v, want missing after listing changed", sp)
	}

	if eff := s.Apply(SpacesLoaded{Err: stderrors.New("offline")}); eff != nil || s.Status == "" {
		t.Errorf("error listing: eff=%#v status=%q", eff, s.Status)
	}
}

func TestSelectAnchorUnknownClears(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room", Anchor{ID: "a"})
	s.Apply(SelectAnchor{ID: "a"})
	s.Apply(SelectAnchor{ID: "zzz"})
	if s.Selected != "" {
		t.Errorf("Selected = %q", s.Selected)
	}
}

func TestSelectionUniqueAcrossClicks(t *testing.T) {
	s := New(DefaultViewport())
	loaded(t, s, "room",
		Anchor{ID: "a", Position: Vec3{X: 0}},
		Anchor{ID: "b", Position: Vec3{X: 100}},
	)
	s.Apply(Click{At: Point{400, 300}})
	s.Apply(Click{At: Point{500, 300}})
	if s.Selected != "b" {
		t.Errorf("Selected = %q, want b", s.Selected)
	}
	s.Apply(Click{At: Point{450, 300}})
	if s.Selected != "" {
		t.Errorf("Selected = %q, want none", s.Selected)
	}
}
