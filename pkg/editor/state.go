package editor

import (
	"fmt"
	"slices"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// State is the complete editor state. Mutate it only through Apply.
type State struct {
	Viewport Viewport

	// Spaces is the flat space listing, in server order.
	Spaces []api.Space

	// SpaceID is the selected space; empty before the first selection.
	SpaceID string

	// Generation increases with every anchor load request.
	Generation uint64

	// Anchors is the snapshot of the selected space, in server order.
	Anchors []Anchor

	Selected string
	Dragging bool

	// Loading is true while the request for Generation is outstanding.
	Loading bool

	// Dirty is set by drags and cleared by a fully successful save.
	Dirty bool

	// Status is a one-line description of the last notable outcome.
	Status string

	// Discarded counts load results dropped for carrying an old generation.
	Discarded int
}

// New returns the state of a fresh editor session with the given viewport.
func New(vp Viewport) *State {
	return &State{Viewport: vp}
}

// Event is an input to State.Apply.
type Event interface{ event() }

// Pointer and view events. Positions are screen pixels.
type (
	PointerDown  struct{}
	PointerUp    struct{}
	PointerLeave struct{}
	PointerMove  struct{ At Point }
	Click        struct{ At Point }
	ZoomIn       struct{}
	ZoomOut      struct{}
)

// SelectAnchor selects an anchor by ID without a click, for keyboard
// navigation. An unknown or empty ID clears the selection.
type SelectAnchor struct{ ID string }

// SelectSpace switches to a space, discarding the current anchors.
type SelectSpace struct{ ID string }

// Reload refetches the current space, keeping the anchors on display until
// the new snapshot arrives.
type Reload struct{}

// SpacesLoaded delivers the space listing.
type SpacesLoaded struct {
	Spaces []api.Space
	Err    error
}

// AnchorsLoaded delivers the result of a LoadAnchors effect.
type AnchorsLoaded struct {
	SpaceID    string
	Generation uint64
	Anchors    []Anchor
	Err        error
}

// SaveCompleted delivers the result of Save.
type SaveCompleted struct{ Report SaveReport }

func (PointerDown) event()   {}
func (PointerUp) event()     {}
func (PointerLeave) event()  {}
func (PointerMove) event()   {}
func (Click) event()         {}
func (ZoomIn) event()        {}
func (ZoomOut) event()       {}
func (SelectAnchor) event()  {}
func (SelectSpace) event()   {}
func (Reload) event()        {}
func (SpacesLoaded) event()  {}
func (AnchorsLoaded) event() {}
func (SaveCompleted) event() {}

// Effect is work Apply asks the caller to perform.
type Effect interface{ effect() }

// LoadAnchors asks the caller to fetch the anchors of SpaceID and deliver
// them as AnchorsLoaded with the same Generation.
type LoadAnchors struct {
	SpaceID    string
	Generation uint64
}

func (LoadAnchors) effect() {}

// Apply advances the state by one event. The returned effect is nil unless
// the event requires a fetch.
func (s *State) Apply(ev Event) Effect {
	switch ev := ev.(type) {
	case PointerDown:
		s.Dragging = true
	case PointerUp, PointerLeave:
		s.Dragging = false
	case PointerMove:
		s.drag(ev.At)
	case Click:
		s.Selected = ""
		if i, ok := HitTest(s.Anchors, s.Viewport.Unproject(ev.At)); ok {
			s.Selected = s.Anchors[i].ID
		}
	case ZoomIn:
		s.Viewport = s.Viewport.ZoomIn()
	case ZoomOut:
		s.Viewport = s.Viewport.ZoomOut()
	case SelectAnchor:
		s.Selected = ""
		if s.indexOf(ev.ID) >= 0 {
			s.Selected = ev.ID
		}
	case SelectSpace:
		return s.selectSpace(ev.ID)
	case Reload:
		if s.SpaceID == "" {
			return nil
		}
		return s.requestLoad()
	case SpacesLoaded:
		if ev.Err != nil {
			s.Status = fmt.Sprintf("failed to load spaces: %s", errors.UserMessage(ev.Err))
			return nil
		}
		s.Spaces = ev.Spaces
		if s.SpaceID == "" && len(ev.Spaces) > 0 {
			return s.selectSpace(ev.Spaces[0].ID)
		}
	case AnchorsLoaded:
		s.anchorsLoaded(ev)
	case SaveCompleted:
		s.saveCompleted(ev.Report)
	}
	return nil
}

// SelectedAnchor returns the selected anchor, if any.
func (s *State) SelectedAnchor() (Anchor, bool) {
	if i := s.indexOf(s.Selected); i >= 0 {
		return s.Anchors[i], true
	}
	return Anchor{}, false
}

// Space returns the selected space record, if it is in the listing.
func (s *State) Space() (api.Space, bool) {
	i := slices.IndexFunc(s.Spaces, func(sp api.Space) bool { return sp.ID == s.SpaceID })
	if i < 0 {
		return api.Space{}, false
	}
	return s.Spaces[i], true
}

func (s *State) drag(at Point) {
	if !s.Dragging || s.Selected == "" {
		return
	}
	i := s.indexOf(s.Selected)
	if i < 0 {
		return
	}
	p := s.Viewport.Unproject(at)
	s.Anchors[i].Position.X = p.X
	s.Anchors[i].Position.Y = p.Y
	s.Dirty = true
}

func (s *State) selectSpace(id string) Effect {
	s.SpaceID = id
	s.Anchors = nil
	s.Selected = ""
	s.Dragging = false
	s.Dirty = false
	if id == "" {
		s.Loading = false
		s.Generation++
		return nil
	}
	return s.requestLoad()
}

func (s *State) requestLoad() Effect {
	s.Generation++
	s.Loading = true
	return LoadAnchors{SpaceID: s.SpaceID, Generation: s.Generation}
}

func (s *State) anchorsLoaded(ev AnchorsLoaded) {
	if ev.Generation != s.Generation {
		s.Discarded++
		return
	}
	s.Loading = false
	if ev.Err != nil {
		s.Status = fmt.Sprintf("failed to load anchors: %s", errors.UserMessage(ev.Err))
		return
	}
	s.Anchors = ev.Anchors
	s.Dirty = false
	s.Dragging = false
	if s.indexOf(s.Selected) < 0 {
		s.Selected = ""
	}
	s.Status = fmt.Sprintf("%d anchors", len(ev.Anchors))
}

func (s *State) saveCompleted(r SaveReport) {
	if len(r.Failed) == 0 {
		s.Dirty = false
		s.Status = fmt.Sprintf("saved %d anchors", len(r.Saved))
		return
	}
	s.Status = fmt.Sprintf("saved %d anchors, %d failed", len(r.Saved), len(r.Failed))
}

func (s *State) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.Anchors, func(a Anchor) bool { return a.ID == id })
}
