package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

func pickerSpaces() *spatial.Hierarchy {
	return spatial.BuildHierarchy([]api.Space{
		{ID: "building", Name: "Building"},
		{ID: "floor", Name: "Floor 1", ParentID: "building"},
		{ID: "room", Name: "Room 101", ParentID: "floor", Count: &api.SpaceCount{Anchors: 4}},
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSpacePickerNavigation(t *testing.T) {
	p := NewSpacePicker(pickerSpaces(), "floor")
	if p.Cursor != 1 {
		t.Fatalf("initial cursor = %d, want 1", p.Cursor)
	}

	p = p.Update(key("down"))
	p = p.Update(key("down"))
	if p.Cursor != 2 {
		t.Errorf("cursor past end = %d, want 2", p.Cursor)
	}
	p = p.Update(key("g"))
	if p.Cursor != 0 {
		t.Errorf("home cursor = %d, want 0", p.Cursor)
	}
	p = p.Update(key("G"))
	p = p.Update(key("enter"))
	if !p.Closed || p.Selected != "room" {
		t.Errorf("after enter: closed=%v selected=%q, want closed room", p.Closed, p.Selected)
	}
}

func TestSpacePickerCancel(t *testing.T) {
	p := NewSpacePicker(pickerSpaces(), "")
	p = p.Update(key("esc"))
	if !p.Closed || p.Selected != "" {
		t.Errorf("after esc: closed=%v selected=%q", p.Closed, p.Selected)
	}
}

func TestSpacePickerScroll(t *testing.T) {
	p := NewSpacePicker(pickerSpaces(), "")
	p = p.Update(tea.WindowSizeMsg{Width: 80, Height: 7})
	if p.Height != 5 {
		t.Fatalf("height = %d, want minimum 5", p.Height)
	}
	p.Height = 2
	p = p.Update(key("G"))
	if p.Offset != 1 {
		t.Errorf("offset = %d, want 1", p.Offset)
	}
}

func TestSpacePickerView(t *testing.T) {
	view := ansi.Strip(NewSpacePicker(pickerSpaces(), "room").View())
	for _, want := range []string{"Select Space", "Building", "    Room 101", "4 anchors", "[3/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := NewSpacePicker(spatial.BuildHierarchy(nil), "").View()
	if !strings.Contains(empty, "no spaces") {
		t.Errorf("empty view = %q", empty)
	}
}
