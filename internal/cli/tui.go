package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SpacePicker - Interactive space selection
// =============================================================================

// SpacePicker is a scrolling, indented list of the space tree. It is
// embedded in the editor model rather than run as its own program.
type SpacePicker struct {
	Entries  []spatial.Entry
	Cursor   int
	Height   int
	Offset   int
	Selected string // set when the user confirms
	Closed   bool   // set when the user confirms or cancels
}

// NewSpacePicker creates a picker over h with the cursor on current.
func NewSpacePicker(h *spatial.Hierarchy, current string) SpacePicker {
	p := SpacePicker{Entries: h.Flatten(), Height: 15}
	for i, e := range p.Entries {
		if e.Node.ID() == current {
			p.Cursor = i
			break
		}
	}
	p.scroll()
	return p
}

// Update handles navigation keys.
func (p SpacePicker) Update(msg tea.Msg) SpacePicker {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			p.Closed = true
		case "up", "k":
			if p.Cursor > 0 {
				p.Cursor--
			}
		case "down", "j":
			if p.Cursor < len(p.Entries)-1 {
				p.Cursor++
			}
		case "home", "g":
			p.Cursor = 0
		case "end", "G":
			p.Cursor = max(len(p.Entries)-1, 0)
		case "enter":
			if len(p.Entries) > 0 {
				p.Selected = p.Entries[p.Cursor].Node.ID()
			}
			p.Closed = true
		}
	case tea.WindowSizeMsg:
		p.Height = max(msg.Height-6, 5)
	}
	p.scroll()
	return p
}

func (p *SpacePicker) scroll() {
	if p.Cursor < p.Offset {
		p.Offset = p.Cursor
	}
	if p.Cursor >= p.Offset+p.Height {
		p.Offset = p.Cursor - p.Height + 1
	}
}

// View renders the picker.
func (p SpacePicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Space"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc cancel"))
	b.WriteString("\n\n")

	if len(p.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  no spaces"))
		return b.String()
	}

	end := min(p.Offset+p.Height, len(p.Entries))
	for i := p.Offset; i < end; i++ {
		e := p.Entries[i]
		cursor := "  "
		if i == p.Cursor {
			cursor = "▸ "
		}
		name := e.Node.Space.Name
		if name == "" {
			name = e.Node.ID()
		}
		line := cursor + strings.Repeat("  ", e.Depth) + name
		if cnt := e.Node.Space.Count; cnt != nil {
			line += listDimStyle.Render(fmt.Sprintf("  %d anchors", cnt.Anchors))
		}
		if i == p.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", p.Cursor+1, len(p.Entries))))
	return b.String()
}
