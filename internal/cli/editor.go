package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

// editorCommand creates the interactive editor command.
func (c *CLI) editorCommand() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "editor [space-id]",
		Short: "Place anchors interactively",
		Long: `Open the anchor editor in the terminal.

Click an anchor to select it and drag it to move it; the wheel zooms. Arrow
keys nudge the selection by one cell (shift: one grid square). Press s to save
every anchor's position, r to reload, p to pick another space and q to quit.

Without a space ID the first space in the listing is opened.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if width <= 0 {
				width = c.cfg.Editor.Width
			}
			if height <= 0 {
				height = c.cfg.Editor.Height
			}
			space := ""
			if len(args) == 1 {
				space = args[0]
			}

			return c.withClient(ctx, false, func(client *api.Client) error {
				m := newEditorModel(ctx, client, c.Logger, c.cfg.Viewport(), width, height, space)

				// Logs would tear the alternate screen; keep only errors.
				level := c.Logger.GetLevel()
				c.Logger.SetLevel(log.ErrorLevel)
				defer c.Logger.SetLevel(level)

				p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("editor: %w", err)
				}

				switch {
				case m.saving:
					return errors.New(errors.ErrCodeInternal, "editor closed during save; some anchor positions may not have been written")
				case m.state.Dirty:
					printWarning("Unsaved anchor moves were discarded")
				}
				if m.lastSave != nil {
					if err := m.lastSave.Err(); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "canvas width in pixels (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height in pixels (default from config)")
	return cmd
}

// editorClient is what an editor session needs from the platform.
type editorClient interface {
	editor.Source
	editor.Updater
}

const (
	editorHeaderLines = 2
	editorFooterLines = 2
)

// editorModel adapts editor.State to bubbletea. All state changes go through
// State.Apply; platform calls run as tea.Cmds and come back as events.
type editorModel struct {
	ctx    context.Context
	client editorClient
	logger *log.Logger

	state   *editor.State
	pending editor.Effect
	canvasW int
	canvasH int
	grid    termGrid
	picker  *SpacePicker

	saving      bool
	lastSave    *editor.SaveReport
	notice      string
	confirmQuit bool
}

func newEditorModel(ctx context.Context, client editorClient, logger *log.Logger, vp editor.Viewport, width, height int, space string) *editorModel {
	m := &editorModel{
		ctx:     ctx,
		client:  client,
		logger:  logger,
		state:   editor.New(vp),
		canvasW: width,
		canvasH: height,
	}
	if space != "" {
		m.pending = m.state.Apply(editor.SelectSpace{ID: space})
	}
	return m
}

func (m *editorModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchSpaces()}
	if m.pending != nil {
		cmds = append(cmds, m.run(m.pending))
		m.pending = nil
	}
	return tea.Batch(cmds...)
}

func (m *editorModel) fetchSpaces() tea.Cmd {
	return func() tea.Msg { return editor.FetchSpaces(m.ctx, m.client) }
}

// run turns an effect into a command.
func (m *editorModel) run(eff editor.Effect) tea.Cmd {
	switch eff := eff.(type) {
	case editor.LoadAnchors:
		return func() tea.Msg { return editor.Fetch(m.ctx, m.client, eff) }
	}
	return nil
}

func (m *editorModel) save() tea.Cmd {
	anchors := slices.Clone(m.state.Anchors)
	opts := editor.SaveOptions{SpaceID: m.state.SpaceID, Logger: m.logger}
	m.saving = true
	return func() tea.Msg {
		return editor.SaveCompleted{Report: editor.Save(m.ctx, m.client, anchors, opts)}
	}
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rows := msg.Height - editorHeaderLines - editorFooterLines
		m.grid = newTermGrid(m.canvasW, m.canvasH, msg.Width, rows)
		if m.picker != nil {
			*m.picker = m.picker.Update(msg)
		}
	case editor.SpacesLoaded:
		return m, m.run(m.state.Apply(msg))
	case editor.AnchorsLoaded:
		m.state.Apply(msg)
	case editor.SaveCompleted:
		m.saving = false
		m.lastSave = &msg.Report
		m.state.Apply(msg)
	case tea.MouseMsg:
		if m.picker == nil && !m.saving {
			m.mouse(msg)
		}
	case tea.KeyMsg:
		if m.picker != nil {
			return m, m.pick(msg)
		}
		return m.key(msg)
	}
	return m, nil
}

func (m *editorModel) mouse(msg tea.MouseMsg) {
	if m.grid.Cols == 0 {
		return
	}
	row := msg.Y - editorHeaderLines
	if row < 0 || row >= m.grid.Rows {
		if m.state.Dragging {
			m.state.Apply(editor.PointerLeave{})
		}
		return
	}
	at := m.grid.Point(msg.X, row)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.state.Apply(editor.ZoomIn{})
		case tea.MouseButtonWheelDown:
			m.state.Apply(editor.ZoomOut{})
		case tea.MouseButtonLeft:
			m.state.Apply(editor.PointerDown{})
		}
	case tea.MouseActionMotion:
		m.state.Apply(editor.PointerMove{At: at})
	case tea.MouseActionRelease:
		m.state.Apply(editor.PointerUp{})
		m.state.Apply(editor.Click{At: at})
	}
}

func (m *editorModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k != "q" {
		m.confirmQuit = false
	}
	m.notice = ""

	switch k {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.saving {
			m.notice = "Save in progress. Wait for it to finish, or ctrl+c to abort."
			return m, nil
		}
		if m.state.Dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.notice = "Unsaved changes. Press q again to quit, s to save."
			return m, nil
		}
		return m, tea.Quit
	case "+", "=":
		m.state.Apply(editor.ZoomIn{})
	case "-", "_":
		m.state.Apply(editor.ZoomOut{})
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "esc":
		m.state.Apply(editor.SelectAnchor{})
	case "left", "h":
		m.nudge(-m.grid.CellW, 0)
	case "right", "l":
		m.nudge(m.grid.CellW, 0)
	case "up", "k":
		m.nudge(0, -m.grid.CellH)
	case "down", "j":
		m.nudge(0, m.grid.CellH)
	case "shift+left", "H":
		m.nudge(-canvas.GridCell*m.state.Viewport.Scale, 0)
	case "shift+right", "L":
		m.nudge(canvas.GridCell*m.state.Viewport.Scale, 0)
	case "shift+up", "K":
		m.nudge(0, -canvas.GridCell*m.state.Viewport.Scale)
	case "shift+down", "J":
		m.nudge(0, canvas.GridCell*m.state.Viewport.Scale)
	case "r":
		return m, tea.Batch(m.fetchSpaces(), m.run(m.state.Apply(editor.Reload{})))
	case "s":
		switch {
		case m.saving:
			m.notice = "Save already in progress"
		case len(m.state.Anchors) == 0:
			m.notice = "Nothing to save"
		default:
			return m, m.save()
		}
	case "p", "/":
		p := NewSpacePicker(spatial.BuildHierarchy(m.state.Spaces), m.state.SpaceID)
		if m.grid.Rows > 0 {
			p.Height = max(m.grid.Rows-4, 5)
		}
		m.picker = &p
	}
	return m, nil
}

func (m *editorModel) pick(msg tea.KeyMsg) tea.Cmd {
	*m.picker = m.picker.Update(msg)
	if !m.picker.Closed {
		return nil
	}
	selected := m.picker.Selected
	m.picker = nil
	if selected == "" || selected == m.state.SpaceID {
		return nil
	}
	return m.run(m.state.Apply(editor.SelectSpace{ID: selected}))
}

// nudge moves the selection by (dx, dy) screen pixels as a one-step drag.
func (m *editorModel) nudge(dx, dy float64) {
	if m.saving || (dx == 0 && dy == 0) {
		return
	}
	a, ok := m.state.SelectedAnchor()
	if !ok {
		return
	}
	at := m.state.Viewport.Project(a.Position.XY())
	m.state.Apply(editor.PointerDown{})
	m.state.Apply(editor.PointerMove{At: editor.Point{X: at.X + dx, Y: at.Y + dy}})
	m.state.Apply(editor.PointerUp{})
}

// cycle selects the next (dir 1) or previous (dir -1) anchor in list order.
func (m *editorModel) cycle(dir int) {
	n := len(m.state.Anchors)
	if n == 0 {
		return
	}
	i := slices.IndexFunc(m.state.Anchors, func(a editor.Anchor) bool { return a.ID == m.state.Selected })
	switch {
	case i < 0 && dir < 0:
		i = n - 1
	case i < 0:
		i = 0
	default:
		i = (i + dir + n) % n
	}
	m.state.Apply(editor.SelectAnchor{ID: m.state.Anchors[i].ID})
}

func (m *editorModel) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	if m.grid.Cols == 0 {
		b.WriteString(StyleDim.Render("Initializing..."))
		return b.String()
	}
	sc := canvas.Build(m.state, canvas.Options{Width: m.canvasW, Height: m.canvasH})
	b.WriteString(renderTerminal(sc, m.grid))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *editorModel) header() string {
	title := StyleTitle.Render("Anchor Editor")
	if s, ok := m.state.Space(); ok {
		title += "  " + StyleValue.Render(s.Name) + " " + StyleDim.Render(s.ID)
	} else if m.state.SpaceID != "" {
		title += "  " + StyleDim.Render(m.state.SpaceID)
	}
	help := StyleDim.Render("click select · drag move · ←↑↓→ nudge · +/- zoom · tab next · s save · r reload · p space · q quit")
	return title + "\n" + help
}

func (m *editorModel) footer() string {
	parts := []string{
		fmt.Sprintf("%d anchors", len(m.state.Anchors)),
		fmt.Sprintf("zoom %.0f%%", m.state.Viewport.Scale*100),
	}
	if a, ok := m.state.SelectedAnchor(); ok {
		parts = append(parts, fmt.Sprintf("%s %s (%.1f, %.1f)", anchorType(string(a.Type)), a.ID, a.Position.X, a.Position.Y))
	}
	switch {
	case m.saving:
		parts = append(parts, StyleWarning.Render("saving..."))
	case m.state.Loading:
		parts = append(parts, StyleWarning.Render("loading..."))
	case m.state.Dirty:
		parts = append(parts, StyleWarning.Render("● unsaved"))
	}
	line := strings.Join(parts, StyleDim.Render(" · "))

	status := m.state.Status
	if m.notice != "" {
		status = m.notice
	}
	return line + "\n" + StyleDim.Render(status)
}
