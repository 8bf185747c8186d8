package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas"
)

func TestTermGrid(t *testing.T) {
	g := newTermGrid(800, 500, 80, 25)
	if g.CellW != 10 || g.CellH != 20 {
		t.Fatalf("cell size = %vx%v, want 10x20", g.CellW, g.CellH)
	}

	for _, cell := range [][2]int{{0, 0}, {3, 2}, {79, 24}} {
		col, row, ok := g.Cell(g.Point(cell[0], cell[1]))
		if !ok || col != cell[0] || row != cell[1] {
			t.Errorf("Cell(Point(%d, %d)) = (%d, %d, %v)", cell[0], cell[1], col, row, ok)
		}
	}

	for _, p := range []editor.Point{{X: -1, Y: 0}, {X: 0, Y: 500}, {X: 800, Y: 10}} {
		if _, _, ok := g.Cell(p); ok {
			t.Errorf("Cell(%v) reported on screen", p)
		}
	}

	if z := newTermGrid(800, 500, 0, 0); z.Cols != 1 || z.Rows != 1 {
		t.Errorf("zero-size grid = %+v, want 1x1", z)
	}
}

func TestRenderTerminal(t *testing.T) {
	g := newTermGrid(800, 500, 80, 25)
	sc := canvas.Scene{
		GridX: []float64{0, 50},
		GridY: []float64{0},
		Marks: []canvas.Mark{{
			ID:      "anchor-door",
			Center:  editor.Point{X: 35, Y: 50},
			Colors:  canvas.AnchorColors(editor.Anchor{Type: editor.TypeQR}, false),
			Glyph:   "Q",
			Label:   "door",
			LabelAt: editor.Point{X: 35, Y: 80},
		}},
	}

	lines := strings.Split(ansi.Strip(renderTerminal(sc, g)), "\n")
	if len(lines) != 25 {
		t.Fatalf("got %d rows, want 25", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 80 {
			t.Fatalf("row %d has %d cells, want 80", i, n)
		}
	}

	row0 := []rune(lines[0])
	if row0[0] != '·' || row0[5] != '·' || row0[1] != ' ' {
		t.Errorf("grid row = %q", lines[0])
	}
	if got := []rune(lines[2])[3]; got != 'Q' {
		t.Errorf("glyph cell = %q, want Q", got)
	}
	if !strings.Contains(lines[4], "door") {
		t.Errorf("label row = %q, want it to contain door", lines[4])
	}
}

func TestRenderTerminalLabelBelowGlyph(t *testing.T) {
	g := newTermGrid(800, 500, 80, 25)
	sc := canvas.Scene{Marks: []canvas.Mark{{
		Center:  editor.Point{X: 35, Y: 50},
		Glyph:   "G",
		Label:   "x",
		LabelAt: editor.Point{X: 35, Y: 55},
	}}}

	lines := strings.Split(ansi.Strip(renderTerminal(sc, g)), "\n")
	if strings.Contains(lines[2], "x") {
		t.Errorf("label overwrote the glyph row: %q", lines[2])
	}
	if !strings.Contains(lines[3], "x") {
		t.Errorf("label not moved to the next row: %q", lines[3])
	}
}
