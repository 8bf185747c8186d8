package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas"
)

// termGrid maps canvas pixels onto terminal cells. Each cell covers
// CellW x CellH pixels; a cell's pixel position is its center.
type termGrid struct {
	Cols, Rows   int
	CellW, CellH float64
}

func newTermGrid(width, height, cols, rows int) termGrid {
	cols, rows = max(cols, 1), max(rows, 1)
	return termGrid{
		Cols:  cols,
		Rows:  rows,
		CellW: float64(width) / float64(cols),
		CellH: float64(height) / float64(rows),
	}
}

// Point returns the canvas pixel at the center of cell (col, row).
func (g termGrid) Point(col, row int) editor.Point {
	return editor.Point{
		X: (float64(col) + 0.5) * g.CellW,
		Y: (float64(row) + 0.5) * g.CellH,
	}
}

// Cell returns the cell containing canvas pixel p, and whether it is on
// screen.
func (g termGrid) Cell(p editor.Point) (col, row int, ok bool) {
	col = int(math.Floor(p.X / g.CellW))
	row = int(math.Floor(p.Y / g.CellH))
	return col, row, col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

type termCell struct {
	ch    string
	style lipgloss.Style
	set   bool
}

var (
	styleGridDot  = lipgloss.NewStyle().Foreground(colorDim)
	styleMarkText = lipgloss.NewStyle().Foreground(colorGray)
)

// renderTerminal draws a canvas scene as text: grid intersections as dots,
// each anchor as its glyph on its type color and its label underneath.
// Later anchors overwrite earlier ones that share a cell.
func renderTerminal(sc canvas.Scene, g termGrid) string {
	cells := make([][]termCell, g.Rows)
	for r := range cells {
		cells[r] = make([]termCell, g.Cols)
	}
	put := func(col, row int, ch string, style lipgloss.Style) {
		if col >= 0 && col < g.Cols && row >= 0 && row < g.Rows {
			cells[row][col] = termCell{ch: ch, style: style, set: true}
		}
	}

	for _, y := range sc.GridY {
		for _, x := range sc.GridX {
			if col, row, ok := g.Cell(editor.Point{X: x, Y: y}); ok {
				put(col, row, "·", styleGridDot)
			}
		}
	}

	for _, m := range sc.Marks {
		col, row, _ := g.Cell(m.Center)
		glyph := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(termColor(m.Colors.Stroke))
		put(col, row, m.Glyph, glyph)

		if m.Label == "" {
			continue
		}
		lcol, lrow, _ := g.Cell(m.LabelAt)
		if lrow == row {
			lrow++
		}
		label := []rune(m.Label)
		start := lcol - len(label)/2
		for i, r := range label {
			put(start+i, lrow, string(r), styleMarkText)
		}
	}

	var b strings.Builder
	for r, line := range cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, c := range line {
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(c.ch))
		}
	}
	return b.String()
}
