package canvas

import (
	"image/color"
	"math"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
)

// Canvas geometry in pixels and domain units.
const (
	DefaultWidth  = 800
	DefaultHeight = 500

	GridCell    = 50.0
	Radius      = 20.0
	LabelOffset = 30.0
	GlyphSize   = 12.0
	LabelSize   = 10.0
	LineWidth   = 2.0
)

// Options configures the canvas size and background. Zero values select
// the defaults.
type Options struct {
	Width, Height int
	Background    color.Color
}

// Scene is the fully resolved drawing for one frame.
type Scene struct {
	Width, Height int
	Background    color.Color

	// GridX and GridY are the pixel positions of vertical and horizontal
	// grid lines.
	GridX, GridY []float64

	Marks []Mark
}

// Mark is one anchor as drawn.
type Mark struct {
	ID        string
	Center    editor.Point
	Radius    float64
	Colors    Colors
	Glyph     string
	GlyphSize float64
	Label     string
	LabelAt   editor.Point
	LabelSize float64
}

// Build resolves the scene for s.
func Build(s *editor.State, opts Options) Scene {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Background == nil {
		opts.Background = DefaultBackground
	}

	vp := s.Viewport
	cell := GridCell * vp.Scale
	sc := Scene{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: opts.Background,
		GridX:      gridLines(vp.Offset.X, cell, float64(opts.Width)),
		GridY:      gridLines(vp.Offset.Y, cell, float64(opts.Height)),
		Marks:      make([]Mark, 0, len(s.Anchors)),
	}

	for _, a := range s.Anchors {
		c := vp.Project(a.Position.XY())
		sc.Marks = append(sc.Marks, Mark{
			ID:        a.ID,
			Center:    c,
			Radius:    Radius * vp.Scale,
			Colors:    AnchorColors(a, a.ID == s.Selected),
			Glyph:     a.Glyph(),
			GlyphSize: GlyphSize * vp.Scale,
			Label:     a.Label(),
			LabelAt:   editor.Point{X: c.X, Y: c.Y + LabelOffset*vp.Scale},
			LabelSize: LabelSize * vp.Scale,
		})
	}
	return sc
}

// gridLines returns the positions offset mod cell, offset mod cell + cell,
// and so on below limit.
func gridLines(offset, cell, limit float64) []float64 {
	if cell <= 0 {
		return nil
	}
	start := math.Mod(offset, cell)
	if start < 0 {
		start += cell
	}
	var lines []float64
	for p := start; p < limit; p += cell {
		lines = append(lines, p)
	}
	return lines
}
