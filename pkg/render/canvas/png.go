package canvas

import (
	"bytes"
	"fmt"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var fonts = sync.OnceValues(func() (*fontSet, error) {
	mono, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse mono font: %w", err)
	}
	sans, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse sans font: %w", err)
	}
	return &fontSet{mono: mono, sans: sans}, nil
})

type fontSet struct {
	mono, sans *truetype.Font
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderPNG rasterizes the scene.
func RenderPNG(sc Scene) ([]byte, error) {
	fs, err := fonts()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(sc.Background)
	dc.Clear()

	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for _, x := range sc.GridX {
		dc.DrawLine(x, 0, x, float64(sc.Height))
		dc.Stroke()
	}
	for _, y := range sc.GridY {
		dc.DrawLine(0, y, float64(sc.Width), y)
		dc.Stroke()
	}

	for _, m := range sc.Marks {
		dc.DrawCircle(m.Center.X, m.Center.Y, m.Radius)
		dc.SetColor(m.Colors.Fill)
		dc.FillPreserve()
		dc.SetColor(m.Colors.Stroke)
		dc.SetLineWidth(LineWidth)
		dc.Stroke()

		dc.SetFontFace(face(fs.mono, m.GlyphSize))
		dc.SetColor(glyphColor)
		dc.DrawStringAnchored(m.Glyph, m.Center.X, m.Center.Y, 0.5, 0.5)

		dc.SetFontFace(face(fs.sans, m.LabelSize))
		dc.SetColor(labelColor)
		dc.DrawStringAnchored(m.Label, m.LabelAt.X, m.LabelAt.Y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
