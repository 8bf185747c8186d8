package canvas

import (
	"fmt"
	"image/color"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
)

// Colors is the fill and stroke of one anchor circle.
type Colors struct {
	Fill   color.NRGBA
	Stroke color.NRGBA
}

var (
	selectedColors = Colors{nrgba(59, 130, 246, 0.8), hex(0x3B82F6)}
	deletedColors  = Colors{nrgba(239, 68, 68, 0.4), hex(0xEF4444)}
	imageColors    = Colors{nrgba(16, 185, 129, 0.6), hex(0x10B981)}
	qrColors       = Colors{nrgba(139, 92, 246, 0.6), hex(0x8B5CF6)}
	defaultColors  = Colors{nrgba(245, 158, 11, 0.6), hex(0xF59E0B)}

	gridColor  = nrgba(255, 255, 255, 0.05)
	glyphColor = color.NRGBA{255, 255, 255, 255}
	labelColor = nrgba(255, 255, 255, 0.7)

	// DefaultBackground fills the PNG before drawing.
	DefaultBackground = color.NRGBA{17, 24, 39, 255}
)

// AnchorColors picks the colors for a: selection wins over deletion, which
// wins over type.
func AnchorColors(a editor.Anchor, selected bool) Colors {
	switch {
	case selected:
		return selectedColors
	case a.Status == editor.StatusDeleted:
		return deletedColors
	case a.Type == editor.TypeImage:
		return imageColors
	case a.Type == editor.TypeQR:
		return qrColors
	default:
		return defaultColors
	}
}

func nrgba(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{r, g, b, uint8(alpha*255 + 0.5)}
}

func hex(v uint32) color.NRGBA {
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// cssColor formats c as an SVG color with a separate opacity.
func cssColor(c color.NRGBA) (string, float64) {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), float64(c.A) / 255
}
