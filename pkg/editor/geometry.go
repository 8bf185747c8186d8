package editor

import "math"

// Viewport defaults.
const (
	DefaultOffsetX = 400
	DefaultOffsetY = 300
	DefaultScale   = 1.0
	ZoomStep       = 1.2
	MinScale       = 0.1
	MaxScale       = 10.0
)

// Point is a 2D coordinate, in screen pixels or domain units depending on
// context.
type Point struct {
	X, Y float64
}

// Vec3 is an anchor position in domain units.
type Vec3 struct {
	X, Y, Z float64
}

// XY drops the Z component.
func (v Vec3) XY() Point { return Point{v.X, v.Y} }

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Viewport maps domain coordinates to screen pixels. The zero value is not
// usable; start from [DefaultViewport].
type Viewport struct {
	Offset   Point
	Scale    float64
	MinScale float64
	MaxScale float64
}

// DefaultViewport returns the viewport every editor session starts with.
func DefaultViewport() Viewport {
	return Viewport{
		Offset:   Point{DefaultOffsetX, DefaultOffsetY},
		Scale:    DefaultScale,
		MinScale: MinScale,
		MaxScale: MaxScale,
	}
}

// Project converts a domain point to screen pixels.
func (v Viewport) Project(p Point) Point {
	return Point{
		X: v.Offset.X + p.X*v.Scale,
		Y: v.Offset.Y + p.Y*v.Scale,
	}
}

// Unproject converts screen pixels to a domain point.
func (v Viewport) Unproject(p Point) Point {
	return Point{
		X: (p.X - v.Offset.X) / v.Scale,
		Y: (p.Y - v.Offset.Y) / v.Scale,
	}
}

// ZoomIn returns v with its scale multiplied by ZoomStep, clamped to the
// viewport's bounds.
func (v Viewport) ZoomIn() Viewport {
	v.Scale = v.Clamp(v.Scale * ZoomStep)
	return v
}

// ZoomOut returns v with its scale divided by ZoomStep, clamped to the
// viewport's bounds.
func (v Viewport) ZoomOut() Viewport {
	v.Scale = v.Clamp(v.Scale / ZoomStep)
	return v
}

// Clamp limits s to the viewport's scale range.
func (v Viewport) Clamp(s float64) float64 {
	lo, hi := v.MinScale, v.MaxScale
	if lo <= 0 {
		lo = MinScale
	}
	if hi <= 0 {
		hi = MaxScale
	}
	return min(max(s, lo), hi)
}
