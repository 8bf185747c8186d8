// Package canvas draws an editor state the way the dashboard's 2D canvas
// does: a faint grid aligned to the viewport offset, one filled circle per
// anchor colored by selection, status and type, a one-letter type glyph in
// the circle and a short label beneath it.
//
// [Build] computes the scene geometry once; [RenderPNG] rasterizes it with
// gg and the Go fonts, [RenderSVG] writes the same scene as SVG.
//
//	scene := canvas.Build(state, canvas.Options{})
//	png, err := canvas.RenderPNG(scene)
package canvas
