// Package render holds the output stages shared by spatialdash's renderers.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [canvas] draws an editor state as the 2D anchor canvas (PNG or SVG)
//   - [hierarchy] draws the space containment tree with Graphviz (SVG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The hierarchy renderer only
// produces SVG natively and relies on them for PDF and PNG output.
//
//	dot := hierarchy.ToDOT(h, hierarchy.Options{})
//	svg, err := hierarchy.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [canvas]: github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas
// [hierarchy]: github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/hierarchy
package render
