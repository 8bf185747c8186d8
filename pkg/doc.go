// Package pkg provides the libraries behind spatialdash, the admin tool for a
// spatial anchor platform.
//
// # Overview
//
// The platform stores spaces (buildings, floors, rooms) in a parent/child
// hierarchy and anchors (image targets, QR codes, GPS points, markers) inside
// them. spatialdash inspects and edits that data and places anchors on a 2D
// canvas. The pkg directory is organized into four areas:
//
//  1. [api], [mockapi] - The platform HTTP client and an in-memory server
//  2. [editor], [spatial] - The canvas editor state machine and the space tree
//  3. [render] - Canvas snapshots (PNG, SVG, PDF) and hierarchy diagrams
//  4. [io] - Portable JSON and YAML bundles of spaces and anchors
//
// Supporting packages: [config] (TOML file plus environment), [cache] (file,
// Redis or no-op response cache), [session] (stored logins), [errors]
// (structured error codes), [httputil] (retry with backoff), [observability]
// (hooks for requests, cache lookups and editor loads) and [buildinfo].
//
// # Architecture
//
// An editor session flows through a single reducer:
//
//	pointer / key input ──► editor.State.Apply ──► Effect (LoadAnchors)
//	                               ▲                      │
//	                               └── AnchorsLoaded ◄── editor.Fetch ◄── api.Client
//
// Every load carries a generation number; results for an older generation
// are discarded, so switching spaces quickly never shows stale anchors.
// [render/canvas] turns the same state into a Scene that the terminal editor,
// the PNG sink and the SVG sink all draw.
//
// # Quick Start
//
// Render a space's canvas to PNG:
//
//	client, _ := api.New("http://localhost:8787", api.WithTokenSource(api.StaticToken(tok)))
//	s := editor.New(editor.DefaultViewport())
//	load := s.Apply(editor.SelectSpace{ID: "space-room-101"}).(editor.LoadAnchors)
//	s.Apply(editor.Fetch(ctx, client, load))
//	png, _ := canvas.RenderPNG(canvas.Build(s, canvas.Options{}))
//
// Export two spaces and import them elsewhere:
//
//	b, _ := io.Export(ctx, src, io.ExportOptions{SpaceIDs: []string{"a", "b"}})
//	report, _ := io.Import(ctx, dst, b, logger)
//
// # Testing
//
//	go test ./pkg/...
//
// Package tests run against [mockapi] servers started with httptest, so no
// platform instance is needed.
//
// [api]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api
// [mockapi]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/mockapi
// [editor]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor
// [spatial]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial
// [render]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render
// [render/canvas]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas
// [io]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/io
// [config]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/config
// [cache]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache
// [session]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/session
// [errors]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/buildinfo
package pkg
