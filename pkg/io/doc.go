// Package io reads, writes, exports and imports space bundles.
//
// # Bundle Format
//
// A bundle is a snapshot of spaces and their anchors:
//
//	{
//	  "version": "1.0",
//	  "exported_at": "2026-02-01T12:00:00Z",
//	  "spaces": [
//	    {"space_id": "b1", "name": "Building A", "origin_lat": 37.77, "origin_lon": -122.42},
//	    {"space_id": "f1", "name": "Floor 1", "parent_space_id": "b1"}
//	  ],
//	  "anchors": [
//	    {"anchor_id": "a1", "space_id": "f1", "type": "IMAGE", "px": 50, "py": 0, "pz": 0}
//	  ]
//	}
//
// Anchor positions are in editor domain units (px = lat*100, py = lon*100,
// pz = alt). The same structure is accepted as YAML; [ReadFile] and
// [WriteFile] pick the encoding from the file extension.
//
// # Validation
//
// [Validate] rejects bundles with an unknown version, duplicate space or
// anchor IDs, unknown anchor types, and anchors whose space is not in the
// bundle. A space's parent may live outside the bundle; it is then expected
// to exist on the target platform.
//
// # Export and Import
//
// [Export] fetches the selected spaces and their anchors from a platform,
// fetching anchor lists concurrently (at most [ExportConcurrency] at a time).
// [Import] recreates a bundle on a platform: spaces first, parents before
// children, then anchors. The platform assigns new IDs; the returned
// [ImportReport] maps bundle IDs to created ones and lists every item that
// could not be created.
package io
