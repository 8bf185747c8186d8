package io

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Target receives imported spaces and anchors. *api.Client implements it.
type Target interface {
	CreateSpace(ctx context.Context, in api.SpaceInput) (*api.Space, error)
	RegisterAnchor(ctx context.Context, r api.AnchorRegistration) (*api.Anchor, error)
}

// ImportFailure records a bundle item that was not created.
type ImportFailure struct {
	Kind string // "space" or "anchor"
	ID   string // bundle ID
	Err  error
}

// ImportReport summarizes an Import.
type ImportReport struct {
	// Spaces maps bundle space IDs to the IDs the platform assigned.
	Spaces map[string]string

	// Anchors maps bundle anchor IDs to the IDs the platform assigned.
	Anchors map[string]string

	Failed []ImportFailure
}

// OK reports whether every item was created.
func (r *ImportReport) OK() bool { return len(r.Failed) == 0 }

// Import recreates b on the platform. Writes are sequential: spaces in
// parent-first order, then anchors in bundle order. A space that fails takes
// its descendants and their anchors with it; other items are still created.
func Import(ctx context.Context, dst Target, b *Bundle, logger *log.Logger) (*ImportReport, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	report := &ImportReport{
		Spaces:  make(map[string]string, len(b.Spaces)),
		Anchors: make(map[string]string, len(b.Anchors)),
	}
	failed := make(map[string]bool)
	fail := func(kind, id string, err error) {
		logger.Warn("import failed", "kind", kind, "id", id, "err", err)
		report.Failed = append(report.Failed, ImportFailure{Kind: kind, ID: id, Err: err})
	}

	parents := make(map[string]string, len(b.Spaces))
	for _, s := range b.Spaces {
		parents[s.SpaceID] = s.ParentSpaceID
	}

	for _, s := range parentFirst(b.Spaces) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if s.ParentSpaceID == "" && parents[s.SpaceID] != "" {
			logger.Warn("parent cycle, importing as root", "space", s.SpaceID, "parent", parents[s.SpaceID])
		}
		in := api.SpaceInput{Name: s.Name, Lat: s.OriginLat, Lon: s.OriginLon}
		if s.ParentSpaceID != "" {
			parent := s.ParentSpaceID
			if failed[parent] {
				failed[s.SpaceID] = true
				fail("space", s.SpaceID, errors.New(errors.ErrCodeInvalidBundle, "parent space %s was not imported", parent))
				continue
			}
			if created, ok := report.Spaces[parent]; ok {
				parent = created
			}
			in.ParentID = &parent
		}
		created, err := dst.CreateSpace(ctx, in)
		if err != nil {
			failed[s.SpaceID] = true
			fail("space", s.SpaceID, err)
			continue
		}
		report.Spaces[s.SpaceID] = created.ID
	}

	for _, a := range b.Anchors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		spaceID, ok := report.Spaces[a.SpaceID]
		if !ok {
			fail("anchor", a.AnchorID, errors.New(errors.ErrCodeInvalidBundle, "space %s was not imported", a.SpaceID))
			continue
		}
		lat, lon, alt := a.PX/100, a.PY/100, a.PZ
		created, err := dst.RegisterAnchor(ctx, api.AnchorRegistration{
			SpaceID: spaceID,
			Type:    a.Type,
			Payload: a.Payload,
			Lat:     &lat,
			Lon:     &lon,
			Alt:     &alt,
		})
		if err != nil {
			fail("anchor", a.AnchorID, err)
			continue
		}
		report.Anchors[a.AnchorID] = created.ID
	}
	return report, nil
}

// parentFirst orders spaces so that every space whose parent is in the
// bundle comes after that parent. When the remaining spaces only wait on a
// parent cycle, the cycle member that appears first in the bundle loses its
// parent and is placed as a root, which unblocks the rest of the cycle.
func parentFirst(spaces []Space) []Space {
	index := make(map[string]int, len(spaces))
	for i, s := range spaces {
		index[s.SpaceID] = i
	}

	placed := make(map[string]bool, len(spaces))
	out := make([]Space, 0, len(spaces))
	for len(out) < len(spaces) {
		progress := false
		for _, s := range spaces {
			if placed[s.SpaceID] {
				continue
			}
			if _, inBundle := index[s.ParentSpaceID]; !inBundle || placed[s.ParentSpaceID] {
				placed[s.SpaceID] = true
				out = append(out, s)
				progress = true
			}
		}
		if progress {
			continue
		}
		root := spaces[cycleRoot(spaces, index, placed)]
		root.ParentSpaceID = ""
		placed[root.SpaceID] = true
		out = append(out, root)
	}
	return out
}

// cycleRoot returns the lowest index on the parent cycle reached from the
// first unplaced space. Every unplaced space has an unplaced parent in the
// bundle, so following parents must revisit a space.
func cycleRoot(spaces []Space, index map[string]int, placed map[string]bool) int {
	i := slices.IndexFunc(spaces, func(s Space) bool { return !placed[s.SpaceID] })
	seen := make(map[int]bool)
	for !seen[i] {
		seen[i] = true
		i = index[spaces[i].ParentSpaceID]
	}
	lowest := i
	for j := index[spaces[i].ParentSpaceID]; j != i; j = index[spaces[j].ParentSpaceID] {
		lowest = min(lowest, j)
	}
	return lowest
}
