package io

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// ExportConcurrency bounds parallel anchor fetches during Export.
const ExportConcurrency = 4

// ExportOptions configures Export.
type ExportOptions struct {
	// SpaceIDs selects the spaces to export; empty exports every space.
	SpaceIDs []string

	// Now overrides the exported_at clock.
	Now func() time.Time
}

// Export builds a bundle from the platform. Spaces keep listing order and
// anchors are grouped by space in the same order. Deleted anchors are skipped. The first failed fetch
// cancels the rest and is returned.
func Export(ctx context.Context, src editor.Source, opts ExportOptions) (*Bundle, error) {
	all, err := src.Spaces(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := selectSpaces(all, opts.SpaceIDs)
	if err != nil {
		return nil, err
	}

	perSpace := make([][]api.Anchor, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ExportConcurrency)
	for i, s := range selected {
		g.Go(func() error {
			anchors, err := src.AnchorsInSpace(gctx, s.ID)
			if err != nil {
				return err
			}
			perSpace[i] = anchors
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	b := &Bundle{
		Version:    BundleVersion,
		ExportedAt: now().UTC(),
		Spaces:     make([]Space, 0, len(selected)),
		Anchors:    []Anchor{},
	}
	for i, s := range selected {
		b.Spaces = append(b.Spaces, Space{
			SpaceID:       s.ID,
			Name:          s.Name,
			ParentSpaceID: s.ParentID,
			OriginLat:     s.Lat,
			OriginLon:     s.Lon,
		})
		for _, a := range perSpace[i] {
			e := editor.FromAPI(a)
			if e.Status == editor.StatusDeleted {
				continue
			}
			b.Anchors = append(b.Anchors, Anchor{
				AnchorID: e.ID,
				SpaceID:  s.ID,
				Type:     string(e.Type),
				PX:       e.Position.X,
				PY:       e.Position.Y,
				PZ:       e.Position.Z,
				Payload:  e.Payload,
			})
		}
	}
	return b, nil
}

func selectSpaces(all []api.Space, ids []string) ([]api.Space, error) {
	if len(ids) == 0 {
		return all, nil
	}
	out := make([]api.Space, 0, len(ids))
	for _, s := range all {
		if slices.Contains(ids, s.ID) {
			out = append(out, s)
		}
	}
	for _, id := range ids {
		if !slices.ContainsFunc(out, func(s api.Space) bool { return s.ID == id }) {
			return nil, errors.New(errors.ErrCodeSpaceNotFound, "space %s not found", id)
		}
	}
	return out, nil
}
