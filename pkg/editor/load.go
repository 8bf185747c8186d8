package editor

import (
	"context"
	"time"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability"
)

// Source provides the data an editor session reads. *api.Client implements
// it.
type Source interface {
	Spaces(ctx context.Context) ([]api.Space, error)
	AnchorsInSpace(ctx context.Context, spaceID string) ([]api.Anchor, error)
}

// FetchSpaces loads the space listing.
func FetchSpaces(ctx context.Context, src Source) SpacesLoaded {
	spaces, err := src.Spaces(ctx)
	return SpacesLoaded{Spaces: spaces, Err: err}
}

// Fetch runs a LoadAnchors effect. It is safe to call from any goroutine;
// the result must be applied on the event loop.
func Fetch(ctx context.Context, src Source, req LoadAnchors) AnchorsLoaded {
	hooks := observability.Editor()
	hooks.OnLoadStart(ctx, req.SpaceID, req.Generation)
	start := time.Now()

	list, err := src.AnchorsInSpace(ctx, req.SpaceID)
	ev := AnchorsLoaded{SpaceID: req.SpaceID, Generation: req.Generation, Err: err}
	if err == nil {
		ev.Anchors = FromAPIList(list)
	}

	hooks.OnLoadComplete(ctx, req.SpaceID, len(ev.Anchors), time.Since(start), err)
	return ev
}
