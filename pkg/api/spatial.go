package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Spaces lists all spaces. The listing is served from the cache when one is
// configured and the client was not created with WithRefresh(true).
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	var spaces []Space
	err := c.cached(ctx, c.keyer.SpacesKey(), &spaces, func() error {
		return c.get(ctx, "/spatial/spaces", &spaces)
	})
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// Space fetches a single space.
func (c *Client) Space(ctx context.Context, spaceID string) (*Space, error) {
	id, err := pathID("space", spaceID)
	if err != nil {
		return nil, err
	}
	var s Space
	err = c.cached(ctx, c.keyer.SpaceKey(spaceID), &s, func() error {
		return c.get(ctx, "/spatial/space/"+id, &s)
	})
	if err != nil {
		return nil, notFoundAs(err, errors.ErrCodeSpaceNotFound, "space %s not found", spaceID)
	}
	return &s, nil
}

// CreateSpace creates a space and invalidates the cached listing.
func (c *Client) CreateSpace(ctx context.Context, in SpaceInput) (*Space, error) {
	if err := validateSpaceInput(in); err != nil {
		return nil, err
	}
	var s Space
	if err := c.send(ctx, http.MethodPost, "/spatial/space", in, &s); err != nil {
		return nil, err
	}
	c.invalidate(ctx, c.keyer.SpacesKey())
	return &s, nil
}

// UpdateSpace replaces a space's name, origin and parent.
func (c *Client) UpdateSpace(ctx context.Context, spaceID string, in SpaceInput) (*Space, error) {
	id, err := pathID("space", spaceID)
	if err != nil {
		return nil, err
	}
	if err := validateSpaceInput(in); err != nil {
		return nil, err
	}
	var s Space
	if err := c.send(ctx, http.MethodPatch, "/spatial/space/"+id, in, &s); err != nil {
		return nil, notFoundAs(err, errors.ErrCodeSpaceNotFound, "space %s not found", spaceID)
	}
	c.invalidate(ctx, c.keyer.SpacesKey(), c.keyer.SpaceKey(spaceID))
	return &s, nil
}

// AnchorsInSpace fetches the current anchor snapshot of a space. It is never
// cached.
func (c *Client) AnchorsInSpace(ctx context.Context, spaceID string) ([]Anchor, error) {
	id, err := pathID("space", spaceID)
	if err != nil {
		return nil, err
	}
	var anchors []Anchor
	if err := c.get(ctx, "/spatial/space/"+id+"/anchors", &anchors); err != nil {
		return nil, notFoundAs(err, errors.ErrCodeSpaceNotFound, "space %s not found", spaceID)
	}
	return anchors, nil
}

// RegisterAnchor creates an anchor.
func (c *Client) RegisterAnchor(ctx context.Context, r AnchorRegistration) (*Anchor, error) {
	if err := errors.ValidateID("space", r.SpaceID); err != nil {
		return nil, err
	}
	if err := errors.ValidateAnchorType(r.Type); err != nil {
		return nil, err
	}
	if r.Lat != nil && r.Lon != nil {
		if err := errors.ValidateCoordinates(*r.Lat, *r.Lon); err != nil {
			return nil, err
		}
	}
	var a Anchor
	if err := c.send(ctx, http.MethodPost, "/spatial/anchor", r, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAnchor moves an anchor.
func (c *Client) UpdateAnchor(ctx context.Context, anchorID string, u AnchorUpdate) error {
	id, err := pathID("anchor", anchorID)
	if err != nil {
		return err
	}
	if err := c.send(ctx, http.MethodPatch, "/spatial/anchor/"+id, u, nil); err != nil {
		return notFoundAs(err, errors.ErrCodeAnchorNotFound, "anchor %s not found", anchorID)
	}
	return nil
}

// DeleteAnchor removes an anchor.
func (c *Client) DeleteAnchor(ctx context.Context, anchorID string) error {
	id, err := pathID("anchor", anchorID)
	if err != nil {
		return err
	}
	if err := c.send(ctx, http.MethodDelete, "/spatial/anchor/"+id, nil, nil); err != nil {
		return notFoundAs(err, errors.ErrCodeAnchorNotFound, "anchor %s not found", anchorID)
	}
	return nil
}

// Nearby returns anchors close to the given coordinates.
func (c *Client) Nearby(ctx context.Context, lat, lon float64) ([]Anchor, error) {
	if err := errors.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	var anchors []Anchor
	if err := c.get(ctx, "/spatial/nearby?"+q.Encode(), &anchors); err != nil {
		return nil, err
	}
	return anchors, nil
}

// Hierarchy returns a space with its direct children and anchors.
func (c *Client) Hierarchy(ctx context.Context, spaceID string) (*Hierarchy, error) {
	id, err := pathID("space", spaceID)
	if err != nil {
		return nil, err
	}
	var h Hierarchy
	if err := c.get(ctx, "/spatial/hierarchy/"+id, &h); err != nil {
		return nil, notFoundAs(err, errors.ErrCodeSpaceNotFound, "space %s not found", spaceID)
	}
	return &h, nil
}

func validateSpaceInput(in SpaceInput) error {
	if in.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "space name cannot be empty")
	}
	if (in.Lat == nil) != (in.Lon == nil) {
		return errors.New(errors.ErrCodeInvalidInput, "space origin needs both lat and lon")
	}
	if in.Lat != nil {
		if err := errors.ValidateCoordinates(*in.Lat, *in.Lon); err != nil {
			return err
		}
	}
	if in.ParentID != nil && *in.ParentID != "" {
		if err := errors.ValidateID("parent space", *in.ParentID); err != nil {
			return err
		}
	}
	return nil
}

// notFoundAs narrows a generic NOT_FOUND to a resource-specific code.
func notFoundAs(err error, code errors.Code, format string, args ...any) error {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return errors.Wrap(code, err, format, args...)
	}
	return err
}
