package api

import (
	"context"
	"net/http"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Users lists every principal on the platform.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Keys lists every API key with its usage.
func (c *Client) Keys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.get(ctx, "/admin/keys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateKey issues a new key for ownerID at the given tier.
func (c *Client) CreateKey(ctx context.Context, ownerID, tier string) (*APIKey, error) {
	if err := errors.ValidateID("owner", ownerID); err != nil {
		return nil, err
	}
	switch tier {
	case TierFree, TierPro, TierEnterprise:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown tier %q (want free, pro or enterprise)", tier)
	}
	var key APIKey
	if err := c.send(ctx, http.MethodPost, "/admin/keys", KeyRequest{OwnerID: ownerID, Tier: tier}, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey deactivates the key with the given ID.
func (c *Client) RevokeKey(ctx context.Context, keyID string) error {
	id, err := pathID("key", keyID)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodDelete, "/admin/keys/"+id, nil, nil)
}

// Stats returns platform-wide totals.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.get(ctx, "/admin/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
