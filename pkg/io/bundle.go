package io

import (
	"time"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// BundleVersion is the only bundle version this package reads and writes.
const BundleVersion = "1.0"

// Bundle is a portable snapshot of spaces and anchors.
type Bundle struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Spaces     []Space   `json:"spaces" yaml:"spaces"`
	Anchors    []Anchor  `json:"anchors" yaml:"anchors"`
	Layers     []Layer   `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// Space is a bundled space.
type Space struct {
	SpaceID       string   `json:"space_id" yaml:"space_id"`
	Name          string   `json:"name" yaml:"name"`
	ParentSpaceID string   `json:"parent_space_id,omitempty" yaml:"parent_space_id,omitempty"`
	OriginLat     *float64 `json:"origin_lat,omitempty" yaml:"origin_lat,omitempty"`
	OriginLon     *float64 `json:"origin_lon,omitempty" yaml:"origin_lon,omitempty"`
}

// Anchor is a bundled anchor with its position in domain units.
type Anchor struct {
	AnchorID string  `json:"anchor_id" yaml:"anchor_id"`
	SpaceID  string  `json:"space_id" yaml:"space_id"`
	Type     string  `json:"type" yaml:"type"`
	PX       float64 `json:"px" yaml:"px"`
	PY       float64 `json:"py" yaml:"py"`
	PZ       float64 `json:"pz" yaml:"pz"`
	Payload  string  `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Layer is carried through bundles unchanged; the platform has no layer API.
type Layer struct {
	LayerID   string `json:"layer_id" yaml:"layer_id"`
	Name      string `json:"name" yaml:"name"`
	IsVisible bool   `json:"is_visible" yaml:"is_visible"`
}

// Validate checks the bundle's internal consistency.
func Validate(b *Bundle) error {
	if b.Version != BundleVersion {
		return errors.New(errors.ErrCodeInvalidBundle, "unsupported bundle version %q (want %s)", b.Version, BundleVersion)
	}

	spaces := make(map[string]bool, len(b.Spaces))
	for _, s := range b.Spaces {
		if s.SpaceID == "" {
			return errors.New(errors.ErrCodeInvalidBundle, "space %q has no space_id", s.Name)
		}
		if spaces[s.SpaceID] {
			return errors.New(errors.ErrCodeInvalidBundle, "duplicate space %s", s.SpaceID)
		}
		if s.Name == "" {
			return errors.New(errors.ErrCodeInvalidBundle, "space %s has no name", s.SpaceID)
		}
		if (s.OriginLat == nil) != (s.OriginLon == nil) {
			return errors.New(errors.ErrCodeInvalidBundle, "space %s has only one origin coordinate", s.SpaceID)
		}
		spaces[s.SpaceID] = true
	}

	anchors := make(map[string]bool, len(b.Anchors))
	for _, a := range b.Anchors {
		if a.AnchorID == "" {
			return errors.New(errors.ErrCodeInvalidBundle, "anchor in space %s has no anchor_id", a.SpaceID)
		}
		if anchors[a.AnchorID] {
			return errors.New(errors.ErrCodeInvalidBundle, "duplicate anchor %s", a.AnchorID)
		}
		anchors[a.AnchorID] = true
		if err := errors.ValidateAnchorType(a.Type); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidBundle, err, "anchor %s", a.AnchorID)
		}
		if !spaces[a.SpaceID] {
			return errors.New(errors.ErrCodeInvalidBundle, "anchor %s references space %q which is not in the bundle", a.AnchorID, a.SpaceID)
		}
	}
	return nil
}
