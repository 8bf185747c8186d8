package editor

import (
	"unicode/utf8"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// geoFactor converts between geographic degrees and domain units.
const geoFactor = 100

// AnchorType identifies how an anchor is recognized in the world.
type AnchorType string

const (
	TypeImage  AnchorType = "IMAGE"
	TypeQR     AnchorType = "QR"
	TypeGPS    AnchorType = "GPS"
	TypeMarker AnchorType = "MARKER"
)

// Status is an anchor's lifecycle state.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Anchor is an editable anchor in domain units.
type Anchor struct {
	ID       string
	Type     AnchorType
	Position Vec3
	Payload  string
	Status   Status
}

// FromAPI converts a platform anchor. Missing coordinates read as zero.
func FromAPI(a api.Anchor) Anchor {
	return Anchor{
		ID:   a.ID,
		Type: AnchorType(a.Type),
		Position: Vec3{
			X: deref(a.Lat) * geoFactor,
			Y: deref(a.Lon) * geoFactor,
			Z: deref(a.Alt),
		},
		Payload: a.Payload,
		Status:  Status(a.Status),
	}
}

// FromAPIList converts a platform anchor list, preserving order.
func FromAPIList(list []api.Anchor) []Anchor {
	out := make([]Anchor, len(list))
	for i, a := range list {
		out[i] = FromAPI(a)
	}
	return out
}

// Update returns the position write for a.
func (a Anchor) Update() api.AnchorUpdate {
	return api.AnchorUpdate{
		Lat: a.Position.X / geoFactor,
		Lon: a.Position.Y / geoFactor,
	}
}

// Glyph is the one-character type marker drawn inside the anchor.
func (a Anchor) Glyph() string {
	r, size := utf8.DecodeRuneInString(string(a.Type))
	if size == 0 {
		return "?"
	}
	return string(r)
}

// Label is the caption drawn under the anchor: the first 10 characters of
// the payload, or the first 8 of the ID when there is no payload.
func (a Anchor) Label() string {
	if a.Payload != "" {
		return truncate(a.Payload, 10)
	}
	return truncate(a.ID, 8)
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
