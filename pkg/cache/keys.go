package cache

// Keyer builds cache keys for platform resources.
type Keyer interface {
	// SpacesKey is the key for the full space listing.
	SpacesKey() string

	// SpaceKey is the key for a single space record.
	SpaceKey(spaceID string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer with no prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SpacesKey() string { return "spatial:spaces" }

// SpaceKey hashes the ID so that arbitrary IDs map to fixed-length keys.
func (DefaultKeyer) SpaceKey(spaceID string) string {
	return hashKey("spatial:space", spaceID)
}

var _ Keyer = DefaultKeyer{}
