package cache

// ScopedKeyer wraps a Keyer with a prefix so entries fetched from different
// platform endpoints never collide.
//
// Example usage:
//
//	local := NewScopedKeyer(NewDefaultKeyer(), "http://localhost:8787|")
//	prod := NewScopedKeyer(NewDefaultKeyer(), "https://api.example.com|")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SpacesKey returns the prefixed space listing key.
func (k *ScopedKeyer) SpacesKey() string {
	return k.prefix + k.inner.SpacesKey()
}

// SpaceKey returns the prefixed single-space key.
func (k *ScopedKeyer) SpaceKey(spaceID string) string {
	return k.prefix + k.inner.SpaceKey(spaceID)
}
