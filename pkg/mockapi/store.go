package mockapi

import (
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// Seeded identifiers.
const (
	AdminUsername = "admin"
	AdminPassword = "admin"

	SeedBuildingID = "space-building"
	SeedFloorID    = "space-floor-1"
	SeedRoomID     = "space-room-101"
)

// nearbyRadius is the search radius of /spatial/nearby, in degrees.
const nearbyRadius = 1.0

type principal struct {
	user     api.User
	password string
}

// store holds all platform state. Slices keep insertion order so listings
// are stable.
type store struct {
	mu sync.Mutex

	users   []*principal
	tokens  map[string]string // token -> principal ID
	spaces  []*api.Space
	anchors []*api.Anchor
	keys    []*api.APIKey
	now     func() time.Time
}

func newStore(now func() time.Time) *store {
	s := &store{tokens: make(map[string]string), now: now}
	s.seed()
	return s
}

func (s *store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *store) seed() {
	s.users = append(s.users, &principal{
		user: api.User{
			PrincipalID: "principal-admin",
			Username:    AdminUsername,
			DisplayName: "Platform Admin",
			Email:       "admin@localhost",
			Role:        "admin",
		},
		password: AdminPassword,
	})

	lat, lon := 37.7749, -122.4194
	s.spaces = append(s.spaces,
		&api.Space{ID: SeedBuildingID, Name: "Building", Lat: &lat, Lon: &lon, IsPublic: true, CreatedAt: s.timestamp()},
		&api.Space{ID: SeedFloorID, Name: "Floor 1", ParentID: SeedBuildingID, CreatedAt: s.timestamp()},
		&api.Space{ID: SeedRoomID, Name: "Room 101", ParentID: SeedFloorID, CreatedAt: s.timestamp()},
	)

	for _, a := range []struct {
		id, typ, payload string
		lat, lon         float64
	}{
		{"anchor-poster", "IMAGE", "lobby-poster.png", 0.5, 0.5},
		{"anchor-door", "QR", "room-101-door", 1.5, -0.5},
		{"anchor-beacon", "GPS", "", -1.0, 1.0},
		{"anchor-desk", "MARKER", "desk", -0.5, -1.5},
	} {
		lat, lon, alt := a.lat, a.lon, 0.0
		s.anchors = append(s.anchors, &api.Anchor{
			ID: a.id, SpaceID: SeedRoomID, Type: a.typ, Payload: a.payload,
			Lat: &lat, Lon: &lon, Alt: &alt, Status: "active", CreatedAt: s.timestamp(),
		})
	}
}

func (s *store) login(username, password string) (string, *api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.users {
		if p.user.Username == username && p.password == password {
			token := uuid.NewString()
			s.tokens[token] = p.user.PrincipalID
			u := p.user
			return token, &u, true
		}
	}
	return "", nil, false
}

func (s *store) register(r api.Registration) (string, *api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.users {
		if p.user.Username == r.Username {
			return "", nil, false
		}
	}
	p := &principal{
		user: api.User{
			PrincipalID: uuid.NewString(),
			Username:    r.Username,
			DisplayName: r.Username,
			Email:       r.Email,
			Role:        "developer",
		},
		password: r.Password,
	}
	s.users = append(s.users, p)
	token := uuid.NewString()
	s.tokens[token] = p.user.PrincipalID
	u := p.user
	return token, &u, true
}

func (s *store) issueToken(token, principalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = principalID
}

func (s *store) principalForToken(token string) (*api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	p := s.findPrincipal(id)
	if p == nil {
		return nil, false
	}
	u := p.user
	return &u, true
}

func (s *store) findPrincipal(id string) *principal {
	for _, p := range s.users {
		if p.user.PrincipalID == id {
			return p
		}
	}
	return nil
}

func (s *store) listUsers() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.User, len(s.users))
	for i, p := range s.users {
		out[i] = p.user
	}
	return out
}

func (s *store) listKeys() []api.APIKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.APIKey, len(s.keys))
	for i, k := range s.keys {
		out[i] = *k
	}
	return out
}

var tierLimits = map[string]int{
	api.TierFree:       10_000,
	api.TierPro:        1_000_000,
	api.TierEnterprise: 100_000_000,
}

func (s *store) createKey(ownerID, tier string) (*api.APIKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPrincipal(ownerID)
	if p == nil {
		return nil, false
	}
	k := &api.APIKey{
		ID:         uuid.NewString(),
		Key:        "sk_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Tier:       tier,
		IsActive:   true,
		LimitMonth: tierLimits[tier],
		CreatedAt:  s.timestamp(),
		Principal:  &api.KeyPrincipal{DisplayName: p.user.DisplayName, Email: p.user.Email},
	}
	s.keys = append(s.keys, k)
	out := *k
	return &out, true
}

func (s *store) revokeKey(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys {
		if k.ID == id {
			k.IsActive = false
			return true
		}
	}
	return false
}

func (s *store) stats() api.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.Stats{Spaces: len(s.spaces), Anchors: len(s.anchors), Users: len(s.users)}
}

func (s *store) findSpace(id string) *api.Space {
	for _, sp := range s.spaces {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (s *store) listSpaces() []api.Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchors := make(map[string]int)
	for _, a := range s.anchors {
		anchors[a.SpaceID]++
	}
	children := make(map[string]int)
	for _, sp := range s.spaces {
		if sp.ParentID != "" {
			children[sp.ParentID]++
		}
	}
	out := make([]api.Space, len(s.spaces))
	for i, sp := range s.spaces {
		out[i] = *sp
		out[i].Count = &api.SpaceCount{Anchors: anchors[sp.ID], Children: children[sp.ID]}
	}
	return out
}

func (s *store) getSpace(id string) (*api.Space, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.findSpace(id)
	if sp == nil {
		return nil, false
	}
	out := *sp
	return &out, true
}

func (s *store) putSpace(id string, in api.SpaceInput) (*api.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := ""
	if in.ParentID != nil {
		parent = *in.ParentID
	}
	if parent != "" && s.findSpace(parent) == nil {
		return nil, errUnknownParent
	}

	sp := s.findSpace(id)
	if sp == nil {
		sp = &api.Space{ID: uuid.NewString(), CreatedAt: s.timestamp()}
		s.spaces = append(s.spaces, sp)
	}
	sp.Name = in.Name
	sp.Lat, sp.Lon = in.Lat, in.Lon
	sp.ParentID = parent
	out := *sp
	return &out, nil
}

func (s *store) anchorsIn(spaceID string) ([]api.Anchor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findSpace(spaceID) == nil {
		return nil, false
	}
	out := []api.Anchor{}
	for _, a := range s.anchors {
		if a.SpaceID == spaceID {
			out = append(out, *a)
		}
	}
	return out, true
}

func (s *store) childrenOf(spaceID string) []api.Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Space{}
	for _, sp := range s.spaces {
		if sp.ParentID == spaceID {
			out = append(out, *sp)
		}
	}
	return out
}

func (s *store) findAnchor(id string) *api.Anchor {
	for _, a := range s.anchors {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *store) registerAnchor(r api.AnchorRegistration) (*api.Anchor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findSpace(r.SpaceID) == nil {
		return nil, false
	}
	a := &api.Anchor{
		ID:        uuid.NewString(),
		SpaceID:   r.SpaceID,
		Type:      r.Type,
		Payload:   r.Payload,
		Lat:       r.Lat,
		Lon:       r.Lon,
		Alt:       r.Alt,
		Status:    "active",
		CreatedAt: s.timestamp(),
	}
	s.anchors = append(s.anchors, a)
	out := *a
	return &out, true
}

func (s *store) moveAnchor(id string, u api.AnchorUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAnchor(id)
	if a == nil {
		return false
	}
	lat, lon := u.Lat, u.Lon
	a.Lat, a.Lon = &lat, &lon
	return true
}

func (s *store) deleteAnchor(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAnchor(id)
	if a == nil {
		return false
	}
	a.Status = "deleted"
	return true
}

func (s *store) anchor(id string) (*api.Anchor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAnchor(id)
	if a == nil {
		return nil, false
	}
	out := *a
	return &out, true
}

func (s *store) nearby(lat, lon float64) []api.Anchor {
	s.mu.Lock()
	defer s.mu.Unlock()
	type hit struct {
		a    api.Anchor
		dist float64
	}
	var hits []hit
	for _, a := range s.anchors {
		if a.Status == "deleted" || a.Lat == nil || a.Lon == nil {
			continue
		}
		d := math.Hypot(*a.Lat-lat, *a.Lon-lon)
		if d <= nearbyRadius {
			hits = append(hits, hit{*a, d})
		}
	}
	slices.SortStableFunc(hits, func(x, y hit) int {
		switch {
		case x.dist < y.dist:
			return -1
		case x.dist > y.dist:
			return 1
		}
		return 0
	})
	out := make([]api.Anchor, len(hits))
	for i, h := range hits {
		out[i] = h.a
	}
	return out
}
