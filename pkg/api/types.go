package api

// Space is a node in the platform's containment tree (building, floor, room).
type Space struct {
	ID        string      `json:"space_id"`
	Name      string      `json:"name"`
	ParentID  string      `json:"parent_space_id,omitempty"`
	Lat       *float64    `json:"lat,omitempty"`
	Lon       *float64    `json:"lon,omitempty"`
	H3Index   string      `json:"h3_index,omitempty"`
	IsPublic  bool        `json:"is_public"`
	CreatedAt string      `json:"created_at,omitempty"`
	Count     *SpaceCount `json:"_count,omitempty"`
}

// SpaceCount carries the aggregate counts some listings include.
type SpaceCount struct {
	Anchors  int `json:"anchors"`
	Children int `json:"children"`
}

// SpaceInput is the body for creating or updating a space. Nil fields are
// sent as JSON null, which clears them on update.
type SpaceInput struct {
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	ParentID *string  `json:"parent_space_id"`
}

// Anchor is a spatial anchor as returned by the platform.
type Anchor struct {
	ID        string   `json:"anchor_id"`
	SpaceID   string   `json:"space_id,omitempty"`
	Type      string   `json:"type"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Alt       *float64 `json:"alt,omitempty"`
	Payload   string   `json:"payload,omitempty"`
	Status    string   `json:"status,omitempty"`
	H3Index   string   `json:"h3_index,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// AnchorRegistration is the body for registering a new anchor.
type AnchorRegistration struct {
	SpaceID string   `json:"space_id"`
	Type    string   `json:"type"`
	Payload string   `json:"payload,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Alt     *float64 `json:"alt,omitempty"`
}

// AnchorUpdate moves an anchor to new geographic coordinates.
type AnchorUpdate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Hierarchy is a space with its direct children and anchors.
type Hierarchy struct {
	Space    Space    `json:"space"`
	Children []Space  `json:"children"`
	Anchors  []Anchor `json:"anchors"`
}

// User is a platform principal.
type User struct {
	PrincipalID string `json:"principal_id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Name returns the best human-readable name for the user.
func (u User) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	}
	return u.PrincipalID
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration are the sign-up form fields.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by login and registration.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// APIKey is a developer key with its monthly usage.
type APIKey struct {
	ID                string        `json:"key_id"`
	Key               string        `json:"key"`
	Tier              string        `json:"tier"`
	IsActive          bool          `json:"is_active"`
	UsageCurrentMonth int           `json:"requests_usage_current_month"`
	LimitMonth        int           `json:"requests_limit_month"`
	CreatedAt         string        `json:"created_at,omitempty"`
	Principal         *KeyPrincipal `json:"principal,omitempty"`
}

// KeyPrincipal identifies the owner of an API key.
type KeyPrincipal struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// KeyRequest is the body for creating an API key.
type KeyRequest struct {
	OwnerID string `json:"owner_id"`
	Tier    string `json:"tier"`
}

// Key tiers offered by the platform.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Stats are the platform-wide totals shown on the dashboard.
type Stats struct {
	Spaces  int `json:"spaces"`
	Anchors int `json:"anchors"`
	Users   int `json:"users"`
}

// errorBody is the platform's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
