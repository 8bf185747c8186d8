package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	apierrors "github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

var errUnknownParent = errors.New("parent space not found")

// Options configures a Server.
type Options struct {
	// Token, when set, is accepted as the admin principal's bearer token in
	// addition to tokens issued by /auth/login.
	Token string

	// Logger receives one line per request. Nil disables request logging.
	Logger *log.Logger

	// Now overrides the clock used for created_at timestamps.
	Now func() time.Time
}

// Server is an http.Handler serving the platform API from memory.
type Server struct {
	router chi.Router
	store  *store
	logger *log.Logger

	mu        sync.Mutex
	calls     map[string]int
	latency   map[string]time.Duration
	failMoves map[string]bool
}

// New creates a seeded server.
func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		store:     newStore(now),
		logger:    opts.Logger,
		calls:     make(map[string]int),
		latency:   make(map[string]time.Duration),
		failMoves: make(map[string]bool),
	}
	if opts.Token != "" {
		s.store.issueToken(opts.Token, "principal-admin")
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/me", s.handleMe)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", s.handleListUsers)
			r.Get("/keys", s.handleListKeys)
			r.Post("/keys", s.handleCreateKey)
			r.Delete("/keys/{id}", s.handleRevokeKey)
			r.Get("/stats", s.handleStats)
		})

		r.Route("/spatial", func(r chi.Router) {
			r.Post("/anchor", s.handleRegisterAnchor)
			r.Patch("/anchor/{id}", s.handleMoveAnchor)
			r.Delete("/anchor/{id}", s.handleDeleteAnchor)
			r.Get("/nearby", s.handleNearby)
			r.Get("/hierarchy/{id}", s.handleHierarchy)
			r.Post("/space", s.handleCreateSpace)
			r.Get("/spaces", s.handleListSpaces)
			r.Get("/space/{id}", s.handleGetSpace)
			r.Patch("/space/{id}", s.handleUpdateSpace)
			r.Get("/space/{id}/anchors", s.handleSpaceAnchors)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Calls returns how many requests matched the route, e.g.
// "PATCH /spatial/anchor/{id}".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SetLatency delays anchor listings of spaceID by d.
func (s *Server) SetLatency(spaceID string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency[spaceID] = d
}

// FailMoves makes position updates of the given anchors return 500.
func (s *Server) FailMoves(anchorIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range anchorIDs {
		s.failMoves[id] = true
	}
}

// Anchor returns the stored anchor, for assertions.
func (s *Server) Anchor(id string) (api.Anchor, bool) {
	a, ok := s.store.anchor(id)
	if !ok {
		return api.Anchor{}, false
	}
	return *a, true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		key := r.Method + " " + route
		s.mu.Lock()
		s.calls[key]++
		s.mu.Unlock()

		if s.logger != nil {
			s.logger.Info(key, "status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
		}
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, ok := s.store.principalForToken(token); !ok {
			s.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var c api.Credentials
	if !s.decode(w, r, &c) {
		return
	}
	token, user, ok := s.store.login(c.Username, c.Password)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	s.writeJSON(w, http.StatusOK, api.Session{Token: token, User: user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg api.Registration
	if !s.decode(w, r, &reg) {
		return
	}
	if reg.Username == "" || reg.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	token, user, ok := s.store.register(reg)
	if !ok {
		s.writeError(w, http.StatusConflict, "username already taken")
		return
	}
	s.writeJSON(w, http.StatusCreated, api.Session{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	user, _ := s.store.principalForToken(token)
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.listUsers())
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.listKeys())
}

func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var req api.KeyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, ok := tierLimits[req.Tier]; !ok {
		s.writeError(w, http.StatusBadRequest, "unknown tier")
		return
	}
	key, ok := s.store.createKey(req.OwnerID, req.Tier)
	if !ok {
		s.writeError(w, http.StatusNotFound, "owner not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, key)
}

func (s *Server) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	if !s.store.revokeKey(chi.URLParam(r, "id")) {
		s.writeError(w, http.StatusNotFound, "key not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.stats())
}

func (s *Server) handleRegisterAnchor(w http.ResponseWriter, r *http.Request) {
	var reg api.AnchorRegistration
	if !s.decode(w, r, &reg) {
		return
	}
	if err := apierrors.ValidateAnchorType(reg.Type); err != nil {
		s.writeError(w, http.StatusBadRequest, apierrors.UserMessage(err))
		return
	}
	a, ok := s.store.registerAnchor(reg)
	if !ok {
		s.writeError(w, http.StatusNotFound, "space not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleMoveAnchor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	fail := s.failMoves[id]
	s.mu.Unlock()
	if fail {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"details": "anchor store unavailable"})
		return
	}

	var u api.AnchorUpdate
	if !s.decode(w, r, &u) {
		return
	}
	if err := apierrors.ValidateCoordinates(u.Lat, u.Lon); err != nil {
		s.writeError(w, http.StatusBadRequest, apierrors.UserMessage(err))
		return
	}
	if !s.store.moveAnchor(id, u) {
		s.writeError(w, http.StatusNotFound, "anchor not found")
		return
	}
	a, _ := s.store.anchor(id)
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAnchor(w http.ResponseWriter, r *http.Request) {
	if !s.store.deleteAnchor(chi.URLParam(r, "id")) {
		s.writeError(w, http.StatusNotFound, "anchor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		s.writeError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.nearby(lat, lon))
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sp, ok := s.store.getSpace(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "space not found")
		return
	}
	anchors, _ := s.store.anchorsIn(id)
	s.writeJSON(w, http.StatusOK, api.Hierarchy{
		Space:    *sp,
		Children: s.store.childrenOf(id),
		Anchors:  anchors,
	})
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var in api.SpaceInput
	if !s.decode(w, r, &in) {
		return
	}
	s.saveSpace(w, "", in, http.StatusCreated)
}

func (s *Server) handleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.getSpace(id); !ok {
		s.writeError(w, http.StatusNotFound, "space not found")
		return
	}
	var in api.SpaceInput
	if !s.decode(w, r, &in) {
		return
	}
	s.saveSpace(w, id, in, http.StatusOK)
}

func (s *Server) saveSpace(w http.ResponseWriter, id string, in api.SpaceInput, status int) {
	if in.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	sp, err := s.store.putSpace(id, in)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, status, sp)
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.listSpaces())
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.store.getSpace(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "space not found")
		return
	}
	s.writeJSON(w, http.StatusOK, sp)
}

func (s *Server) handleSpaceAnchors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	delay := s.latency[id]
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	anchors, ok := s.store.anchorsIn(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "space not found")
		return
	}
	s.writeJSON(w, http.StatusOK, anchors)
}
