package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/features"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/scope"
	"github.com/atriumhq/atrium/pkg/usage"
	"github.com/atriumhq/atrium/pkg/users"
)

// Deps carries everything the server needs. Logger and Metrics may be nil.
type Deps struct {
	Session  *auth.Session
	Selector *scope.Selector
	Orgs     *orgs.Service
	Users    *users.Service
	Features *features.Service
	Usage    *usage.Service
	Hub      *notify.Hub
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// Server represents the API server
type Server struct {
	deps   Deps
	router *mux.Router
	guard  *middleware.Guard
}

// NewServer creates the API server and wires all routes
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	s := &Server{
		deps:   deps,
		router: mux.NewRouter(),
		guard:  middleware.NewGuard(deps.Session, deps.Hub, deps.Metrics),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	if s.deps.Metrics != nil {
		s.router.Use(middleware.Metrics(s.deps.Metrics))
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()

	authHandlers := NewAuthHandlers(s.deps.Session, s.deps.Metrics)
	authHandlers.RegisterRoutes(api, s.guard)

	scopeHandlers := NewScopeHandlers(s.deps.Selector, s.deps.Session, s.deps.Orgs)
	scopeHandlers.RegisterRoutes(api, s.guard)

	orgHandlers := NewOrgHandlers(s.deps.Orgs)
	orgHandlers.RegisterRoutes(api, s.guard)

	userHandlers := NewUserHandlers(s.deps.Users, s.deps.Selector)
	userHandlers.RegisterRoutes(api, s.guard)

	featureHandlers := NewFeatureHandlers(s.deps.Features, s.deps.Metrics)
	featureHandlers.RegisterRoutes(api, s.guard)

	usageHandlers := NewUsageHandlers(s.deps.Usage, s.deps.Metrics)
	usageHandlers.RegisterRoutes(api, s.guard)

	notificationHandlers := NewNotificationHandlers(s.deps.Hub)
	notificationHandlers.RegisterRoutes(api, s.guard)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router for outer middleware
func (s *Server) Router() *mux.Router {
	return s.router
}

// requireOrgAccess reports whether the principal may act on the given
// organization, writing the refusal itself when not. Super admins may act on
// any organization; everyone else only on their home organization. Handlers
// normally sit behind Guard.Protect, so a missing principal means the route
// was wired without it.
func requireOrgAccess(w http.ResponseWriter, r *http.Request, orgID string) bool {
	p := principalFrom(r)
	if p == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return false
	}
	if p.Role == auth.RoleSuperAdmin {
		return true
	}
	if p.HomeOrgID != nil && *p.HomeOrgID == orgID {
		return true
	}
	forbidOrg(w)
	return false
}
