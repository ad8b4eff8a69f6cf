package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/observability"
)

// AuthHandlers serves the session lifecycle endpoints.
type AuthHandlers struct {
	session *auth.Session
	metrics *observability.Metrics
	limiter *middleware.RateLimiter
}

// NewAuthHandlers creates the handlers. metrics may be nil.
func NewAuthHandlers(session *auth.Session, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{
		session: session,
		metrics: metrics,
		limiter: middleware.NewRateLimiter(middleware.LoginRateLimitConfig()),
	}
}

// RegisterRoutes registers the authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	router.Handle("/auth/login", h.limiter.Handler(http.HandlerFunc(h.login))).Methods("POST")
	router.HandleFunc("/auth/logout", h.logout).Methods("POST")
	router.Handle("/auth/session", guard.Protect()(http.HandlerFunc(h.currentSession))).Methods("GET")
}

// login handles POST /auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !httputil.ParseJSONOrError(w, r, &creds) {
		return
	}
	if !httputil.RequireNonEmpty(w, creds.Email, "email") || !httputil.RequireNonEmpty(w, creds.Password, "password") {
		return
	}

	p, err := h.session.Login(r.Context(), creds)
	if err != nil {
		h.recordLogin("failure")
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrAccountDisabled):
			httputil.WriteUnauthorized(w, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			httputil.WriteErrorMessage(w, http.StatusRequestTimeout, "login cancelled")
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}

	h.recordLogin("success")
	httputil.WriteSuccess(w, p)
}

// logout handles POST /auth/logout. Logging out twice is fine.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	httputil.WriteNoContent(w)
}

// currentSession handles GET /auth/session
func (h *AuthHandlers) currentSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, principalFrom(r))
}

func (h *AuthHandlers) recordLogin(result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(result)
	}
}
