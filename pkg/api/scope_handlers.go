package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/scope"
)

// ScopeHandlers serves the organization scope picker.
type ScopeHandlers struct {
	selector *scope.Selector
	session  *auth.Session
	orgs     *orgs.Service
}

// NewScopeHandlers creates the handlers.
func NewScopeHandlers(selector *scope.Selector, session *auth.Session, orgService *orgs.Service) *ScopeHandlers {
	return &ScopeHandlers{selector: selector, session: session, orgs: orgService}
}

// RegisterRoutes registers the scope routes. Reading the scope requires any
// authenticated principal; changing the raw selection is super-admin only.
func (h *ScopeHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	router.Handle("/scope", guard.Protect()(http.HandlerFunc(h.get))).Methods("GET")
	router.Handle("/scope", guard.Protect(auth.RoleSuperAdmin)(http.HandlerFunc(h.set))).Methods("PUT")
	router.Handle("/scope", guard.Protect(auth.RoleSuperAdmin)(http.HandlerFunc(h.clear))).Methods("DELETE")
}

type scopeResponse struct {
	Selected  *string `json:"selected"`
	Effective *string `json:"effective"`
}

// get handles GET /scope
func (h *ScopeHandlers) get(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	httputil.WriteSuccess(w, scopeResponse{
		Selected:  h.selector.Raw(),
		Effective: h.selector.Effective(p),
	})
}

// set handles PUT /scope. The organization must exist.
func (h *ScopeHandlers) set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrgID string `json:"org_id"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.OrgID, "org_id") {
		return
	}

	if _, err := h.orgs.Get(r.Context(), req.OrgID); err != nil {
		if errors.Is(err, orgs.ErrNotFound) {
			httputil.WriteNotFoundError(w, err.Error())
		} else {
			httputil.WriteInternalError(w, err)
		}
		return
	}

	h.selector.Set(&req.OrgID)
	httputil.WriteSuccess(w, scopeResponse{
		Selected:  h.selector.Raw(),
		Effective: h.selector.Effective(principalFrom(r)),
	})
}

// clear handles DELETE /scope
func (h *ScopeHandlers) clear(w http.ResponseWriter, r *http.Request) {
	h.selector.Set(nil)
	httputil.WriteNoContent(w)
}
