package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/orgs"
)

// OrgHandlers serves organization CRUD. All routes are super-admin only.
type OrgHandlers struct {
	orgs *orgs.Service
}

// NewOrgHandlers creates the handlers.
func NewOrgHandlers(orgService *orgs.Service) *OrgHandlers {
	return &OrgHandlers{orgs: orgService}
}

// RegisterRoutes registers the organization routes
func (h *OrgHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	super := guard.Protect(auth.RoleSuperAdmin)
	router.Handle("/orgs", super(http.HandlerFunc(h.list))).Methods("GET")
	router.Handle("/orgs", super(http.HandlerFunc(h.create))).Methods("POST")
	router.Handle("/orgs/{id}", super(http.HandlerFunc(h.get))).Methods("GET")
	router.Handle("/orgs/{id}", super(http.HandlerFunc(h.update))).Methods("PUT")
	router.Handle("/orgs/{id}", super(http.HandlerFunc(h.delete))).Methods("DELETE")
}

// list handles GET /orgs?search=&status=
func (h *OrgHandlers) list(w http.ResponseWriter, r *http.Request) {
	search := httputil.ParseQueryString(r, "search", "")
	status := orgs.Status(httputil.ParseQueryString(r, "status", ""))

	out, err := h.orgs.List(r.Context(), search, status)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if out == nil {
		out = []orgs.Organization{}
	}
	httputil.WriteSuccess(w, out)
}

// get handles GET /orgs/{id}
func (h *OrgHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	org, err := h.orgs.Get(r.Context(), id)
	if err != nil {
		writeOrgError(w, err)
		return
	}
	httputil.WriteSuccess(w, org)
}

// create handles POST /orgs
func (h *OrgHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req orgs.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !req.Plan.Valid() {
		httputil.WriteValidationError(w, "plan must be FREE, PRO or ENTERPRISE")
		return
	}

	org, err := h.orgs.Create(r.Context(), req)
	if err != nil {
		writeOrgError(w, err)
		return
	}
	httputil.WriteCreated(w, org)
}

// update handles PUT /orgs/{id}
func (h *OrgHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req orgs.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Plan != nil && !req.Plan.Valid() {
		httputil.WriteValidationError(w, "plan must be FREE, PRO or ENTERPRISE")
		return
	}

	org, err := h.orgs.Update(r.Context(), id, req)
	if err != nil {
		writeOrgError(w, err)
		return
	}
	httputil.WriteSuccess(w, org)
}

// delete handles DELETE /orgs/{id}
func (h *OrgHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.orgs.Delete(r.Context(), id); err != nil {
		writeOrgError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func writeOrgError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orgs.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.Is(err, orgs.ErrDuplicateName):
		httputil.WriteConflict(w, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}
