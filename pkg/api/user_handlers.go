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
	"github.com/atriumhq/atrium/pkg/users"
)

// UserHandlers serves the member directory. Any authenticated principal may
// browse; what they see is limited to their effective organization scope.
type UserHandlers struct {
	users    *users.Service
	selector *scope.Selector
}

// NewUserHandlers creates the handlers.
func NewUserHandlers(userService *users.Service, selector *scope.Selector) *UserHandlers {
	return &UserHandlers{users: userService, selector: selector}
}

// RegisterRoutes registers the user routes
func (h *UserHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	authed := guard.Protect()
	router.Handle("/users", authed(http.HandlerFunc(h.list))).Methods("GET")
	router.Handle("/users", authed(http.HandlerFunc(h.create))).Methods("POST")
	router.Handle("/users/{id}", authed(http.HandlerFunc(h.get))).Methods("GET")
	router.Handle("/users/{id}", authed(http.HandlerFunc(h.update))).Methods("PUT")
	router.Handle("/users/{id}", authed(http.HandlerFunc(h.delete))).Methods("DELETE")
	router.Handle("/users/{id}/password-reset", authed(http.HandlerFunc(h.passwordReset))).Methods("POST")
}

// list handles GET /users?search=&role=&status=. The organization filter is
// the caller's effective scope; a super admin with no selection sees every
// organization.
func (h *UserHandlers) list(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)

	orgID := ""
	if effective := h.selector.Effective(p); effective != nil {
		orgID = *effective
	}

	search := httputil.ParseQueryString(r, "search", "")
	role := auth.Role(httputil.ParseQueryString(r, "role", ""))
	status := auth.Status(httputil.ParseQueryString(r, "status", ""))

	out, err := h.users.List(r.Context(), orgID, search, role, status)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if out == nil {
		out = []users.User{}
	}
	httputil.WriteSuccess(w, out)
}

// get handles GET /users/{id}
func (h *UserHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	if !requireOrgAccess(w, r, u.OrgID) {
		return
	}
	httputil.WriteSuccess(w, u)
}

// create handles POST /users
func (h *UserHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req users.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") ||
		!httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.OrgID, "org_id") {
		return
	}
	if !req.Role.Valid() {
		httputil.WriteValidationError(w, "role must be SUPER_ADMIN, ORG_ADMIN or USER")
		return
	}
	if !requireOrgAccess(w, r, req.OrgID) {
		return
	}

	u, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeUserError(w, err)
		return
	}
	httputil.WriteCreated(w, u)
}

// update handles PUT /users/{id}
func (h *UserHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	if !requireOrgAccess(w, r, existing.OrgID) {
		return
	}

	var req users.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		httputil.WriteValidationError(w, "role must be SUPER_ADMIN, ORG_ADMIN or USER")
		return
	}

	u, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		writeUserError(w, err)
		return
	}
	httputil.WriteSuccess(w, u)
}

// delete handles DELETE /users/{id}
func (h *UserHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	if !requireOrgAccess(w, r, existing.OrgID) {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeUserError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// passwordReset handles POST /users/{id}/password-reset
func (h *UserHandlers) passwordReset(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}
	if !requireOrgAccess(w, r, existing.OrgID) {
		return
	}

	if err := h.users.SendPasswordReset(r.Context(), id); err != nil {
		writeUserError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound), errors.Is(err, orgs.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.Is(err, users.ErrDuplicateEmail):
		httputil.WriteConflict(w, err.Error())
	case errors.Is(err, users.ErrSeatLimitReached):
		httputil.WriteErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}
