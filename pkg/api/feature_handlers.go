package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/features"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
)

// FeatureHandlers serves the feature catalog and the per-organization
// matrix. Routes require a super admin or an org admin.
type FeatureHandlers struct {
	features *features.Service
	metrics  *observability.Metrics
}

// NewFeatureHandlers creates the handlers. metrics may be nil.
func NewFeatureHandlers(featureService *features.Service, metrics *observability.Metrics) *FeatureHandlers {
	return &FeatureHandlers{features: featureService, metrics: metrics}
}

// RegisterRoutes registers the feature routes
func (h *FeatureHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	admins := guard.Protect(auth.RoleSuperAdmin, auth.RoleOrgAdmin)
	router.Handle("/features", admins(http.HandlerFunc(h.list))).Methods("GET")
	router.Handle("/orgs/{id}/features", admins(http.HandlerFunc(h.forOrganization))).Methods("GET")
	router.Handle("/orgs/{id}/features/{featureID}/toggle", admins(http.HandlerFunc(h.toggle))).Methods("POST")
}

// list handles GET /features
func (h *FeatureHandlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.features.List(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, out)
}

// forOrganization handles GET /orgs/{id}/features
func (h *FeatureHandlers) forOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	if !requireOrgAccess(w, r, id) {
		return
	}

	views, err := h.features.ForOrganization(r.Context(), id)
	if err != nil {
		writeFeatureError(w, err)
		return
	}
	httputil.WriteSuccess(w, views)
}

// toggle handles POST /orgs/{id}/features/{featureID}/toggle
func (h *FeatureHandlers) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	featureID, ok := httputil.ParsePathStringOrError(w, r, "featureID")
	if !ok {
		return
	}
	if !requireOrgAccess(w, r, id) {
		return
	}

	enabled, err := h.features.Toggle(r.Context(), id, featureID)
	if err != nil {
		writeFeatureError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordFeatureToggle(enabled)
	}
	httputil.WriteSuccess(w, map[string]bool{"enabled": enabled})
}

func writeFeatureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, features.ErrNotFound), errors.Is(err, orgs.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.Is(err, features.ErrNotAvailableOnPlan):
		httputil.WriteErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}
