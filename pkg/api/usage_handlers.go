package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/usage"
)

// UsageHandlers serves usage reports and exports. Routes require a super
// admin or an org admin.
type UsageHandlers struct {
	usage   *usage.Service
	metrics *observability.Metrics
}

// NewUsageHandlers creates the handlers. metrics may be nil.
func NewUsageHandlers(usageService *usage.Service, metrics *observability.Metrics) *UsageHandlers {
	return &UsageHandlers{usage: usageService, metrics: metrics}
}

// RegisterRoutes registers the usage routes
func (h *UsageHandlers) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	admins := guard.Protect(auth.RoleSuperAdmin, auth.RoleOrgAdmin)
	router.Handle("/orgs/{id}/usage", admins(http.HandlerFunc(h.report))).Methods("GET")
	router.Handle("/orgs/{id}/usage/export", admins(http.HandlerFunc(h.export))).Methods("GET")
}

// report handles GET /orgs/{id}/usage?days=30
func (h *UsageHandlers) report(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	if !requireOrgAccess(w, r, id) {
		return
	}

	days, err := httputil.ParseQueryInt(r, "days", usage.DefaultDays)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	report, err := h.usage.Report(r.Context(), id, days)
	if err != nil {
		writeUsageError(w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// export handles GET /orgs/{id}/usage/export?format=csv&days=30
func (h *UsageHandlers) export(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	if !requireOrgAccess(w, r, id) {
		return
	}

	days, err := httputil.ParseQueryInt(r, "days", usage.DefaultDays)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	format := usage.Format(httputil.ParseQueryString(r, "format", string(usage.FormatCSV)))

	data, err := h.usage.Export(r.Context(), id, days, format)
	if err != nil {
		writeUsageError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordUsageExport(string(format))
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-usage.csv", id))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeUsageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orgs.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.Is(err, usage.ErrUnsupportedFormat):
		httputil.WriteErrorMessage(w, http.StatusNotImplemented, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}
