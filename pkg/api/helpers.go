package api

import (
	"net/http"

	"github.com/atriumhq/atrium/pkg/access"
	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/contextkeys"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/middleware"
)

// principalFrom reads the principal the guard placed on the context.
func principalFrom(r *http.Request) *auth.Principal {
	return contextkeys.GetPrincipal(r.Context())
}

func forbidOrg(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":    access.DeniedMessage,
		"redirect": middleware.DashboardPath,
	})
}
