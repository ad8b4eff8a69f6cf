package middleware

import (
	"net/http"

	"github.com/atriumhq/atrium/pkg/access"
	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/contextkeys"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
)

// DashboardPath is where denied but authenticated requests are pointed.
const DashboardPath = "/dashboard"

// Guard enforces the access policy on protected routes.
type Guard struct {
	session  *auth.Session
	notifier notify.Notifier
	metrics  *observability.Metrics
}

// NewGuard creates a guard bound to the session. notifier and metrics may be
// nil.
func NewGuard(session *auth.Session, notifier notify.Notifier, metrics *observability.Metrics) *Guard {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Guard{session: session, notifier: notifier, metrics: metrics}
}

// Protect wraps a handler with the access policy for the given roles. An
// empty role list means any authenticated principal may pass. The principal
// is placed on the request context for downstream handlers.
func (g *Guard) Protect(required ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := g.session.Current()
			d := access.CanActivate(p, required, r.URL.RequestURI())
			if g.metrics != nil {
				g.metrics.RecordAccessDecision(string(d.Outcome))
			}

			switch d.Outcome {
			case access.OutcomeAllow:
				next.ServeHTTP(w, r.WithContext(contextkeys.WithPrincipal(r.Context(), p)))
			case access.OutcomeRedirectToLogin:
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":     "authentication required",
					"return_to": d.ReturnTo,
				})
			default:
				g.notifier.Notify(notify.KindError, access.DeniedMessage)
				httputil.WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":    access.DeniedMessage,
					"redirect": DashboardPath,
				})
			}
		})
	}
}
