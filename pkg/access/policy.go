package access

import "github.com/atriumhq/atrium/pkg/auth"

// Outcome enumerates the possible guard decisions.
type Outcome string

const (
	// OutcomeAllow lets the navigation proceed.
	OutcomeAllow Outcome = "allow"
	// OutcomeRedirectToLogin sends an unauthenticated request to the login
	// flow, carrying the originally requested path.
	OutcomeRedirectToLogin Outcome = "redirect_to_login"
	// OutcomeRedirectToDashboard sends an authenticated but under-privileged
	// request back to the dashboard. The caller surfaces a denial message.
	OutcomeRedirectToDashboard Outcome = "redirect_to_dashboard"
)

// Decision is the result of a guard evaluation.
type Decision struct {
	Outcome Outcome
	// ReturnTo carries the originally requested path, verbatim including any
	// query string, when Outcome is OutcomeRedirectToLogin.
	ReturnTo string
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// DeniedMessage is the user-facing text the routing layer shows on the
// dashboard-redirect branch. The policy itself never emits it.
const DeniedMessage = "You do not have permission to access this page"

// CanActivate decides whether principal p may activate a route requiring one
// of required. Authentication is always checked before role membership: an
// unauthenticated request to a role-gated route redirects to login, never to
// the denial path. An empty required set is an authenticated-only gate.
//
// A principal whose status is not ACTIVE is treated as unauthenticated even
// if a session record exists.
func CanActivate(p *auth.Principal, required []auth.Role, requestedPath string) Decision {
	if p == nil || p.Status != auth.StatusActive {
		return Decision{Outcome: OutcomeRedirectToLogin, ReturnTo: requestedPath}
	}
	if len(required) == 0 {
		return Decision{Outcome: OutcomeAllow}
	}
	if p.HasRole(required...) {
		return Decision{Outcome: OutcomeAllow}
	}
	return Decision{Outcome: OutcomeRedirectToDashboard}
}
