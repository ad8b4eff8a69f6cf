// Package scope tracks which organization a super admin is currently
// inspecting and derives the effective organization scope for any principal.
//
// The raw selection only ever matters for super admins. Org admins and
// regular users are always scoped to their home organization; Effective
// enforces that, and consumers must go through it rather than reading the raw
// selection. The selection resets whenever the signed-in principal changes so
// a new session can never inherit a stale scope.
package scope

import (
	"sync"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/stream"
)

// PrincipalSource is the slice of the session service the selector depends
// on. The dependency is one-directional: scope reads the session feed, the
// session never reads scope.
type PrincipalSource interface {
	Subscribe(fn func(*auth.Principal)) (cancel func())
}

// Selector holds the raw organization selection and broadcasts changes.
// It is the sole writer of the selection.
type Selector struct {
	mu       sync.Mutex
	selected *string
	feed     *stream.Feed[*string]
}

// NewSelector creates a selector wired to the session's principal feed. Every
// principal transition, including logout, clears the raw selection.
func NewSelector(session PrincipalSource) *Selector {
	s := &Selector{feed: stream.NewFeed[*string](nil)}
	session.Subscribe(func(*auth.Principal) {
		s.reset()
	})
	return s
}

// Set stores the raw selection and publishes it. The id is not validated
// against the organization directory here; callers own that check.
func (s *Selector) Set(orgID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if orgID != nil {
		id := *orgID
		orgID = &id
	}
	s.selected = orgID
	s.feed.Publish(s.selected)
}

// Raw returns the stored selection without applying the role invariant.
// Prefer Effective; Raw exists for display of the picker state only.
func (s *Selector) Raw() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Effective returns the organization the principal is scoped to. For any
// non-super-admin this is the home organization, unconditionally; the raw
// selection is ignored. For super admins it is the raw selection. A nil
// principal has no scope.
func (s *Selector) Effective(p *auth.Principal) *string {
	if p == nil {
		return nil
	}
	if p.Role != auth.RoleSuperAdmin {
		return p.HomeOrgID
	}
	return s.Raw()
}

// Subscribe attaches fn to the selection feed with replay-latest semantics.
func (s *Selector) Subscribe(fn func(*string)) (cancel func()) {
	return s.feed.Subscribe(fn)
}

func (s *Selector) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return
	}
	s.selected = nil
	s.feed.Publish(nil)
}
