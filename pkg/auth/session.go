package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atriumhq/atrium/pkg/latency"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/stream"
)

// Session is the single source of truth for the signed-in principal. It is
// the sole writer of the current principal; every transition (restore, login,
// logout) is published on the principal feed.
type Session struct {
	authenticator Authenticator
	store         Store
	notifier      notify.Notifier
	logger        *observability.Logger
	delay         time.Duration

	mu      sync.Mutex
	current *Principal
	feed    *stream.Feed[*Principal]
}

// NewSession creates a session service. simulatedDelay is applied to login
// regardless of outcome; pass 0 to disable (tests).
func NewSession(authenticator Authenticator, store Store, notifier notify.Notifier, logger *observability.Logger, simulatedDelay time.Duration) *Session {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Session{
		authenticator: authenticator,
		store:         store,
		notifier:      notifier,
		logger:        logger,
		delay:         simulatedDelay,
		feed:          stream.NewFeed[*Principal](nil),
	}
}

// Initialize restores the principal from the durable store, if one exists.
// This is a trust-on-read cache of the last successful login; no credential
// re-validation happens here. A corrupt record is discarded and the session
// starts logged out. Initialize never fails.
func (s *Session) Initialize() {
	p, err := s.store.Load()
	if err != nil {
		if errors.Is(err, ErrCorruptRecord) {
			s.logger.WithError(err).Warn("discarding corrupt session record")
		} else if !errors.Is(err, ErrNoSession) {
			s.logger.WithError(err).Warn("session store unavailable, starting logged out")
		}
		return
	}

	s.mu.Lock()
	s.current = p
	s.feed.Publish(p)
	s.mu.Unlock()

	s.logger.WithField("principal_id", p.ID).Info("session restored")
}

// Login exchanges credentials for a principal. On success the principal
// becomes current, is persisted durably, and is published to observers.
// Failure takes the same simulated delay as success. Concurrent logins race;
// the last one to complete wins, and the persisted record always matches the
// published principal.
func (s *Session) Login(ctx context.Context, creds Credentials) (*Principal, error) {
	p, authErr := s.authenticator.Authenticate(ctx, creds)

	if err := latency.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}
	if authErr != nil {
		s.logger.WithField("email", creds.Email).Warn("login rejected")
		return nil, authErr
	}

	s.mu.Lock()
	if err := s.store.Save(p); err != nil {
		// Non-fatal: the session continues in memory, continuity across
		// restart is lost until the next successful save.
		s.logger.WithError(err).Error("failed to persist session record")
	}
	s.current = p
	s.feed.Publish(p)
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Welcome back, "+p.Name+"!")
	s.logger.WithFields(map[string]interface{}{
		"principal_id": p.ID,
		"role":         string(p.Role),
	}).Info("login succeeded")
	return p, nil
}

// Logout clears the current principal and removes the durable record.
// Idempotent: repeat calls leave the same observable state and publish
// nothing further.
func (s *Session) Logout() {
	s.mu.Lock()
	wasSignedIn := s.current != nil
	s.current = nil
	if err := s.store.Clear(); err != nil {
		s.logger.WithError(err).Error("failed to clear session record")
	}
	if wasSignedIn {
		s.feed.Publish(nil)
	}
	s.mu.Unlock()

	if wasSignedIn {
		s.notifier.Notify(notify.KindError, "You have been logged out")
		s.logger.Info("logged out")
	}
}

// Current returns the current principal, or nil when logged out.
func (s *Session) Current() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAuthenticated reports whether a principal is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.Current() != nil
}

// HasRole reports whether the current principal holds one of roles. Always
// false when logged out.
func (s *Session) HasRole(roles ...Role) bool {
	return s.Current().HasRole(roles...)
}

// Subscribe attaches fn to the principal feed. The latest principal (or nil)
// is replayed immediately; afterwards fn observes every transition in the
// order the state changes completed.
func (s *Session) Subscribe(fn func(*Principal)) (cancel func()) {
	return s.feed.Subscribe(fn)
}
