package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/latency"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/stream"
)

// OrganizationDirectory is the slice of the organization service the member
// directory depends on.
type OrganizationDirectory interface {
	Get(ctx context.Context, id string) (orgs.Organization, error)
	Subscribe(fn func([]orgs.Organization)) (cancel func())
}

// Service is the in-memory member directory.
type Service struct {
	dir      OrganizationDirectory
	notifier notify.Notifier
	logger   *observability.Logger
	delay    time.Duration

	mu     sync.Mutex
	users  []User
	nextID int
	feed   *stream.Feed[[]User]
}

// NewService creates the directory seeded with the given users. The service
// subscribes to the organization feed: members of a suspended organization
// are suspended in turn.
func NewService(seed []User, dir OrganizationDirectory, notifier notify.Notifier, logger *observability.Logger, simulatedDelay time.Duration) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	s := &Service{
		dir:      dir,
		notifier: notifier,
		logger:   logger,
		delay:    simulatedDelay,
		users:    append([]User(nil), seed...),
		nextID:   len(seed) + 1,
		feed:     stream.NewFeed[[]User](nil),
	}
	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()

	if dir != nil {
		dir.Subscribe(s.cascadeSuspensions)
	}
	return s
}

// List returns users matching the optional filters. An empty orgID matches
// users from every organization; search is a case-insensitive substring match
// on name and email.
func (s *Service) List(ctx context.Context, orgID, search string, role auth.Role, status auth.Status) ([]User, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	var out []User
	for _, u := range s.users {
		if orgID != "" && u.OrgID != orgID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create adds a user to an organization. It fails when the email is already
// taken inside that organization or when a FREE plan organization is at its
// seat limit.
func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return User{}, err
	}

	org, err := s.dir.Get(ctx, req.OrgID)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	if s.emailTakenLocked(req.Email, req.OrgID, "") {
		s.mu.Unlock()
		return User{}, ErrDuplicateEmail
	}
	if org.Plan == orgs.PlanFree && s.countByOrgLocked(req.OrgID) >= FreePlanSeatLimit {
		s.mu.Unlock()
		s.notifier.Notify(notify.KindError, "User limit reached for the FREE plan. Upgrade to add more users.")
		return User{}, ErrSeatLimitReached
	}

	status := req.Status
	if status == "" {
		status = auth.StatusActive
	}
	u := User{
		ID:        strconv.Itoa(s.nextID),
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    status,
		OrgID:     req.OrgID,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.users = append(s.users, u)
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("User %q created successfully", u.Name))
	s.logger.WithFields(map[string]any{"user_id": u.ID, "org_id": u.OrgID}).Info("user created")
	return u, nil
}

// Update applies a partial update to a user. Email changes are checked
// against the user's organization.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (User, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if req.Email != nil && s.emailTakenLocked(*req.Email, s.users[idx].OrgID, id) {
		s.mu.Unlock()
		return User{}, ErrDuplicateEmail
	}

	u := s.users[idx]
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	s.users[idx] = u
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("User %q updated successfully", u.Name))
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	name := s.users[idx].Name
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("User %q deleted successfully", name))
	return nil
}

// CountByOrg returns the number of users in an organization.
func (s *Service) CountByOrg(orgID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByOrgLocked(orgID)
}

// CanAdd reports whether the organization has room for another member under
// its plan.
func (s *Service) CanAdd(ctx context.Context, orgID string) (bool, error) {
	org, err := s.dir.Get(ctx, orgID)
	if err != nil {
		return false, err
	}
	if org.Plan != orgs.PlanFree {
		return true, nil
	}
	return s.CountByOrg(orgID) < FreePlanSeatLimit, nil
}

// SendPasswordReset simulates dispatching a password reset email.
func (s *Service) SendPasswordReset(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	s.notifier.Notify(notify.KindInfo, fmt.Sprintf("Password reset email sent to %s", u.Email))
	s.logger.WithField("user_id", u.ID).Info("password reset requested")
	return nil
}

// Subscribe attaches fn to the user list feed with replay-latest semantics.
func (s *Service) Subscribe(fn func([]User)) (cancel func()) {
	return s.feed.Subscribe(fn)
}

// cascadeSuspensions suspends members of suspended organizations whenever
// the organization feed publishes a snapshot.
func (s *Service) cascadeSuspensions(snapshot []orgs.Organization) {
	suspended := make(map[string]bool, len(snapshot))
	for _, org := range snapshot {
		if org.Status == orgs.StatusSuspended {
			suspended[org.ID] = true
		}
	}
	if len(suspended) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i, u := range s.users {
		if suspended[u.OrgID] && u.Status != auth.StatusSuspended {
			s.users[i].Status = auth.StatusSuspended
			changed++
		}
	}
	if changed > 0 {
		s.publishLocked()
		s.logger.WithField("count", changed).Info("users suspended with their organization")
	}
}

func (s *Service) indexLocked(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) emailTakenLocked(email, orgID, excludeID string) bool {
	for _, u := range s.users {
		if u.ID != excludeID && u.OrgID == orgID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Service) countByOrgLocked(orgID string) int {
	n := 0
	for _, u := range s.users {
		if u.OrgID == orgID {
			n++
		}
	}
	return n
}

func (s *Service) publishLocked() {
	snapshot := make([]User, len(s.users))
	copy(snapshot, s.users)
	s.feed.Publish(snapshot)
}
