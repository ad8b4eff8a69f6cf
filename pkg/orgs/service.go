package orgs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atriumhq/atrium/pkg/latency"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/stream"
)

// Service is the in-memory organization directory.
type Service struct {
	notifier notify.Notifier
	logger   *observability.Logger
	delay    time.Duration

	mu     sync.Mutex
	orgs   []Organization
	nextID int
	feed   *stream.Feed[[]Organization]
}

// NewService creates the directory seeded with the given organizations.
func NewService(seed []Organization, notifier notify.Notifier, logger *observability.Logger, simulatedDelay time.Duration) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	s := &Service{
		notifier: notifier,
		logger:   logger,
		delay:    simulatedDelay,
		orgs:     append([]Organization(nil), seed...),
		nextID:   len(seed) + 1,
		feed:     stream.NewFeed[[]Organization](nil),
	}
	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()
	return s
}

// List returns organizations matching the optional search term (name or
// industry, case-insensitive substring) and status filter.
func (s *Service) List(ctx context.Context, search string, status Status) ([]Organization, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	var out []Organization
	for _, org := range s.orgs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(org.Name), needle) &&
			!strings.Contains(strings.ToLower(org.Industry), needle) {
			continue
		}
		if status != "" && org.Status != status {
			continue
		}
		out = append(out, org)
	}
	return out, nil
}

// Get returns a single organization by id.
func (s *Service) Get(ctx context.Context, id string) (Organization, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return Organization{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, org := range s.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return Organization{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create adds a new organization. Names are unique case-insensitively.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Organization, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return Organization{}, err
	}

	s.mu.Lock()
	if s.nameTakenLocked(req.Name, "") {
		s.mu.Unlock()
		return Organization{}, ErrDuplicateName
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	org := Organization{
		ID:        fmt.Sprintf("org%d", s.nextID),
		Name:      req.Name,
		Logo:      req.Logo,
		Industry:  req.Industry,
		Plan:      req.Plan,
		Status:    status,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.orgs = append(s.orgs, org)
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("Organization %q created successfully", org.Name))
	s.logger.WithField("org_id", org.ID).Info("organization created")
	return org, nil
}

// Update applies a partial update to an organization.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Organization, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return Organization{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Organization{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if req.Name != nil && s.nameTakenLocked(*req.Name, id) {
		s.mu.Unlock()
		return Organization{}, ErrDuplicateName
	}

	org := s.orgs[idx]
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Logo != nil {
		org.Logo = *req.Logo
	}
	if req.Industry != nil {
		org.Industry = *req.Industry
	}
	if req.Plan != nil {
		org.Plan = *req.Plan
	}
	if req.Status != nil {
		org.Status = *req.Status
	}
	s.orgs[idx] = org
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("Organization %q updated successfully", org.Name))
	return org, nil
}

// Delete removes an organization.
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
	name := s.orgs[idx].Name
	s.orgs = append(s.orgs[:idx], s.orgs[idx+1:]...)
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("Organization %q deleted successfully", name))
	return nil
}

// Count returns the number of organizations.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orgs)
}

// Subscribe attaches fn to the organization list feed with replay-latest
// semantics. Every mutation publishes a fresh snapshot.
func (s *Service) Subscribe(fn func([]Organization)) (cancel func()) {
	return s.feed.Subscribe(fn)
}

func (s *Service) indexLocked(id string) int {
	for i, org := range s.orgs {
		if org.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) nameTakenLocked(name, excludeID string) bool {
	for _, org := range s.orgs {
		if org.ID != excludeID && strings.EqualFold(org.Name, name) {
			return true
		}
	}
	return false
}

func (s *Service) publishLocked() {
	snapshot := make([]Organization, len(s.orgs))
	copy(snapshot, s.orgs)
	s.feed.Publish(snapshot)
}
