package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atriumhq/atrium/pkg/latency"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
)

// OrganizationDirectory is the slice of the organization service the feature
// matrix depends on.
type OrganizationDirectory interface {
	Get(ctx context.Context, id string) (orgs.Organization, error)
}

// Service holds the feature catalog and the per-organization matrix.
type Service struct {
	dir      OrganizationDirectory
	notifier notify.Notifier
	logger   *observability.Logger
	delay    time.Duration

	mu      sync.Mutex
	catalog []Feature
	enabled map[string]map[string]bool
}

// NewService creates the service from a catalog and an initial matrix.
func NewService(catalog []Feature, matrix []OrgFeature, dir OrganizationDirectory, notifier notify.Notifier, logger *observability.Logger, simulatedDelay time.Duration) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	enabled := make(map[string]map[string]bool)
	for _, of := range matrix {
		m := enabled[of.OrgID]
		if m == nil {
			m = make(map[string]bool)
			enabled[of.OrgID] = m
		}
		m[of.FeatureID] = of.Enabled
	}
	return &Service{
		dir:      dir,
		notifier: notifier,
		logger:   logger,
		delay:    simulatedDelay,
		catalog:  append([]Feature(nil), catalog...),
		enabled:  enabled,
	}
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]Feature, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Feature, len(s.catalog))
	copy(out, s.catalog)
	return out, nil
}

// Get returns a catalog entry by id.
func (s *Service) Get(ctx context.Context, id string) (Feature, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return Feature{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.findLocked(id)
	if !ok {
		return Feature{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, nil
}

// ForOrganization resolves the catalog against one organization in catalog
// order. Features outside the organization's plan are reported as disabled
// and not toggleable.
func (s *Service) ForOrganization(ctx context.Context, orgID string) ([]View, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	org, err := s.dir.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]View, 0, len(s.catalog))
	for _, f := range s.catalog {
		available := f.AvailableOn(org.Plan)
		out = append(out, View{
			Feature:   f,
			Enabled:   available && s.enabled[orgID][f.ID],
			CanToggle: available,
		})
	}
	return out, nil
}

// Toggle flips a feature for an organization and returns the new state.
func (s *Service) Toggle(ctx context.Context, orgID, featureID string) (bool, error) {
	if err := latency.Sleep(ctx, s.delay); err != nil {
		return false, err
	}

	org, err := s.dir.Get(ctx, orgID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	f, ok := s.findLocked(featureID)
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrNotFound, featureID)
	}
	if !f.AvailableOn(org.Plan) {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s on %s", ErrNotAvailableOnPlan, f.Name, org.Plan)
	}

	m := s.enabled[orgID]
	if m == nil {
		m = make(map[string]bool)
		s.enabled[orgID] = m
	}
	m[featureID] = !m[featureID]
	state := m[featureID]
	s.mu.Unlock()

	word := "disabled"
	if state {
		word = "enabled"
	}
	s.notifier.Notify(notify.KindSuccess, fmt.Sprintf("Feature %q has been %s", f.Name, word))
	s.logger.WithFields(map[string]any{"org_id": orgID, "feature_id": featureID, "enabled": state}).Info("feature toggled")
	return state, nil
}

func (s *Service) findLocked(id string) (Feature, bool) {
	for _, f := range s.catalog {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}
