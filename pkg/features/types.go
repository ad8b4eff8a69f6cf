package features

import (
	"errors"

	"github.com/atriumhq/atrium/pkg/orgs"
)

// Feature is a catalog entry. AvailableOnPlans lists the subscription plans
// the feature can be enabled on.
type Feature struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	AvailableOnPlans []orgs.Plan `json:"available_on_plans"`
}

// AvailableOn reports whether the feature can be enabled on the given plan.
func (f Feature) AvailableOn(plan orgs.Plan) bool {
	for _, p := range f.AvailableOnPlans {
		if p == plan {
			return true
		}
	}
	return false
}

// OrgFeature records the enablement of one feature for one organization.
type OrgFeature struct {
	OrgID     string `json:"org_id"`
	FeatureID string `json:"feature_id"`
	Enabled   bool   `json:"enabled"`
}

// View is a catalog entry resolved against one organization: whether it is
// currently enabled and whether the organization's plan allows toggling it.
type View struct {
	Feature
	Enabled   bool `json:"enabled"`
	CanToggle bool `json:"can_toggle"`
}

var (
	// ErrNotFound is returned when a feature id resolves to nothing.
	ErrNotFound = errors.New("feature not found")

	// ErrNotAvailableOnPlan is returned when toggling a feature the
	// organization's plan does not include.
	ErrNotAvailableOnPlan = errors.New("feature is not available on the organization's plan")
)
