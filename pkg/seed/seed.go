package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/features"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/users"
)

//go:embed seed.yaml
var defaultDataset []byte

type organizationRecord struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Logo      string    `yaml:"logo"`
	Industry  string    `yaml:"industry"`
	Plan      string    `yaml:"plan"`
	Status    string    `yaml:"status"`
	CreatedAt time.Time `yaml:"created_at"`
}

type userRecord struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Role   string `yaml:"role"`
	Status string `yaml:"status"`
	OrgID  string `yaml:"org_id"`
}

type featureRecord struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Category         string   `yaml:"category"`
	AvailableOnPlans []string `yaml:"available_on_plans"`
}

type orgFeatureRecord struct {
	OrgID     string `yaml:"org_id"`
	FeatureID string `yaml:"feature_id"`
	Enabled   bool   `yaml:"enabled"`
}

type dataset struct {
	Organizations []organizationRecord `yaml:"organizations"`
	Users         []userRecord         `yaml:"users"`
	Features      []featureRecord      `yaml:"features"`
	OrgFeatures   []orgFeatureRecord   `yaml:"org_features"`
}

// Data is the decoded dataset, converted to domain types.
type Data struct {
	Organizations []orgs.Organization
	Users         []users.User
	Features      []features.Feature
	OrgFeatures   []features.OrgFeature
}

// Load returns the embedded default dataset.
func Load() (Data, error) {
	return parse(defaultDataset)
}

// LoadFile reads a dataset from a YAML file.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading seed file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (Data, error) {
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Data{}, fmt.Errorf("parsing seed data: %w", err)
	}

	var d Data
	for _, r := range ds.Organizations {
		plan := orgs.Plan(r.Plan)
		if !plan.Valid() {
			return Data{}, fmt.Errorf("organization %s: unknown plan %q", r.ID, r.Plan)
		}
		status := orgs.Status(r.Status)
		if status == "" {
			status = orgs.StatusActive
		}
		d.Organizations = append(d.Organizations, orgs.Organization{
			ID:        r.ID,
			Name:      r.Name,
			Logo:      r.Logo,
			Industry:  r.Industry,
			Plan:      plan,
			Status:    status,
			CreatedAt: r.CreatedAt,
		})
	}

	for _, r := range ds.Users {
		role := auth.Role(r.Role)
		if !role.Valid() {
			return Data{}, fmt.Errorf("user %s: unknown role %q", r.ID, r.Role)
		}
		status := auth.Status(r.Status)
		if status == "" {
			status = auth.StatusActive
		}
		d.Users = append(d.Users, users.User{
			ID:     r.ID,
			Name:   r.Name,
			Email:  r.Email,
			Role:   role,
			Status: status,
			OrgID:  r.OrgID,
		})
	}

	for _, r := range ds.Features {
		plans := make([]orgs.Plan, 0, len(r.AvailableOnPlans))
		for _, p := range r.AvailableOnPlans {
			plan := orgs.Plan(p)
			if !plan.Valid() {
				return Data{}, fmt.Errorf("feature %s: unknown plan %q", r.ID, p)
			}
			plans = append(plans, plan)
		}
		d.Features = append(d.Features, features.Feature{
			ID:               r.ID,
			Name:             r.Name,
			Description:      r.Description,
			Category:         r.Category,
			AvailableOnPlans: plans,
		})
	}

	for _, r := range ds.OrgFeatures {
		d.OrgFeatures = append(d.OrgFeatures, features.OrgFeature{
			OrgID:     r.OrgID,
			FeatureID: r.FeatureID,
			Enabled:   r.Enabled,
		})
	}
	return d, nil
}
