package orgs

import (
	"errors"
	"time"
)

// Plan represents subscription plan tiers.
type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Status represents organization status.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Organization represents a tenant of the console.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	Industry  string    `json:"industry"`
	Plan      Plan      `json:"plan"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest represents a request to create an organization.
type CreateRequest struct {
	Name     string `json:"name"`
	Logo     string `json:"logo,omitempty"`
	Industry string `json:"industry"`
	Plan     Plan   `json:"plan"`
	Status   Status `json:"status,omitempty"`
}

// UpdateRequest represents a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Logo     *string `json:"logo,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Plan     *Plan   `json:"plan,omitempty"`
	Status   *Status `json:"status,omitempty"`
}

var (
	// ErrNotFound is returned when an organization id resolves to nothing.
	ErrNotFound = errors.New("organization not found")

	// ErrDuplicateName is returned when a create or rename collides with an
	// existing organization name (case-insensitive).
	ErrDuplicateName = errors.New("an organization with this name already exists")
)
