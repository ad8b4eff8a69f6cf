package auth

import (
	"errors"
	"fmt"
)

// Role is an account role. Fixed at account creation; a session never changes
// role mid-flight.
type Role string

const (
	// RoleSuperAdmin administers every organization and carries no home org.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleOrgAdmin administers a single organization.
	RoleOrgAdmin Role = "ORG_ADMIN"
	// RoleUser is a regular member of an organization.
	RoleUser Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOrgAdmin, RoleUser:
		return true
	}
	return false
}

// Status is an account status.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Principal is the authenticated identity.
type Principal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
	// HomeOrgID is nil only for super admins, who belong to no single org.
	HomeOrgID *string `json:"home_org_id"`
}

// Validate checks structural invariants. Used when rehydrating a stored
// session record, where the payload is untrusted.
func (p *Principal) Validate() error {
	if p.ID == "" {
		return errors.New("principal id is empty")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("unknown role %q", p.Role)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", p.Status)
	}
	if p.Role != RoleSuperAdmin && p.HomeOrgID == nil {
		return fmt.Errorf("role %s requires a home organization", p.Role)
	}
	return nil
}

// HasRole reports whether the principal's role is one of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Credentials is an identifier/secret pair presented at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var (
	// ErrInvalidCredentials is returned when login is rejected. Recovered by
	// the caller; never fatal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when the account exists but its status
	// blocks login.
	ErrAccountDisabled = errors.New("account is not active")
)
