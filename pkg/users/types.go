package users

import (
	"errors"
	"time"

	"github.com/atriumhq/atrium/pkg/auth"
)

// FreePlanSeatLimit is the maximum number of members an organization on the
// FREE plan can hold.
const FreePlanSeatLimit = 5

// User represents a member of an organization.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      auth.Role   `json:"role"`
	Status    auth.Status `json:"status"`
	OrgID     string      `json:"org_id"`
	CreatedAt time.Time   `json:"created_at"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// CreateRequest represents a request to add a user to an organization.
type CreateRequest struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   auth.Role   `json:"role"`
	OrgID  string      `json:"org_id"`
	Status auth.Status `json:"status,omitempty"`
}

// UpdateRequest represents a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name   *string      `json:"name,omitempty"`
	Email  *string      `json:"email,omitempty"`
	Role   *auth.Role   `json:"role,omitempty"`
	Status *auth.Status `json:"status,omitempty"`
}

var (
	// ErrNotFound is returned when a user id resolves to nothing.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when an email is already taken inside
	// the target organization.
	ErrDuplicateEmail = errors.New("a user with this email already exists in the organization")

	// ErrSeatLimitReached is returned when the organization's plan does not
	// allow any more members.
	ErrSeatLimitReached = errors.New("user limit reached for the FREE plan")
)
