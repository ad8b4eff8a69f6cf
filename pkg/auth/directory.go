package auth

import (
	"context"
	"strings"
)

// Authenticator resolves credentials to a principal. Exactly one of
// (principal, error) is produced per call.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Principal, error)
}

type staticAccount struct {
	password  string
	principal Principal
}

// StaticDirectory is the demo credential table. There is no real credential
// store behind it; a deployment swapping in a real backend must preserve the
// Authenticator contract.
type StaticDirectory struct {
	accounts map[string]staticAccount
}

// NewStaticDirectory builds the directory with the three demo accounts.
func NewStaticDirectory() *StaticDirectory {
	org1 := "org1"
	return &StaticDirectory{
		accounts: map[string]staticAccount{
			"admin@example.com": {
				password: "password",
				principal: Principal{
					ID:     "1",
					Name:   "Super Admin",
					Email:  "admin@example.com",
					Role:   RoleSuperAdmin,
					Status: StatusActive,
				},
			},
			"orgadmin@example.com": {
				password: "password",
				principal: Principal{
					ID:        "2",
					Name:      "Org Admin",
					Email:     "orgadmin@example.com",
					Role:      RoleOrgAdmin,
					Status:    StatusActive,
					HomeOrgID: &org1,
				},
			},
			"user@example.com": {
				password: "password",
				principal: Principal{
					ID:        "3",
					Name:      "Basic User",
					Email:     "user@example.com",
					Role:      RoleUser,
					Status:    StatusActive,
					HomeOrgID: &org1,
				},
			},
		},
	}
}

// Authenticate implements Authenticator. A non-active account is rejected for
// every role, super admins included.
func (d *StaticDirectory) Authenticate(_ context.Context, creds Credentials) (*Principal, error) {
	account, ok := d.accounts[strings.ToLower(creds.Email)]
	if !ok || account.password != creds.Password {
		return nil, ErrInvalidCredentials
	}
	if account.principal.Status != StatusActive {
		return nil, ErrAccountDisabled
	}
	p := account.principal
	if p.HomeOrgID != nil {
		id := *p.HomeOrgID
		p.HomeOrgID = &id
	}
	return &p, nil
}
