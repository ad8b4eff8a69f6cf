package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/orgs"
)

func seedDirectory() *orgs.Service {
	return orgs.NewService([]orgs.Organization{
		{ID: "org1", Name: "Acme Corporation", Industry: "Technology", Plan: orgs.PlanEnterprise, Status: orgs.StatusActive},
		{ID: "org3", Name: "Startup Hub", Industry: "Education", Plan: orgs.PlanFree, Status: orgs.StatusActive},
	}, notify.NopNotifier{}, nil, 0)
}

func seedUsers() []User {
	return []User{
		{ID: "1", Name: "Super Admin", Email: "admin@example.com", Role: auth.RoleSuperAdmin, Status: auth.StatusActive},
		{ID: "2", Name: "Org Admin", Email: "orgadmin@example.com", Role: auth.RoleOrgAdmin, Status: auth.StatusActive, OrgID: "org1"},
		{ID: "3", Name: "Basic User", Email: "user@example.com", Role: auth.RoleUser, Status: auth.StatusActive, OrgID: "org1"},
		{ID: "4", Name: "Jane Smith", Email: "jane@startuphub.io", Role: auth.RoleUser, Status: auth.StatusActive, OrgID: "org3"},
	}
}

func newTestService(t *testing.T) (*Service, *orgs.Service) {
	t.Helper()
	dir := seedDirectory()
	return NewService(seedUsers(), dir, notify.NopNotifier{}, nil, 0), dir
}

func TestListFilters(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	all, err := s.List(ctx, "", "", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	byOrg, err := s.List(ctx, "org1", "", "", "")
	require.NoError(t, err)
	assert.Len(t, byOrg, 2)

	bySearch, err := s.List(ctx, "", "jane", "", "")
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "4", bySearch[0].ID)

	byRole, err := s.List(ctx, "", "", auth.RoleOrgAdmin, "")
	require.NoError(t, err)
	assert.Len(t, byRole, 1)
}

func TestCreateAssignsSequentialID(t *testing.T) {
	s, _ := newTestService(t)

	u, err := s.Create(context.Background(), CreateRequest{
		Name:  "New Member",
		Email: "new@acme.com",
		Role:  auth.RoleUser,
		OrgID: "org1",
	})
	require.NoError(t, err)
	assert.Equal(t, "5", u.ID)
	assert.Equal(t, auth.StatusActive, u.Status)
}

func TestCreateRejectsDuplicateEmailWithinOrg(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateRequest{Name: "Dup", Email: "USER@example.com", Role: auth.RoleUser, OrgID: "org1"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// The same address is fine in a different organization.
	_, err = s.Create(ctx, CreateRequest{Name: "Other Org", Email: "user@example.com", Role: auth.RoleUser, OrgID: "org3"})
	assert.NoError(t, err)
}

func TestCreateRejectsUnknownOrganization(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Create(context.Background(), CreateRequest{Name: "X", Email: "x@x.com", Role: auth.RoleUser, OrgID: "org999"})
	assert.ErrorIs(t, err, orgs.ErrNotFound)
}

func TestFreePlanSeatLimit(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	// org3 is on FREE and starts with one member.
	for i := 0; i < FreePlanSeatLimit-1; i++ {
		_, err := s.Create(ctx, CreateRequest{
			Name:  "Member",
			Email: "member" + string(rune('a'+i)) + "@startuphub.io",
			Role:  auth.RoleUser,
			OrgID: "org3",
		})
		require.NoError(t, err)
	}
	assert.Equal(t, FreePlanSeatLimit, s.CountByOrg("org3"))

	ok, err := s.CanAdd(ctx, "org3")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Create(ctx, CreateRequest{Name: "Over", Email: "over@startuphub.io", Role: auth.RoleUser, OrgID: "org3"})
	assert.ErrorIs(t, err, ErrSeatLimitReached)

	// Paid plans are not capped.
	ok, err = s.CanAdd(ctx, "org1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdatePartial(t *testing.T) {
	s, _ := newTestService(t)

	role := auth.RoleOrgAdmin
	u, err := s.Update(context.Background(), "3", UpdateRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOrgAdmin, u.Role)
	assert.Equal(t, "Basic User", u.Name, "unset fields stay unchanged")
}

func TestUpdateRejectsDuplicateEmail(t *testing.T) {
	s, _ := newTestService(t)

	email := "orgadmin@example.com"
	_, err := s.Update(context.Background(), "3", UpdateRequest{Email: &email})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestDelete(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "4"))
	_, err := s.Get(ctx, "4")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "4"), ErrNotFound)
}

func TestOrganizationSuspensionCascades(t *testing.T) {
	s, dir := newTestService(t)
	ctx := context.Background()

	suspended := orgs.StatusSuspended
	_, err := dir.Update(ctx, "org1", orgs.UpdateRequest{Status: &suspended})
	require.NoError(t, err)

	members, err := s.List(ctx, "org1", "", "", "")
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, u := range members {
		assert.Equal(t, auth.StatusSuspended, u.Status)
	}

	// Members of other organizations are untouched.
	u, err := s.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, auth.StatusActive, u.Status)
}

func TestSendPasswordReset(t *testing.T) {
	dir := seedDirectory()
	hub := notify.NewHub(0)
	s := NewService(seedUsers(), dir, hub, nil, 0)
	ctx := context.Background()

	require.NoError(t, s.SendPasswordReset(ctx, "3"))

	toasts := hub.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.KindInfo, toasts[0].Kind)
	assert.Equal(t, "Password reset email sent to user@example.com", toasts[0].Message)

	assert.ErrorIs(t, s.SendPasswordReset(ctx, "999"), ErrNotFound)
}

func TestListHonorsContextCancellation(t *testing.T) {
	dir := seedDirectory()
	s := NewService(seedUsers(), dir, notify.NopNotifier{}, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx, "", "", "", "")
	assert.ErrorIs(t, err, context.Canceled)
}
