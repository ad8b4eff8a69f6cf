package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/features"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/scope"
	"github.com/atriumhq/atrium/pkg/seed"
	"github.com/atriumhq/atrium/pkg/usage"
	"github.com/atriumhq/atrium/pkg/users"
)

type testEnv struct {
	server  *Server
	session *auth.Session
	hub     *notify.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	data, err := seed.Load()
	require.NoError(t, err)

	hub := notify.NewHub(0)
	session := auth.NewSession(auth.NewStaticDirectory(), auth.NewMemoryStore(), hub, nil, 0)
	session.Initialize()
	selector := scope.NewSelector(session)

	orgService := orgs.NewService(data.Organizations, hub, nil, 0)
	userService := users.NewService(data.Users, orgService, hub, nil, 0)
	featureService := features.NewService(data.Features, data.OrgFeatures, orgService, hub, nil, 0)
	usageService := usage.NewService(orgService, nil, 0)

	server := NewServer(Deps{
		Session:  session,
		Selector: selector,
		Orgs:     orgService,
		Users:    userService,
		Features: featureService,
		Usage:    usageService,
		Hub:      hub,
	})

	return &testEnv{server: server, session: session, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) loginAs(t *testing.T, email string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginSuccess(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "password",
	})

	require.Equal(t, http.StatusOK, w.Code)
	p := decode[auth.Principal](t, w)
	assert.Equal(t, auth.RoleSuperAdmin, p.Role)
	assert.True(t, e.session.IsAuthenticated())
}

func TestLoginBadCredentials(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, e.session.IsAuthenticated())
}

func TestLoginMissingFields(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutIdempotentOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodPost, "/api/v1/auth/logout", nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodPost, "/api/v1/auth/logout", nil).Code)
	assert.False(t, e.session.IsAuthenticated())
}

func TestSessionEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "/api/v1/auth/session", body["return_to"])

	e.loginAs(t, "orgadmin@example.com")
	w = e.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[auth.Principal](t, w)
	assert.Equal(t, "orgadmin@example.com", p.Email)
}

func TestGuardPreservesQueryInReturnTo(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/v1/orgs?search=acme&status=ACTIVE", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "/api/v1/orgs?search=acme&status=ACTIVE", body["return_to"])
}

func TestOrgRoutesSuperAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/orgs", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "/dashboard", body["redirect"])
}

func TestOrgCRUD(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/orgs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]orgs.Organization](t, w)
	assert.Len(t, list, 5)

	w = e.do(t, http.MethodPost, "/api/v1/orgs", map[string]string{
		"name": "Initech", "industry": "Software", "plan": "PRO",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[orgs.Organization](t, w)
	assert.Equal(t, "org6", created.ID)

	w = e.do(t, http.MethodPost, "/api/v1/orgs", map[string]string{
		"name": "initech", "industry": "Software", "plan": "FREE",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPut, "/api/v1/orgs/org6", map[string]string{"plan": "ENTERPRISE"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[orgs.Organization](t, w)
	assert.Equal(t, orgs.PlanEnterprise, updated.Plan)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/api/v1/orgs/org6", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/orgs/org6", nil).Code)
}

func TestOrgCreateValidation(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodPost, "/api/v1/orgs", map[string]string{"name": "X", "plan": "PLATINUM"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScopeSelection(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/scope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s := decode[map[string]*string](t, w)
	assert.Nil(t, s["selected"])
	assert.Nil(t, s["effective"])

	w = e.do(t, http.MethodPut, "/api/v1/scope", map[string]string{"org_id": "org2"})
	require.Equal(t, http.StatusOK, w.Code)
	s = decode[map[string]*string](t, w)
	require.NotNil(t, s["effective"])
	assert.Equal(t, "org2", *s["effective"])

	w = e.do(t, http.MethodPut, "/api/v1/scope", map[string]string{"org_id": "org999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScopeSetForbiddenForOrgAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodPut, "/api/v1/scope", map[string]string{"org_id": "org2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Effective scope stays pinned to the home organization.
	w = e.do(t, http.MethodGet, "/api/v1/scope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s := decode[map[string]*string](t, w)
	require.NotNil(t, s["effective"])
	assert.Equal(t, "org1", *s["effective"])
}

func TestScopeResetsOnReLogin(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/scope", map[string]string{"org_id": "org3"}).Code)

	e.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/scope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s := decode[map[string]*string](t, w)
	assert.Nil(t, s["selected"], "a new session must not inherit the previous selection")
}

func TestUserListScopedToEffectiveOrg(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]users.User](t, w)
	require.NotEmpty(t, list)
	for _, u := range list {
		assert.Equal(t, "org1", u.OrgID)
	}
}

func TestUserListSuperAdminFollowsSelection(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]users.User](t, w)
	assert.Len(t, all, 8)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/scope", map[string]string{"org_id": "org2"}).Code)

	w = e.do(t, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	scoped := decode[[]users.User](t, w)
	require.NotEmpty(t, scoped)
	for _, u := range scoped {
		assert.Equal(t, "org2", u.OrgID)
	}
}

func TestUserCreateOutsideHomeOrgForbidden(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"name": "Intruder", "email": "x@globex.com", "role": "USER", "org_id": "org2",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserSeatLimitOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	// org3 is FREE with one seeded member.
	for i := 0; i < users.FreePlanSeatLimit-1; i++ {
		w := e.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"name":   "Member",
			"email":  fmt.Sprintf("member%d@startuphub.io", i),
			"role":   "USER",
			"org_id": "org3",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := e.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"name": "Over", "email": "over@startuphub.io", "role": "USER", "org_id": "org3",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPasswordReset(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")
	e.hub.Clear()

	w := e.do(t, http.MethodPost, "/api/v1/users/3/password-reset", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	toasts := e.hub.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Password reset email sent to user@example.com", toasts[0].Message)
}

func TestFeatureRoutesDenyRegularUser(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "user@example.com")

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/api/v1/features", nil).Code)
}

func TestFeatureMatrixAndToggle(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/orgs/org1/features", nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]features.View](t, w)
	assert.Len(t, views, 6)

	w = e.do(t, http.MethodPost, "/api/v1/orgs/org1/features/feat5/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[map[string]bool](t, w)
	assert.True(t, state["enabled"])

	// Cross-org access is rejected before the toggle happens.
	w = e.do(t, http.MethodPost, "/api/v1/orgs/org2/features/feat1/toggle", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeatureToggleOutsidePlan(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	// org3 is FREE; feat4 is enterprise only.
	w := e.do(t, http.MethodPost, "/api/v1/orgs/org3/features/feat4/toggle", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUsageReportAndExport(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/orgs/org1/usage?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[usage.Report](t, w)
	assert.Len(t, report.Points, 7)
	assert.Equal(t, 100000, report.Quota.APICalls)

	w = e.do(t, http.MethodGet, "/api/v1/orgs/org1/usage/export?format=csv&days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Date,API Calls,Active Users,Storage (MB)")

	w = e.do(t, http.MethodGet, "/api/v1/orgs/org1/usage/export?format=pdf", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestUsageCrossOrgForbidden(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "orgadmin@example.com")

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/api/v1/orgs/org2/usage", nil).Code)
}

func TestOrgAccessWithoutPrincipalRefused(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/orgs/org1/usage", nil)

	require.False(t, requireOrgAccess(w, r, "org1"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestNotifications(t *testing.T) {
	e := newTestEnv(t)
	e.loginAs(t, "admin@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	toasts := decode[[]notify.Toast](t, w)
	require.NotEmpty(t, toasts, "login leaves a welcome toast")

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/api/v1/notifications/"+toasts[0].ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/api/v1/notifications", nil).Code)

	w = e.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]notify.Toast](t, w))
}
