package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/handlers/testutil"
)

func newTestUserRoleHandler(svc *mockRBACService) *UserRoleHandler {
	return NewUserRoleHandler(svc, testutil.NewMockLogger())
}

func TestUserRoleHandler_AssignRoles(t *testing.T) {
	svc := &mockRBACService{assignRoles: &dto.AssignRolesResult{UserID: 5, RoleCount: 1, NewlyAssigned: 1}}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewRawContext(http.MethodPost, "/api/v1/rbac/users/5/roles",
		`{"roleIds":[2],"isPrimary":1,"startTime":"2026-09-01T00:00:00Z","endTime":"2027-07-01T00:00:00Z"}`)
	testutil.SetURLParam(c, "userId", "5")
	testutil.SetAuthContext(c, 1)

	h.AssignRoles(c)

	require.Equal(t, http.StatusOK, w.Code)
	req := svc.gotBody.(dto.AssignRolesRequest)
	assert.Equal(t, []uint{2}, req.RoleIDs)
	assert.Equal(t, 1, req.IsPrimary)
	require.NotNil(t, req.StartTime)
	require.NotNil(t, req.EndTime)
	assert.True(t, req.StartTime.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, svc.gotActor)
	assert.Equal(t, uint(1), *svc.gotActor)
}

func TestUserRoleHandler_AssignRoles_UserNotFound(t *testing.T) {
	h := newTestUserRoleHandler(&mockRBACService{err: permission.ErrUserNotFound()})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/rbac/users/99/roles", map[string]any{"roleIds": []uint{1}})
	testutil.SetURLParam(c, "userId", "99")

	h.AssignRoles(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, permission.ReasonUserNotFound, resp.Error.Reason)
}

func TestUserRoleHandler_AssignRoles_BadTimestamp(t *testing.T) {
	svc := &mockRBACService{}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewRawContext(http.MethodPost, "/api/v1/rbac/users/5/roles", `{"roleIds":[2],"startTime":"yesterday"}`)
	testutil.SetURLParam(c, "userId", "5")

	h.AssignRoles(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotBody)
}

func TestUserRoleHandler_SetPrimaryRole(t *testing.T) {
	svc := &mockRBACService{primary: &dto.PrimaryRoleResult{UserID: 5, RoleID: 2, IsPrimary: 1}}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/rbac/users/5/roles/2/primary", nil)
	testutil.SetURLParam(c, "userId", "5")
	testutil.SetURLParam(c, "roleId", "2")

	h.SetPrimaryRole(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), svc.gotID)
	assert.Equal(t, uint(2), svc.gotSecondID)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data dto.PrimaryRoleResult
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 1, data.IsPrimary)
}

func TestUserRoleHandler_SetPrimaryRole_NotGranted(t *testing.T) {
	h := newTestUserRoleHandler(&mockRBACService{err: permission.ErrUserRoleNotFound()})

	c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/rbac/users/5/roles/2/primary", nil)
	testutil.SetURLParam(c, "userId", "5")
	testutil.SetURLParam(c, "roleId", "2")

	h.SetPrimaryRole(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, permission.ReasonUserRoleNotFound, resp.Error.Reason)
}

func TestUserRoleHandler_UpdateValidity(t *testing.T) {
	svc := &mockRBACService{userRole: &dto.UserRoleDTO{ID: 12, UserID: 5, RoleID: 2}}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewRawContext(http.MethodPut, "/api/v1/rbac/user-roles/12/validity", `{"endTime":"2027-01-01T00:00:00Z"}`)
	testutil.SetURLParam(c, "userRoleId", "12")

	h.UpdateValidity(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(12), svc.gotID)
	req := svc.gotBody.(dto.UpdateValidityRequest)
	assert.Nil(t, req.StartTime)
	require.NotNil(t, req.EndTime)
}

func TestUserRoleHandler_GetRoleHistory_DefaultPagination(t *testing.T) {
	svc := &mockRBACService{roleHistory: &dto.UserRoleHistoryPage{Page: 1, PageSize: 20, History: []*dto.UserRoleHistoryItem{}}}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/users/5/role-history", nil)
	testutil.SetURLParam(c, "userId", "5")

	h.GetRoleHistory(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.gotPage)
	assert.Equal(t, 20, svc.gotPageSize)
	assert.Contains(t, w.Body.String(), `"history":[]`)
}

func TestUserRoleHandler_CheckAccess(t *testing.T) {
	svc := &mockRBACService{access: &dto.AccessCheckResult{UserID: 5, Code: "class:view", Allowed: true}}
	h := newTestUserRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/users/5/access", nil)
	testutil.SetURLParam(c, "userId", "5")
	testutil.SetQueryParams(c, map[string]string{"code": "class:view"})

	h.CheckAccess(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "class:view", svc.gotCode)
	assert.Contains(t, w.Body.String(), `"allowed":true`)
}
