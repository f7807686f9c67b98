package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/handlers/testutil"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
)

func newTestRoleHandler(svc *mockRBACService) *RoleHandler {
	return NewRoleHandler(svc, testutil.NewMockLogger())
}

func TestRoleHandler_AssignPermissions_Success(t *testing.T) {
	svc := &mockRBACService{assignPerms: &dto.AssignPermissionsResult{RoleID: 3, PermissionCount: 2, NewlyAssigned: 1}}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/rbac/roles/3/permissions", map[string]any{
		"permissionIds": []uint{10, 11},
	})
	testutil.SetURLParam(c, "roleId", "3")
	testutil.SetAuthContext(c, 7)

	h.AssignPermissions(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data dto.AssignPermissionsResult
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, uint(3), data.RoleID)
	assert.Equal(t, 2, data.PermissionCount)
	assert.Equal(t, int64(1), data.NewlyAssigned)

	assert.Equal(t, uint(3), svc.gotID)
	require.NotNil(t, svc.gotActor)
	assert.Equal(t, uint(7), *svc.gotActor)
	assert.Equal(t, []uint{10, 11}, svc.gotBody.(dto.AssignPermissionsRequest).PermissionIDs)
}

func TestRoleHandler_AssignPermissions_Anonymous(t *testing.T) {
	svc := &mockRBACService{assignPerms: &dto.AssignPermissionsResult{RoleID: 3}}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/rbac/roles/3/permissions", map[string]any{
		"permissionIds": []uint{10},
		"grantorId":     5,
	})
	testutil.SetURLParam(c, "roleId", "3")

	h.AssignPermissions(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.gotActor)
	req := svc.gotBody.(dto.AssignPermissionsRequest)
	require.NotNil(t, req.GrantorID)
	assert.Equal(t, uint(5), *req.GrantorID)
}

func TestRoleHandler_AssignPermissions_Errors(t *testing.T) {
	tests := []struct {
		name       string
		roleID     string
		body       string
		svcErr     error
		wantStatus int
		wantReason string
	}{
		{
			name:       "invalid role id",
			roleID:     "abc",
			body:       `{"permissionIds":[1]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			roleID:     "1",
			body:       `{"permissionIds":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "role not found",
			roleID:     "1",
			body:       `{"permissionIds":[1]}`,
			svcErr:     permission.ErrRoleNotFound(),
			wantStatus: http.StatusNotFound,
			wantReason: permission.ReasonRoleNotFound,
		},
		{
			name:       "unexpected failure",
			roleID:     "1",
			body:       `{"permissionIds":[1]}`,
			svcErr:     errors.Wrap(stderrors.New("deadlock found"), permission.ReasonPermissionAssignError, "failed to assign permissions"),
			wantStatus: http.StatusInternalServerError,
			wantReason: permission.ReasonPermissionAssignError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRoleHandler(&mockRBACService{err: tt.svcErr})
			c, w := testutil.NewRawContext(http.MethodPost, "/api/v1/rbac/roles/x/permissions", tt.body)
			testutil.SetURLParam(c, "roleId", tt.roleID)

			h.AssignPermissions(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.NotEmpty(t, resp.Message)
			assert.NotContains(t, w.Body.String(), "deadlock")
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, resp.Error.Reason)
			}
		})
	}
}

func TestRoleHandler_RemovePermissions(t *testing.T) {
	svc := &mockRBACService{removePerms: &dto.RemovePermissionsResult{RoleID: 4, RemovedCount: 2}}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/rbac/roles/4/permissions", map[string]any{
		"permissionIds": []uint{1, 2},
	})
	testutil.SetURLParam(c, "roleId", "4")

	h.RemovePermissions(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data dto.RemovePermissionsResult
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(2), data.RemovedCount)
	assert.Equal(t, uint(4), svc.gotID)
}

func TestRoleHandler_GetPermissionHistory_Pagination(t *testing.T) {
	svc := &mockRBACService{permHistory: &dto.RolePermissionHistoryPage{Total: 0, Page: 2, PageSize: 5, List: []*dto.RolePermissionHistoryItem{}}}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/roles/9/permission-history", nil)
	testutil.SetURLParam(c, "roleId", "9")
	testutil.SetQueryParams(c, map[string]string{"page": "2", "pageSize": "5"})

	h.GetPermissionHistory(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.gotPage)
	assert.Equal(t, 5, svc.gotPageSize)
	assert.Contains(t, w.Body.String(), `"list":[]`)
}

func TestRoleHandler_CreateRole(t *testing.T) {
	svc := &mockRBACService{role: &dto.RoleDTO{ID: 1, Name: "Teacher", Code: "teacher", Status: "active"}}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/rbac/roles", map[string]any{
		"name": "Teacher", "code": "teacher",
	})

	h.CreateRole(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher", svc.gotBody.(dto.CreateRoleRequest).Code)
}

func TestRoleHandler_ListRoles(t *testing.T) {
	svc := &mockRBACService{
		roles: []*dto.RoleDTO{{ID: 1, Code: "teacher"}},
		total: 21,
	}
	h := newTestRoleHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/roles", nil)
	testutil.SetQueryParams(c, map[string]string{"page": "3", "page_size": "10", "status": "active", "keyword": " tea "})

	h.ListRoles(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tea", svc.gotRoleQ.Keyword)
	assert.Equal(t, "active", svc.gotRoleQ.Status)
	assert.Equal(t, 3, svc.gotRoleQ.Page)
	assert.Equal(t, 10, svc.gotRoleQ.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(21), data.Total)
	assert.Equal(t, 3, data.TotalPages)
}

func TestRoleHandler_DeleteRole_Protected(t *testing.T) {
	h := newTestRoleHandler(&mockRBACService{err: permission.ErrProtectedRole("admin")})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/rbac/roles/1", nil)
	testutil.SetURLParam(c, "roleId", "1")

	h.DeleteRole(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, permission.ReasonProtectedRole, resp.Error.Reason)
}
