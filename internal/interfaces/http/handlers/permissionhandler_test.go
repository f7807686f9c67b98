package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/handlers/testutil"
)

func newTestPermissionHandler(svc *mockRBACService) *PermissionHandler {
	return NewPermissionHandler(svc, testutil.NewMockLogger())
}

func TestPermissionHandler_CheckConflicts(t *testing.T) {
	tests := []struct {
		name        string
		conflicts   []*dto.ConflictDTO
		wantMessage string
	}{
		{"none", []*dto.ConflictDTO{}, "No conflicts found"},
		{"redundant child", []*dto.ConflictDTO{{
			Type:               string(permission.ConflictRedundantChild),
			CheckingPermission: "Class detail",
			ConflictPermission: "Class list",
			Reason:             "parent already assigned, child is redundant",
		}}, "Conflicts found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRBACService{conflicts: &dto.ConflictCheckResult{RoleID: 2, Conflicts: tt.conflicts}}
			h := newTestPermissionHandler(svc)

			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/rbac/permissions/check-conflicts", map[string]any{
				"roleId": 2, "permissionIds": []uint{4},
			})

			h.CheckConflicts(c)

			require.Equal(t, http.StatusOK, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, tt.wantMessage, resp.Message)

			var data dto.ConflictCheckResult
			require.NoError(t, json.Unmarshal(resp.Data, &data))
			assert.Len(t, data.Conflicts, len(tt.conflicts))

			req := svc.gotBody.(dto.CheckConflictsRequest)
			assert.Equal(t, uint(2), req.RoleID)
		})
	}
}

func TestPermissionHandler_GetInheritance(t *testing.T) {
	svc := &mockRBACService{inheritance: &dto.InheritanceResult{
		Permission:       &dto.PermissionDTO{ID: 1, Code: "class"},
		ChildPermissions: []*dto.PermissionDTO{{ID: 2, Code: "class:list"}, {ID: 3, Code: "class:list:export"}},
	}}
	h := newTestPermissionHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/permissions/1/inheritance", nil)
	testutil.SetURLParam(c, "permissionId", "1")

	h.GetInheritance(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data dto.InheritanceResult
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "class", data.Permission.Code)
	assert.Len(t, data.ChildPermissions, 2)
}

func TestPermissionHandler_GetInheritance_NotFound(t *testing.T) {
	h := newTestPermissionHandler(&mockRBACService{err: permission.ErrPermissionNotFound()})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/permissions/42/inheritance", nil)
	testutil.SetURLParam(c, "permissionId", "42")

	h.GetInheritance(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, permission.ReasonPermissionNotFound, resp.Error.Reason)
}

func TestPermissionHandler_ListPermissions_Filters(t *testing.T) {
	svc := &mockRBACService{perms: []*dto.PermissionDTO{}, total: 0}
	h := newTestPermissionHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/permissions", nil)
	testutil.SetQueryParams(c, map[string]string{"type": "button", "parentId": "8"})

	h.ListPermissions(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "button", svc.gotPermQ.Type)
	require.NotNil(t, svc.gotPermQ.ParentID)
	assert.Equal(t, uint(8), *svc.gotPermQ.ParentID)
}

func TestPermissionHandler_ListPermissions_IgnoresBadParent(t *testing.T) {
	svc := &mockRBACService{perms: []*dto.PermissionDTO{}}
	h := newTestPermissionHandler(svc)

	c, _ := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/permissions", nil)
	testutil.SetQueryParams(c, map[string]string{"parentId": "-1"})

	h.ListPermissions(c)

	assert.Nil(t, svc.gotPermQ.ParentID)
}

func TestPermissionHandler_UpdatePermission_Cycle(t *testing.T) {
	h := newTestPermissionHandler(&mockRBACService{err: permission.ErrPermissionCycle("1 -> 2 -> 1")})

	c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/rbac/permissions/1", map[string]any{
		"name": "Class", "type": "menu", "parentId": 2,
	})
	testutil.SetURLParam(c, "permissionId", "1")

	h.UpdatePermission(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, permission.ReasonPermissionCycle, resp.Error.Reason)
}

func TestPermissionHandler_DeletePermission_InUse(t *testing.T) {
	h := newTestPermissionHandler(&mockRBACService{err: permission.ErrPermissionInUse()})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/rbac/permissions/3", nil)
	testutil.SetURLParam(c, "permissionId", "3")

	h.DeletePermission(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPermissionHandler_GetPermissionTree(t *testing.T) {
	svc := &mockRBACService{tree: []*dto.PermissionTreeNode{{
		PermissionDTO: &dto.PermissionDTO{ID: 1, Code: "class"},
		Children:      []*dto.PermissionTreeNode{{PermissionDTO: &dto.PermissionDTO{ID: 2, Code: "class:list"}}},
	}}}
	h := newTestPermissionHandler(svc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/rbac/permissions/tree", nil)

	h.GetPermissionTree(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"class:list"`)
}
