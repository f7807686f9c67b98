package handlers

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
)

// =====================================================================
// Mock RBAC service
// =====================================================================

// mockRBACService records the last call and returns the configured values.
type mockRBACService struct {
	err error

	role        *dto.RoleDTO
	roles       []*dto.RoleDTO
	perm        *dto.PermissionDTO
	perms       []*dto.PermissionDTO
	total       int64
	tree        []*dto.PermissionTreeNode
	assignPerms *dto.AssignPermissionsResult
	removePerms *dto.RemovePermissionsResult
	rolePerms   *dto.RolePermissionsResult
	permHistory *dto.RolePermissionHistoryPage
	inheritance *dto.InheritanceResult
	conflicts   *dto.ConflictCheckResult
	assignRoles *dto.AssignRolesResult
	removeRoles *dto.RemoveRolesResult
	userRoles   *dto.UserRolesResult
	primary     *dto.PrimaryRoleResult
	userRole    *dto.UserRoleDTO
	roleHistory *dto.UserRoleHistoryPage
	effective   *dto.EffectivePermissionsResult
	access      *dto.AccessCheckResult

	gotID       uint
	gotSecondID uint
	gotActor    *uint
	gotPage     int
	gotPageSize int
	gotCode     string
	gotRoleQ    usecases.ListRolesQuery
	gotPermQ    usecases.ListPermissionsQuery
	gotBody     any
}

func (m *mockRBACService) CreateRole(_ context.Context, req dto.CreateRoleRequest) (*dto.RoleDTO, error) {
	m.gotBody = req
	return m.role, m.err
}

func (m *mockRBACService) GetRole(_ context.Context, roleID uint) (*dto.RoleDTO, error) {
	m.gotID = roleID
	return m.role, m.err
}

func (m *mockRBACService) ListRoles(_ context.Context, query usecases.ListRolesQuery) ([]*dto.RoleDTO, int64, error) {
	m.gotRoleQ = query
	return m.roles, m.total, m.err
}

func (m *mockRBACService) UpdateRole(_ context.Context, roleID uint, req dto.UpdateRoleRequest) (*dto.RoleDTO, error) {
	m.gotID = roleID
	m.gotBody = req
	return m.role, m.err
}

func (m *mockRBACService) DeleteRole(_ context.Context, roleID uint) error {
	m.gotID = roleID
	return m.err
}

func (m *mockRBACService) AssignPermissionsToRole(_ context.Context, roleID uint, req dto.AssignPermissionsRequest, actorID *uint) (*dto.AssignPermissionsResult, error) {
	m.gotID = roleID
	m.gotBody = req
	m.gotActor = actorID
	return m.assignPerms, m.err
}

func (m *mockRBACService) RemovePermissionsFromRole(_ context.Context, roleID uint, req dto.RemovePermissionsRequest) (*dto.RemovePermissionsResult, error) {
	m.gotID = roleID
	m.gotBody = req
	return m.removePerms, m.err
}

func (m *mockRBACService) GetRolePermissions(_ context.Context, roleID uint) (*dto.RolePermissionsResult, error) {
	m.gotID = roleID
	return m.rolePerms, m.err
}

func (m *mockRBACService) GetRolePermissionHistory(_ context.Context, roleID uint, page, pageSize int) (*dto.RolePermissionHistoryPage, error) {
	m.gotID = roleID
	m.gotPage, m.gotPageSize = page, pageSize
	return m.permHistory, m.err
}

func (m *mockRBACService) CreatePermission(_ context.Context, req dto.CreatePermissionRequest) (*dto.PermissionDTO, error) {
	m.gotBody = req
	return m.perm, m.err
}

func (m *mockRBACService) GetPermission(_ context.Context, permissionID uint) (*dto.PermissionDTO, error) {
	m.gotID = permissionID
	return m.perm, m.err
}

func (m *mockRBACService) ListPermissions(_ context.Context, query usecases.ListPermissionsQuery) ([]*dto.PermissionDTO, int64, error) {
	m.gotPermQ = query
	return m.perms, m.total, m.err
}

func (m *mockRBACService) GetPermissionTree(context.Context) ([]*dto.PermissionTreeNode, error) {
	return m.tree, m.err
}

func (m *mockRBACService) UpdatePermission(_ context.Context, permissionID uint, req dto.UpdatePermissionRequest) (*dto.PermissionDTO, error) {
	m.gotID = permissionID
	m.gotBody = req
	return m.perm, m.err
}

func (m *mockRBACService) DeletePermission(_ context.Context, permissionID uint) error {
	m.gotID = permissionID
	return m.err
}

func (m *mockRBACService) GetPermissionInheritance(_ context.Context, permissionID uint) (*dto.InheritanceResult, error) {
	m.gotID = permissionID
	return m.inheritance, m.err
}

func (m *mockRBACService) CheckPermissionConflicts(_ context.Context, req dto.CheckConflictsRequest) (*dto.ConflictCheckResult, error) {
	m.gotBody = req
	return m.conflicts, m.err
}

func (m *mockRBACService) AssignRolesToUser(_ context.Context, userID uint, req dto.AssignRolesRequest, actorID *uint) (*dto.AssignRolesResult, error) {
	m.gotID = userID
	m.gotBody = req
	m.gotActor = actorID
	return m.assignRoles, m.err
}

func (m *mockRBACService) RemoveRolesFromUser(_ context.Context, userID uint, req dto.RemoveRolesRequest) (*dto.RemoveRolesResult, error) {
	m.gotID = userID
	m.gotBody = req
	return m.removeRoles, m.err
}

func (m *mockRBACService) GetUserRoles(_ context.Context, userID uint) (*dto.UserRolesResult, error) {
	m.gotID = userID
	return m.userRoles, m.err
}

func (m *mockRBACService) SetPrimaryRole(_ context.Context, userID, roleID uint) (*dto.PrimaryRoleResult, error) {
	m.gotID, m.gotSecondID = userID, roleID
	return m.primary, m.err
}

func (m *mockRBACService) UpdateRoleValidity(_ context.Context, userRoleID uint, req dto.UpdateValidityRequest) (*dto.UserRoleDTO, error) {
	m.gotID = userRoleID
	m.gotBody = req
	return m.userRole, m.err
}

func (m *mockRBACService) GetUserRoleHistory(_ context.Context, userID uint, page, pageSize int) (*dto.UserRoleHistoryPage, error) {
	m.gotID = userID
	m.gotPage, m.gotPageSize = page, pageSize
	return m.roleHistory, m.err
}

func (m *mockRBACService) GetUserEffectivePermissions(_ context.Context, userID uint) (*dto.EffectivePermissionsResult, error) {
	m.gotID = userID
	return m.effective, m.err
}

func (m *mockRBACService) CheckUserAccess(_ context.Context, userID uint, code string) (*dto.AccessCheckResult, error) {
	m.gotID = userID
	m.gotCode = code
	return m.access, m.err
}

var (
	_ RoleService       = (*mockRBACService)(nil)
	_ PermissionService = (*mockRBACService)(nil)
	_ UserRoleService   = (*mockRBACService)(nil)
)
