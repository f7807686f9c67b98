// Package permission is the application service for role and permission
// administration.
package permission

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	domainPermission "github.com/kinderhub/kinderhub/internal/domain/permission"
	domainUser "github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type Dependencies struct {
	TxManager          usecases.TransactionRunner
	UserRepo           domainUser.Repository
	RoleRepo           domainPermission.RoleRepository
	PermissionRepo     domainPermission.PermissionRepository
	RolePermissionRepo domainPermission.RolePermissionRepository
	UserRoleRepo       domainPermission.UserRoleRepository
	Cache              usecases.PermissionCache
	Policies           usecases.PolicyStore
	Sanitizer          usecases.TextSanitizer
	Settings           usecases.Settings
	Logger             logger.Interface
}

// ServiceDDD validates requests and dispatches them to the use cases.
type ServiceDDD struct {
	accessSync *usecases.AccessSync

	assignPermissionsUC  *usecases.AssignPermissionsToRoleUseCase
	removePermissionsUC  *usecases.RemovePermissionsFromRoleUseCase
	getRolePermissionsUC *usecases.GetRolePermissionsUseCase
	inheritanceUC        *usecases.GetPermissionInheritanceUseCase
	checkConflictsUC     *usecases.CheckPermissionConflictsUseCase
	rolePermHistoryUC    *usecases.GetRolePermissionHistoryUseCase

	assignRolesUC     *usecases.AssignRolesToUserUseCase
	removeRolesUC     *usecases.RemoveRolesFromUserUseCase
	getUserRolesUC    *usecases.GetUserRolesUseCase
	setPrimaryRoleUC  *usecases.SetPrimaryRoleUseCase
	updateValidityUC  *usecases.UpdateRoleValidityUseCase
	userRoleHistoryUC *usecases.GetUserRoleHistoryUseCase
	effectivePermsUC  *usecases.GetUserEffectivePermissionsUseCase
	checkUserAccessUC *usecases.CheckUserAccessUseCase

	createRoleUC *usecases.CreateRoleUseCase
	getRoleUC    *usecases.GetRoleUseCase
	listRolesUC  *usecases.ListRolesUseCase
	updateRoleUC *usecases.UpdateRoleUseCase
	deleteRoleUC *usecases.DeleteRoleUseCase

	createPermissionUC *usecases.CreatePermissionUseCase
	getPermissionUC    *usecases.GetPermissionUseCase
	listPermissionsUC  *usecases.ListPermissionsUseCase
	permissionTreeUC   *usecases.GetPermissionTreeUseCase
	updatePermissionUC *usecases.UpdatePermissionUseCase
	deletePermissionUC *usecases.DeletePermissionUseCase
}

func NewServiceDDD(d Dependencies) *ServiceDDD {
	log := d.Logger
	refresher := usecases.NewAccessSync(d.RoleRepo, d.PermissionRepo, d.RolePermissionRepo, d.UserRoleRepo, d.Cache, d.Policies, d.Settings, log)

	return &ServiceDDD{
		accessSync: refresher,

		assignPermissionsUC:  usecases.NewAssignPermissionsToRoleUseCase(d.TxManager, d.RoleRepo, d.PermissionRepo, d.RolePermissionRepo, refresher, log),
		removePermissionsUC:  usecases.NewRemovePermissionsFromRoleUseCase(d.TxManager, d.RoleRepo, d.RolePermissionRepo, refresher, log),
		getRolePermissionsUC: usecases.NewGetRolePermissionsUseCase(d.RoleRepo, d.PermissionRepo, d.RolePermissionRepo, log),
		inheritanceUC:        usecases.NewGetPermissionInheritanceUseCase(d.PermissionRepo, d.Settings, log),
		checkConflictsUC:     usecases.NewCheckPermissionConflictsUseCase(d.RoleRepo, d.PermissionRepo, d.RolePermissionRepo, d.Settings, log),
		rolePermHistoryUC:    usecases.NewGetRolePermissionHistoryUseCase(d.RoleRepo, d.RolePermissionRepo, log),

		assignRolesUC:     usecases.NewAssignRolesToUserUseCase(d.TxManager, d.UserRepo, d.RoleRepo, d.UserRoleRepo, refresher, log),
		removeRolesUC:     usecases.NewRemoveRolesFromUserUseCase(d.TxManager, d.UserRepo, d.UserRoleRepo, refresher, log),
		getUserRolesUC:    usecases.NewGetUserRolesUseCase(d.UserRepo, d.RoleRepo, d.UserRoleRepo, log),
		setPrimaryRoleUC:  usecases.NewSetPrimaryRoleUseCase(d.TxManager, d.UserRepo, d.UserRoleRepo, log),
		updateValidityUC:  usecases.NewUpdateRoleValidityUseCase(d.TxManager, d.RoleRepo, d.UserRoleRepo, refresher, log),
		userRoleHistoryUC: usecases.NewGetUserRoleHistoryUseCase(d.UserRepo, d.UserRoleRepo, log),
		effectivePermsUC: usecases.NewGetUserEffectivePermissionsUseCase(
			d.UserRepo, d.RoleRepo, d.PermissionRepo, d.RolePermissionRepo, d.UserRoleRepo, d.Cache, d.Settings, log,
		),
		checkUserAccessUC: usecases.NewCheckUserAccessUseCase(d.UserRepo, d.RoleRepo, d.UserRoleRepo, d.Policies, d.Cache, log),

		createRoleUC: usecases.NewCreateRoleUseCase(d.TxManager, d.RoleRepo, d.Sanitizer, log),
		getRoleUC:    usecases.NewGetRoleUseCase(d.RoleRepo, log),
		listRolesUC:  usecases.NewListRolesUseCase(d.RoleRepo, log),
		updateRoleUC: usecases.NewUpdateRoleUseCase(d.TxManager, d.RoleRepo, d.Sanitizer, refresher, log),
		deleteRoleUC: usecases.NewDeleteRoleUseCase(d.TxManager, d.RoleRepo, d.RolePermissionRepo, d.UserRoleRepo, refresher, d.Settings, log),

		createPermissionUC: usecases.NewCreatePermissionUseCase(d.TxManager, d.PermissionRepo, d.Sanitizer, log),
		getPermissionUC:    usecases.NewGetPermissionUseCase(d.PermissionRepo, log),
		listPermissionsUC:  usecases.NewListPermissionsUseCase(d.PermissionRepo, log),
		permissionTreeUC:   usecases.NewGetPermissionTreeUseCase(d.PermissionRepo, d.Settings, log),
		updatePermissionUC: usecases.NewUpdatePermissionUseCase(d.TxManager, d.PermissionRepo, d.Sanitizer, refresher, d.Settings, log),
		deletePermissionUC: usecases.NewDeletePermissionUseCase(d.TxManager, d.PermissionRepo, d.RolePermissionRepo, log),
	}
}

// SyncAccess rebuilds every policy from the stored grants.
func (s *ServiceDDD) SyncAccess(ctx context.Context) error {
	return s.accessSync.SyncAll(ctx)
}

// grantor prefers the authenticated actor over a grantor named in the body.
func grantor(actorID, requested *uint) *uint {
	if actorID != nil {
		return actorID
	}
	return requested
}

func (s *ServiceDDD) AssignPermissionsToRole(ctx context.Context, roleID uint, req dto.AssignPermissionsRequest, actorID *uint) (*dto.AssignPermissionsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.assignPermissionsUC.Execute(ctx, usecases.AssignPermissionsToRoleCommand{
		RoleID:        roleID,
		PermissionIDs: req.PermissionIDs,
		Inherit:       req.Inherit(),
		GrantorID:     grantor(actorID, req.GrantorID),
	})
}

func (s *ServiceDDD) RemovePermissionsFromRole(ctx context.Context, roleID uint, req dto.RemovePermissionsRequest) (*dto.RemovePermissionsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.removePermissionsUC.Execute(ctx, usecases.RemovePermissionsFromRoleCommand{
		RoleID:        roleID,
		PermissionIDs: req.PermissionIDs,
	})
}

func (s *ServiceDDD) GetRolePermissions(ctx context.Context, roleID uint) (*dto.RolePermissionsResult, error) {
	return s.getRolePermissionsUC.Execute(ctx, roleID)
}

func (s *ServiceDDD) GetPermissionInheritance(ctx context.Context, permissionID uint) (*dto.InheritanceResult, error) {
	return s.inheritanceUC.Execute(ctx, permissionID)
}

func (s *ServiceDDD) CheckPermissionConflicts(ctx context.Context, req dto.CheckConflictsRequest) (*dto.ConflictCheckResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.checkConflictsUC.Execute(ctx, usecases.CheckPermissionConflictsCommand{
		RoleID:        req.RoleID,
		PermissionIDs: req.PermissionIDs,
	})
}

func (s *ServiceDDD) GetRolePermissionHistory(ctx context.Context, roleID uint, page, pageSize int) (*dto.RolePermissionHistoryPage, error) {
	return s.rolePermHistoryUC.Execute(ctx, roleID, page, pageSize)
}

func (s *ServiceDDD) AssignRolesToUser(ctx context.Context, userID uint, req dto.AssignRolesRequest, actorID *uint) (*dto.AssignRolesResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.assignRolesUC.Execute(ctx, usecases.AssignRolesToUserCommand{
		UserID:    userID,
		RoleIDs:   req.RoleIDs,
		IsPrimary: req.IsPrimary == 1,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		GrantorID: grantor(actorID, req.GrantorID),
	})
}

func (s *ServiceDDD) RemoveRolesFromUser(ctx context.Context, userID uint, req dto.RemoveRolesRequest) (*dto.RemoveRolesResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.removeRolesUC.Execute(ctx, usecases.RemoveRolesFromUserCommand{
		UserID:  userID,
		RoleIDs: req.RoleIDs,
	})
}

func (s *ServiceDDD) GetUserRoles(ctx context.Context, userID uint) (*dto.UserRolesResult, error) {
	return s.getUserRolesUC.Execute(ctx, userID)
}

func (s *ServiceDDD) SetPrimaryRole(ctx context.Context, userID, roleID uint) (*dto.PrimaryRoleResult, error) {
	return s.setPrimaryRoleUC.Execute(ctx, userID, roleID)
}

func (s *ServiceDDD) UpdateRoleValidity(ctx context.Context, userRoleID uint, req dto.UpdateValidityRequest) (*dto.UserRoleDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.updateValidityUC.Execute(ctx, usecases.UpdateRoleValidityCommand{
		UserRoleID: userRoleID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
}

func (s *ServiceDDD) GetUserRoleHistory(ctx context.Context, userID uint, page, pageSize int) (*dto.UserRoleHistoryPage, error) {
	return s.userRoleHistoryUC.Execute(ctx, userID, page, pageSize)
}

func (s *ServiceDDD) GetUserEffectivePermissions(ctx context.Context, userID uint) (*dto.EffectivePermissionsResult, error) {
	return s.effectivePermsUC.Execute(ctx, userID)
}

func (s *ServiceDDD) CheckUserAccess(ctx context.Context, userID uint, code string) (*dto.AccessCheckResult, error) {
	return s.checkUserAccessUC.Execute(ctx, userID, code)
}

func (s *ServiceDDD) CreateRole(ctx context.Context, req dto.CreateRoleRequest) (*dto.RoleDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.createRoleUC.Execute(ctx, usecases.CreateRoleCommand{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
}

func (s *ServiceDDD) GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error) {
	return s.getRoleUC.Execute(ctx, roleID)
}

func (s *ServiceDDD) ListRoles(ctx context.Context, query usecases.ListRolesQuery) ([]*dto.RoleDTO, int64, error) {
	return s.listRolesUC.Execute(ctx, query)
}

func (s *ServiceDDD) UpdateRole(ctx context.Context, roleID uint, req dto.UpdateRoleRequest) (*dto.RoleDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.updateRoleUC.Execute(ctx, usecases.UpdateRoleCommand{
		RoleID:      roleID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
}

func (s *ServiceDDD) DeleteRole(ctx context.Context, roleID uint) error {
	return s.deleteRoleUC.Execute(ctx, roleID)
}

func (s *ServiceDDD) CreatePermission(ctx context.Context, req dto.CreatePermissionRequest) (*dto.PermissionDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.createPermissionUC.Execute(ctx, usecases.CreatePermissionCommand{
		Name:          req.Name,
		Code:          req.Code,
		Type:          req.Type,
		ParentID:      req.ParentID,
		Path:          req.Path,
		Component:     req.Component,
		Icon:          req.Icon,
		SortOrder:     req.SortOrder,
		ConflictCodes: req.ConflictCodes,
	})
}

func (s *ServiceDDD) GetPermission(ctx context.Context, permissionID uint) (*dto.PermissionDTO, error) {
	return s.getPermissionUC.Execute(ctx, permissionID)
}

func (s *ServiceDDD) ListPermissions(ctx context.Context, query usecases.ListPermissionsQuery) ([]*dto.PermissionDTO, int64, error) {
	return s.listPermissionsUC.Execute(ctx, query)
}

func (s *ServiceDDD) GetPermissionTree(ctx context.Context) ([]*dto.PermissionTreeNode, error) {
	return s.permissionTreeUC.Execute(ctx)
}

func (s *ServiceDDD) UpdatePermission(ctx context.Context, permissionID uint, req dto.UpdatePermissionRequest) (*dto.PermissionDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.updatePermissionUC.Execute(ctx, usecases.UpdatePermissionCommand{
		PermissionID:  permissionID,
		Name:          req.Name,
		Type:          req.Type,
		ParentID:      req.ParentID,
		Path:          req.Path,
		Component:     req.Component,
		Icon:          req.Icon,
		SortOrder:     req.SortOrder,
		ConflictCodes: req.ConflictCodes,
	})
}

func (s *ServiceDDD) DeletePermission(ctx context.Context, permissionID uint) error {
	return s.deletePermissionUC.Execute(ctx, permissionID)
}
