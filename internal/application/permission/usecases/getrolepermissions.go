package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type GetRolePermissionsUseCase struct {
	roleRepo           permission.RoleRepository
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	logger             logger.Interface
}

func NewGetRolePermissionsUseCase(
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	logger logger.Interface,
) *GetRolePermissionsUseCase {
	return &GetRolePermissionsUseCase{
		roleRepo:           roleRepo,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
		logger:             logger,
	}
}

// Execute lists the role's live grants with their permissions.
func (uc *GetRolePermissionsUseCase) Execute(ctx context.Context, roleID uint) (*dto.RolePermissionsResult, error) {
	result, err := uc.execute(ctx, roleID)
	if err != nil {
		logFailure(uc.logger, "failed to get role permissions", err, "role_id", roleID)
		return nil, errors.Wrap(err, permission.ReasonGetRolePermissionsError, "failed to get role permissions")
	}
	return result, nil
}

func (uc *GetRolePermissionsUseCase) execute(ctx context.Context, roleID uint) (*dto.RolePermissionsResult, error) {
	if _, err := requireRole(ctx, uc.roleRepo, roleID); err != nil {
		return nil, err
	}

	grants, err := uc.rolePermissionRepo.ListActiveByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.PermissionID)
	}
	perms, err := uc.permissionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	byID := make(map[uint]*permission.Permission, len(perms))
	for _, p := range perms {
		byID[p.ID()] = p
	}

	items := make([]*dto.RolePermissionItem, 0, len(grants))
	for _, g := range grants {
		// Grants of a permission deleted since are not shown.
		p, ok := byID[g.PermissionID]
		if !ok {
			continue
		}
		items = append(items, dto.ToRolePermissionItem(p, g))
	}

	return &dto.RolePermissionsResult{RoleID: roleID, Permissions: items}, nil
}
