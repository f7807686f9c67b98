package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type AssignPermissionsToRoleCommand struct {
	RoleID        uint
	PermissionIDs []uint
	Inherit       bool
	GrantorID     *uint
}

// AssignPermissionsToRoleUseCase grants permissions to a role. Permissions
// the role already holds are skipped, so the call is idempotent.
type AssignPermissionsToRoleUseCase struct {
	txManager          TransactionRunner
	roleRepo           permission.RoleRepository
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	refresher          AccessRefresher
	logger             logger.Interface
}

func NewAssignPermissionsToRoleUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	refresher AccessRefresher,
	logger logger.Interface,
) *AssignPermissionsToRoleUseCase {
	return &AssignPermissionsToRoleUseCase{
		txManager:          txManager,
		roleRepo:           roleRepo,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
		refresher:          refresher,
		logger:             logger,
	}
}

func (uc *AssignPermissionsToRoleUseCase) Execute(ctx context.Context, cmd AssignPermissionsToRoleCommand) (*dto.AssignPermissionsResult, error) {
	uc.logger.Infow("executing assign permissions to role use case",
		"role_id", cmd.RoleID,
		"permission_ids", cmd.PermissionIDs,
		"inherit", cmd.Inherit,
	)

	if len(cmd.PermissionIDs) == 0 {
		return nil, permission.ErrPermissionIDsRequired()
	}
	ids := setutil.Dedupe(cmd.PermissionIDs)

	var result *dto.AssignPermissionsResult
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		role, err := requireRole(ctx, uc.roleRepo, cmd.RoleID)
		if err != nil {
			return err
		}

		perms, err := uc.permissionRepo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to get permissions: %w", err)
		}
		if len(perms) != len(ids) {
			return permission.ErrSomePermissionsNotFound()
		}

		now := time.Now()
		grants := make([]*permission.RolePermission, 0, len(perms))
		for _, p := range perms {
			grants = append(grants, permission.NewRolePermission(role.ID(), p.ID(), cmd.Inherit, cmd.GrantorID, now))
		}

		inserted, err := uc.rolePermissionRepo.Grant(ctx, grants)
		if err != nil {
			return err
		}

		result = &dto.AssignPermissionsResult{
			RoleID:          role.ID(),
			PermissionCount: len(perms),
			NewlyAssigned:   inserted,
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to assign permissions to role", err, "role_id", cmd.RoleID)
		return nil, errors.Wrap(err, permission.ReasonPermissionAssignError, "failed to assign permissions to role")
	}

	if result.NewlyAssigned > 0 {
		uc.refresher.RolesChanged(ctx, result.RoleID)
	}

	uc.logger.Infow("permissions assigned to role",
		"role_id", result.RoleID,
		"permission_count", result.PermissionCount,
		"newly_assigned", result.NewlyAssigned,
	)
	return result, nil
}
