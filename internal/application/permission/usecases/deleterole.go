package usecases

import (
	"context"
	"time"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// DeleteRoleUseCase soft-deletes a role and revokes all of its grants in the
// same transaction. Protected roles cannot be deleted.
type DeleteRoleUseCase struct {
	txManager          TransactionRunner
	roleRepo           permission.RoleRepository
	rolePermissionRepo permission.RolePermissionRepository
	userRoleRepo       permission.UserRoleRepository
	refresher          AccessRefresher
	protectedCodes     []string
	logger             logger.Interface
}

func NewDeleteRoleUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	userRoleRepo permission.UserRoleRepository,
	refresher AccessRefresher,
	settings Settings,
	logger logger.Interface,
) *DeleteRoleUseCase {
	return &DeleteRoleUseCase{
		txManager:          txManager,
		roleRepo:           roleRepo,
		rolePermissionRepo: rolePermissionRepo,
		userRoleRepo:       userRoleRepo,
		refresher:          refresher,
		protectedCodes:     settings.ProtectedRoleCodes,
		logger:             logger,
	}
}

func (uc *DeleteRoleUseCase) Execute(ctx context.Context, roleID uint) error {
	uc.logger.Infow("executing delete role use case", "role_id", roleID)

	var (
		role    *permission.Role
		holders []uint
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		role, err = requireRole(ctx, uc.roleRepo, roleID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := role.MarkDeleted(uc.protectedCodes, now); err != nil {
			return err
		}

		holders, err = uc.userRoleRepo.ListUserIDsByRole(ctx, roleID)
		if err != nil {
			return err
		}
		if _, err := uc.userRoleRepo.RevokeAllForRole(ctx, roleID, now); err != nil {
			return err
		}
		if _, err := uc.rolePermissionRepo.RevokeAllForRole(ctx, roleID, now); err != nil {
			return err
		}
		return uc.roleRepo.SoftDelete(ctx, role)
	})
	if err != nil {
		logFailure(uc.logger, "failed to delete role", err, "role_id", roleID)
		return errors.Wrap(err, permission.ReasonRoleManageError, "failed to delete role")
	}

	uc.refresher.RoleDeleted(ctx, role.Code(), holders)

	uc.logger.Infow("role deleted", "role_id", roleID, "code", role.Code(), "revoked_users", len(holders))
	return nil
}
