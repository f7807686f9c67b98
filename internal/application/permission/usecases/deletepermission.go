package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// DeletePermissionUseCase removes a leaf permission that no role holds.
type DeletePermissionUseCase struct {
	txManager          TransactionRunner
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	logger             logger.Interface
}

func NewDeletePermissionUseCase(
	txManager TransactionRunner,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	logger logger.Interface,
) *DeletePermissionUseCase {
	return &DeletePermissionUseCase{
		txManager:          txManager,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
		logger:             logger,
	}
}

func (uc *DeletePermissionUseCase) Execute(ctx context.Context, permissionID uint) error {
	uc.logger.Infow("executing delete permission use case", "permission_id", permissionID)

	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := requirePermission(ctx, uc.permissionRepo, permissionID); err != nil {
			return err
		}

		children, err := uc.permissionRepo.CountChildren(ctx, permissionID)
		if err != nil {
			return err
		}
		if children > 0 {
			return permission.ErrPermissionHasChildren()
		}

		grants, err := uc.rolePermissionRepo.CountActiveByPermission(ctx, permissionID)
		if err != nil {
			return err
		}
		if grants > 0 {
			return permission.ErrPermissionInUse()
		}

		return uc.permissionRepo.Delete(ctx, permissionID)
	})
	if err != nil {
		logFailure(uc.logger, "failed to delete permission", err, "permission_id", permissionID)
		return errors.Wrap(err, permission.ReasonPermissionManageError, "failed to delete permission")
	}

	uc.logger.Infow("permission deleted", "permission_id", permissionID)
	return nil
}
