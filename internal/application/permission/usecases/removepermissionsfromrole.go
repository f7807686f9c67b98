package usecases

import (
	"context"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type RemovePermissionsFromRoleCommand struct {
	RoleID        uint
	PermissionIDs []uint
}

// RemovePermissionsFromRoleUseCase revokes grants. Ids the role does not
// hold are ignored.
type RemovePermissionsFromRoleUseCase struct {
	txManager          TransactionRunner
	roleRepo           permission.RoleRepository
	rolePermissionRepo permission.RolePermissionRepository
	refresher          AccessRefresher
	logger             logger.Interface
}

func NewRemovePermissionsFromRoleUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	refresher AccessRefresher,
	logger logger.Interface,
) *RemovePermissionsFromRoleUseCase {
	return &RemovePermissionsFromRoleUseCase{
		txManager:          txManager,
		roleRepo:           roleRepo,
		rolePermissionRepo: rolePermissionRepo,
		refresher:          refresher,
		logger:             logger,
	}
}

func (uc *RemovePermissionsFromRoleUseCase) Execute(ctx context.Context, cmd RemovePermissionsFromRoleCommand) (*dto.RemovePermissionsResult, error) {
	uc.logger.Infow("executing remove permissions from role use case", "role_id", cmd.RoleID, "permission_ids", cmd.PermissionIDs)

	if len(cmd.PermissionIDs) == 0 {
		return nil, permission.ErrPermissionIDsRequired()
	}

	var removed int64
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := requireRole(ctx, uc.roleRepo, cmd.RoleID); err != nil {
			return err
		}

		n, err := uc.rolePermissionRepo.Revoke(ctx, cmd.RoleID, setutil.Dedupe(cmd.PermissionIDs), time.Now())
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to remove permissions from role", err, "role_id", cmd.RoleID)
		return nil, errors.Wrap(err, permission.ReasonPermissionRemoveError, "failed to remove permissions from role")
	}

	if removed > 0 {
		uc.refresher.RolesChanged(ctx, cmd.RoleID)
	}

	uc.logger.Infow("permissions removed from role", "role_id", cmd.RoleID, "removed_count", removed)
	return &dto.RemovePermissionsResult{RoleID: cmd.RoleID, RemovedCount: removed}, nil
}
