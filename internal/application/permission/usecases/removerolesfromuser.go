package usecases

import (
	"context"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type RemoveRolesFromUserCommand struct {
	UserID  uint
	RoleIDs []uint
}

type RemoveRolesFromUserUseCase struct {
	txManager    TransactionRunner
	userRepo     user.Repository
	userRoleRepo permission.UserRoleRepository
	refresher    AccessRefresher
	logger       logger.Interface
}

func NewRemoveRolesFromUserUseCase(
	txManager TransactionRunner,
	userRepo user.Repository,
	userRoleRepo permission.UserRoleRepository,
	refresher AccessRefresher,
	logger logger.Interface,
) *RemoveRolesFromUserUseCase {
	return &RemoveRolesFromUserUseCase{
		txManager:    txManager,
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		refresher:    refresher,
		logger:       logger,
	}
}

// Execute revokes the user's live grants of the given roles. Roles the user
// does not hold are ignored.
func (uc *RemoveRolesFromUserUseCase) Execute(ctx context.Context, cmd RemoveRolesFromUserCommand) (*dto.RemoveRolesResult, error) {
	uc.logger.Infow("executing remove roles from user use case", "user_id", cmd.UserID, "role_ids", cmd.RoleIDs)

	if len(cmd.RoleIDs) == 0 {
		return nil, permission.ErrRoleIDsRequired()
	}

	var removed int64
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := requireUser(ctx, uc.userRepo, cmd.UserID); err != nil {
			return err
		}

		n, err := uc.userRoleRepo.Revoke(ctx, cmd.UserID, setutil.Dedupe(cmd.RoleIDs), time.Now())
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to remove roles from user", err, "user_id", cmd.UserID)
		return nil, errors.Wrap(err, permission.ReasonRoleRemoveError, "failed to remove roles from user")
	}

	if removed > 0 {
		uc.refresher.UsersChanged(ctx, cmd.UserID)
	}

	uc.logger.Infow("roles removed from user", "user_id", cmd.UserID, "removed_count", removed)
	return &dto.RemoveRolesResult{UserID: cmd.UserID, RemovedCount: removed}, nil
}
