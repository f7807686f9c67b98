package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// SetPrimaryRoleUseCase moves the user's primary flag to a role the user
// already holds.
type SetPrimaryRoleUseCase struct {
	txManager    TransactionRunner
	userRepo     user.Repository
	userRoleRepo permission.UserRoleRepository
	logger       logger.Interface
}

func NewSetPrimaryRoleUseCase(
	txManager TransactionRunner,
	userRepo user.Repository,
	userRoleRepo permission.UserRoleRepository,
	logger logger.Interface,
) *SetPrimaryRoleUseCase {
	return &SetPrimaryRoleUseCase{
		txManager:    txManager,
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		logger:       logger,
	}
}

func (uc *SetPrimaryRoleUseCase) Execute(ctx context.Context, userID, roleID uint) (*dto.PrimaryRoleResult, error) {
	uc.logger.Infow("executing set primary role use case", "user_id", userID, "role_id", roleID)

	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := requireUser(ctx, uc.userRepo, userID); err != nil {
			return err
		}

		grant, err := uc.userRoleRepo.GetActive(ctx, userID, roleID)
		if err != nil {
			return err
		}
		if grant == nil {
			return permission.ErrUserRoleNotFound()
		}

		if err := uc.userRoleRepo.ClearPrimary(ctx, userID); err != nil {
			return err
		}
		n, err := uc.userRoleRepo.MarkPrimary(ctx, userID, roleID)
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("expected one primary grant for user %d, marked %d", userID, n)
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to set primary role", err, "user_id", userID, "role_id", roleID)
		return nil, errors.Wrap(err, permission.ReasonPrimaryRoleError, "failed to set primary role")
	}

	uc.logger.Infow("primary role set", "user_id", userID, "role_id", roleID)
	return &dto.PrimaryRoleResult{UserID: userID, RoleID: roleID, IsPrimary: 1}, nil
}
