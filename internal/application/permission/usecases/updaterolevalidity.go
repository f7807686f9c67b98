package usecases

import (
	"context"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type UpdateRoleValidityCommand struct {
	UserRoleID uint
	StartTime  *time.Time
	EndTime    *time.Time
}

// UpdateRoleValidityUseCase replaces the validity window of one live
// user→role grant.
type UpdateRoleValidityUseCase struct {
	txManager    TransactionRunner
	roleRepo     permission.RoleRepository
	userRoleRepo permission.UserRoleRepository
	refresher    AccessRefresher
	logger       logger.Interface
}

func NewUpdateRoleValidityUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	userRoleRepo permission.UserRoleRepository,
	refresher AccessRefresher,
	logger logger.Interface,
) *UpdateRoleValidityUseCase {
	return &UpdateRoleValidityUseCase{
		txManager:    txManager,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		refresher:    refresher,
		logger:       logger,
	}
}

func (uc *UpdateRoleValidityUseCase) Execute(ctx context.Context, cmd UpdateRoleValidityCommand) (*dto.UserRoleDTO, error) {
	uc.logger.Infow("executing update role validity use case",
		"user_role_id", cmd.UserRoleID,
		"start_time", cmd.StartTime,
		"end_time", cmd.EndTime,
	)

	var (
		grant *permission.UserRole
		role  *permission.Role
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		grant, err = uc.userRoleRepo.GetByID(ctx, cmd.UserRoleID)
		if err != nil {
			return err
		}
		if grant == nil {
			return permission.ErrUserRoleNotFound()
		}

		if err := grant.SetValidity(cmd.StartTime, cmd.EndTime); err != nil {
			return err
		}
		if err := uc.userRoleRepo.UpdateValidity(ctx, grant); err != nil {
			return err
		}

		role, err = uc.roleRepo.GetByID(ctx, grant.RoleID)
		return err
	})
	if err != nil {
		logFailure(uc.logger, "failed to update role validity", err, "user_role_id", cmd.UserRoleID)
		return nil, errors.Wrap(err, permission.ReasonValidityUpdateError, "failed to update role validity")
	}

	uc.refresher.UsersChanged(ctx, grant.UserID)

	uc.logger.Infow("role validity updated", "user_role_id", cmd.UserRoleID, "user_id", grant.UserID)
	return dto.ToUserRoleDTO(grant, role, time.Now()), nil
}
