package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type AssignRolesToUserCommand struct {
	UserID    uint
	RoleIDs   []uint
	IsPrimary bool
	StartTime *time.Time
	EndTime   *time.Time
	GrantorID *uint
}

// AssignRolesToUserUseCase grants roles to a user. Roles already held are
// left untouched. With IsPrimary exactly one role may be given; it becomes
// the user's only primary role whether it was new or already held.
type AssignRolesToUserUseCase struct {
	txManager    TransactionRunner
	userRepo     user.Repository
	roleRepo     permission.RoleRepository
	userRoleRepo permission.UserRoleRepository
	refresher    AccessRefresher
	logger       logger.Interface
}

func NewAssignRolesToUserUseCase(
	txManager TransactionRunner,
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	userRoleRepo permission.UserRoleRepository,
	refresher AccessRefresher,
	logger logger.Interface,
) *AssignRolesToUserUseCase {
	return &AssignRolesToUserUseCase{
		txManager:    txManager,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		refresher:    refresher,
		logger:       logger,
	}
}

func (uc *AssignRolesToUserUseCase) Execute(ctx context.Context, cmd AssignRolesToUserCommand) (*dto.AssignRolesResult, error) {
	uc.logger.Infow("executing assign roles to user use case",
		"user_id", cmd.UserID,
		"role_ids", cmd.RoleIDs,
		"is_primary", cmd.IsPrimary,
	)

	if len(cmd.RoleIDs) == 0 {
		return nil, permission.ErrRoleIDsRequired()
	}
	if cmd.StartTime != nil && cmd.EndTime != nil && !cmd.EndTime.After(*cmd.StartTime) {
		return nil, permission.ErrInvalidValidityWindow
	}
	ids := setutil.Dedupe(cmd.RoleIDs)
	if cmd.IsPrimary && len(ids) > 1 {
		return nil, permission.ErrPrimaryRoleAmbiguous()
	}

	var result *dto.AssignRolesResult
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := requireUser(ctx, uc.userRepo, cmd.UserID); err != nil {
			return err
		}

		roles, err := uc.roleRepo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to get roles: %w", err)
		}
		if len(roles) != len(ids) {
			return permission.ErrSomeRolesNotFound()
		}

		now := time.Now()
		grants := make([]*permission.UserRole, 0, len(roles))
		for _, role := range roles {
			grants = append(grants, permission.NewUserRole(cmd.UserID, role.ID(), cmd.StartTime, cmd.EndTime, cmd.GrantorID, now))
		}

		inserted, err := uc.userRoleRepo.Grant(ctx, grants)
		if err != nil {
			return err
		}

		if cmd.IsPrimary {
			if err := uc.userRoleRepo.ClearPrimary(ctx, cmd.UserID); err != nil {
				return err
			}
			if _, err := uc.userRoleRepo.MarkPrimary(ctx, cmd.UserID, ids[0]); err != nil {
				return err
			}
		}

		result = &dto.AssignRolesResult{
			UserID:        cmd.UserID,
			RoleCount:     len(roles),
			NewlyAssigned: inserted,
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to assign roles to user", err, "user_id", cmd.UserID)
		return nil, errors.Wrap(err, permission.ReasonRoleAssignError, "failed to assign roles to user")
	}

	if result.NewlyAssigned > 0 {
		uc.refresher.UsersChanged(ctx, cmd.UserID)
	}

	uc.logger.Infow("roles assigned to user",
		"user_id", cmd.UserID,
		"role_count", result.RoleCount,
		"newly_assigned", result.NewlyAssigned,
	)
	return result, nil
}
