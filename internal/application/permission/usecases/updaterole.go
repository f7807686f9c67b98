package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// UpdateRoleCommand changes only the fields that are set.
type UpdateRoleCommand struct {
	RoleID      uint
	Name        *string
	Description *string
	Status      *string
}

type UpdateRoleUseCase struct {
	txManager TransactionRunner
	roleRepo  permission.RoleRepository
	sanitizer TextSanitizer
	refresher AccessRefresher
	logger    logger.Interface
}

func NewUpdateRoleUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	sanitizer TextSanitizer,
	refresher AccessRefresher,
	logger logger.Interface,
) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{
		txManager: txManager,
		roleRepo:  roleRepo,
		sanitizer: sanitizer,
		refresher: refresher,
		logger:    logger,
	}
}

func (uc *UpdateRoleUseCase) Execute(ctx context.Context, cmd UpdateRoleCommand) (*dto.RoleDTO, error) {
	uc.logger.Infow("executing update role use case", "role_id", cmd.RoleID)

	var (
		role          *permission.Role
		statusChanged bool
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		role, err = requireRole(ctx, uc.roleRepo, cmd.RoleID)
		if err != nil {
			return err
		}

		if cmd.Name != nil {
			if err := role.UpdateName(uc.sanitizer.Sanitize(*cmd.Name)); err != nil {
				return permission.ErrInvalidRole(err)
			}
		}
		if cmd.Description != nil {
			role.UpdateDescription(uc.sanitizer.Sanitize(*cmd.Description))
		}
		if cmd.Status != nil {
			before := role.Status()
			if err := role.ChangeStatus(permission.RoleStatus(*cmd.Status)); err != nil {
				return permission.ErrInvalidRole(err)
			}
			statusChanged = before != role.Status()
		}

		return uc.roleRepo.Update(ctx, role)
	})
	if err != nil {
		logFailure(uc.logger, "failed to update role", err, "role_id", cmd.RoleID)
		return nil, errors.Wrap(err, permission.ReasonRoleManageError, "failed to update role")
	}

	// Inactive roles confer nothing, so a status flip changes what holders
	// may do.
	if statusChanged {
		uc.refresher.RolesChanged(ctx, role.ID())
	}

	uc.logger.Infow("role updated", "role_id", role.ID())
	return dto.ToRoleDTO(role), nil
}
