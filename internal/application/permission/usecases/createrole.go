package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type CreateRoleCommand struct {
	Name        string
	Code        string
	Description string
}

type CreateRoleUseCase struct {
	txManager TransactionRunner
	roleRepo  permission.RoleRepository
	sanitizer TextSanitizer
	logger    logger.Interface
}

func NewCreateRoleUseCase(
	txManager TransactionRunner,
	roleRepo permission.RoleRepository,
	sanitizer TextSanitizer,
	logger logger.Interface,
) *CreateRoleUseCase {
	return &CreateRoleUseCase{
		txManager: txManager,
		roleRepo:  roleRepo,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

func (uc *CreateRoleUseCase) Execute(ctx context.Context, cmd CreateRoleCommand) (*dto.RoleDTO, error) {
	uc.logger.Infow("executing create role use case", "code", cmd.Code)

	role, err := permission.NewRole(uc.sanitizer.Sanitize(cmd.Name), cmd.Code, uc.sanitizer.Sanitize(cmd.Description))
	if err != nil {
		uc.logger.Warnw("invalid role", "code", cmd.Code, "error", err)
		return nil, permission.ErrInvalidRole(err)
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := uc.roleRepo.ExistsByCode(ctx, role.Code())
		if err != nil {
			return err
		}
		if exists {
			return permission.ErrRoleCodeExists(role.Code())
		}

		if err := uc.roleRepo.Create(ctx, role); err != nil {
			if errors.IsDuplicateError(err) {
				return permission.ErrRoleCodeExists(role.Code())
			}
			return fmt.Errorf("failed to create role: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to create role", err, "code", cmd.Code)
		return nil, errors.Wrap(err, permission.ReasonRoleManageError, "failed to create role")
	}

	uc.logger.Infow("role created", "role_id", role.ID(), "code", role.Code())
	return dto.ToRoleDTO(role), nil
}
