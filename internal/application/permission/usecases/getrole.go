package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type GetRoleUseCase struct {
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewGetRoleUseCase(roleRepo permission.RoleRepository, logger logger.Interface) *GetRoleUseCase {
	return &GetRoleUseCase{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

func (uc *GetRoleUseCase) Execute(ctx context.Context, roleID uint) (*dto.RoleDTO, error) {
	role, err := requireRole(ctx, uc.roleRepo, roleID)
	if err != nil {
		logFailure(uc.logger, "failed to get role", err, "role_id", roleID)
		return nil, errors.Wrap(err, permission.ReasonRoleManageError, "failed to get role")
	}
	return dto.ToRoleDTO(role), nil
}
