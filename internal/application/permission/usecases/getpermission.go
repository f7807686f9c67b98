package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type GetPermissionUseCase struct {
	permissionRepo permission.PermissionRepository
	logger         logger.Interface
}

func NewGetPermissionUseCase(permissionRepo permission.PermissionRepository, logger logger.Interface) *GetPermissionUseCase {
	return &GetPermissionUseCase{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

func (uc *GetPermissionUseCase) Execute(ctx context.Context, permissionID uint) (*dto.PermissionDTO, error) {
	p, err := requirePermission(ctx, uc.permissionRepo, permissionID)
	if err != nil {
		logFailure(uc.logger, "failed to get permission", err, "permission_id", permissionID)
		return nil, errors.Wrap(err, permission.ReasonPermissionManageError, "failed to get permission")
	}
	return dto.ToPermissionDTO(p), nil
}
