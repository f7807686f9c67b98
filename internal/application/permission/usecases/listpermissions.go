package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type ListPermissionsQuery struct {
	Type     string
	ParentID *uint
	Page     int
	PageSize int
}

type ListPermissionsUseCase struct {
	permissionRepo permission.PermissionRepository
	logger         logger.Interface
}

func NewListPermissionsUseCase(permissionRepo permission.PermissionRepository, logger logger.Interface) *ListPermissionsUseCase {
	return &ListPermissionsUseCase{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

func (uc *ListPermissionsUseCase) Execute(ctx context.Context, query ListPermissionsQuery) ([]*dto.PermissionDTO, int64, error) {
	ptype := permission.PermissionType(query.Type)
	if ptype != "" && !ptype.IsValid() {
		return nil, 0, errors.NewValidationError(fmt.Sprintf("invalid permission type %q", query.Type))
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	perms, total, err := uc.permissionRepo.List(ctx, permission.PermissionFilter{
		Type:     ptype,
		ParentID: query.ParentID,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list permissions", "error", err)
		return nil, 0, errors.Wrap(err, permission.ReasonPermissionManageError, "failed to list permissions")
	}

	return dto.ToPermissionDTOs(perms), total, nil
}
