package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// GetRolePermissionHistoryUseCase pages through every grant the role ever
// had, revoked ones included, newest first.
type GetRolePermissionHistoryUseCase struct {
	roleRepo           permission.RoleRepository
	rolePermissionRepo permission.RolePermissionRepository
	logger             logger.Interface
}

func NewGetRolePermissionHistoryUseCase(
	roleRepo permission.RoleRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	logger logger.Interface,
) *GetRolePermissionHistoryUseCase {
	return &GetRolePermissionHistoryUseCase{
		roleRepo:           roleRepo,
		rolePermissionRepo: rolePermissionRepo,
		logger:             logger,
	}
}

func (uc *GetRolePermissionHistoryUseCase) Execute(ctx context.Context, roleID uint, page, pageSize int) (*dto.RolePermissionHistoryPage, error) {
	p := utils.ValidatePagination(page, pageSize)

	if _, err := requireRole(ctx, uc.roleRepo, roleID); err != nil {
		logFailure(uc.logger, "failed to get role permission history", err, "role_id", roleID)
		return nil, errors.Wrap(err, permission.ReasonHistoryError, "failed to get role permission history")
	}

	records, total, err := uc.rolePermissionRepo.History(ctx, roleID, p.Page, p.PageSize)
	if err != nil {
		logFailure(uc.logger, "failed to get role permission history", err, "role_id", roleID)
		return nil, errors.Wrap(err, permission.ReasonHistoryError, "failed to get role permission history")
	}

	list := mapper.MapSlice(records, dto.ToRolePermissionHistoryItem)
	if list == nil {
		list = []*dto.RolePermissionHistoryItem{}
	}
	return &dto.RolePermissionHistoryPage{
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		List:     list,
	}, nil
}
