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

type ListRolesQuery struct {
	Keyword  string
	Status   string
	Page     int
	PageSize int
}

type ListRolesUseCase struct {
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewListRolesUseCase(roleRepo permission.RoleRepository, logger logger.Interface) *ListRolesUseCase {
	return &ListRolesUseCase{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Execute returns one page of roles and the total count.
func (uc *ListRolesUseCase) Execute(ctx context.Context, query ListRolesQuery) ([]*dto.RoleDTO, int64, error) {
	status := permission.RoleStatus(query.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, errors.NewValidationError(fmt.Sprintf("invalid role status %q", query.Status))
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	roles, total, err := uc.roleRepo.List(ctx, permission.RoleFilter{
		Keyword:  query.Keyword,
		Status:   status,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list roles", "error", err)
		return nil, 0, errors.Wrap(err, permission.ReasonRoleManageError, "failed to list roles")
	}

	return dto.ToRoleDTOs(roles), total, nil
}
