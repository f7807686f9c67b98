package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type GetUserRoleHistoryUseCase struct {
	userRepo     user.Repository
	userRoleRepo permission.UserRoleRepository
	logger       logger.Interface
}

func NewGetUserRoleHistoryUseCase(
	userRepo user.Repository,
	userRoleRepo permission.UserRoleRepository,
	logger logger.Interface,
) *GetUserRoleHistoryUseCase {
	return &GetUserRoleHistoryUseCase{
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		logger:       logger,
	}
}

// Execute pages through the user's grants, revoked ones included, newest
// first.
func (uc *GetUserRoleHistoryUseCase) Execute(ctx context.Context, userID uint, page, pageSize int) (*dto.UserRoleHistoryPage, error) {
	p := utils.ValidatePagination(page, pageSize)

	if err := requireUser(ctx, uc.userRepo, userID); err != nil {
		logFailure(uc.logger, "failed to get user role history", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonHistoryError, "failed to get user role history")
	}

	records, total, err := uc.userRoleRepo.History(ctx, userID, p.Page, p.PageSize)
	if err != nil {
		logFailure(uc.logger, "failed to get user role history", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonHistoryError, "failed to get user role history")
	}

	history := mapper.MapSlice(records, dto.ToUserRoleHistoryItem)
	if history == nil {
		history = []*dto.UserRoleHistoryItem{}
	}
	return &dto.UserRoleHistoryPage{
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		History:  history,
	}, nil
}
