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
)

type GetUserRolesUseCase struct {
	userRepo     user.Repository
	roleRepo     permission.RoleRepository
	userRoleRepo permission.UserRoleRepository
	logger       logger.Interface
}

func NewGetUserRolesUseCase(
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	userRoleRepo permission.UserRoleRepository,
	logger logger.Interface,
) *GetUserRolesUseCase {
	return &GetUserRolesUseCase{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		logger:       logger,
	}
}

// Execute lists the user's live grants, primary first.
func (uc *GetUserRolesUseCase) Execute(ctx context.Context, userID uint) (*dto.UserRolesResult, error) {
	result, err := uc.execute(ctx, userID)
	if err != nil {
		logFailure(uc.logger, "failed to get user roles", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonGetUserRolesError, "failed to get user roles")
	}
	return result, nil
}

func (uc *GetUserRolesUseCase) execute(ctx context.Context, userID uint) (*dto.UserRolesResult, error) {
	if err := requireUser(ctx, uc.userRepo, userID); err != nil {
		return nil, err
	}

	grants, err := uc.userRoleRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleIDs := make([]uint, 0, len(grants))
	for _, g := range grants {
		roleIDs = append(roleIDs, g.RoleID)
	}
	roles, err := uc.roleRepo.GetByIDs(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	byID := make(map[uint]*permission.Role, len(roles))
	for _, r := range roles {
		byID[r.ID()] = r
	}

	now := time.Now()
	items := make([]*dto.UserRoleDTO, 0, len(grants))
	for _, g := range grants {
		role, ok := byID[g.RoleID]
		if !ok {
			continue
		}
		items = append(items, dto.ToUserRoleDTO(g, role, now))
	}

	return &dto.UserRolesResult{UserID: userID, Roles: items}, nil
}
