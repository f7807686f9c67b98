package usecases

import (
	"context"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// GetUserEffectivePermissionsUseCase resolves the permission codes a user
// holds right now through roles in effect. Results are cached per user.
type GetUserEffectivePermissionsUseCase struct {
	userRepo user.Repository
	resolver *accessResolver
	cache    PermissionCache
	logger   logger.Interface
}

func NewGetUserEffectivePermissionsUseCase(
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	userRoleRepo permission.UserRoleRepository,
	cache PermissionCache,
	settings Settings,
	logger logger.Interface,
) *GetUserEffectivePermissionsUseCase {
	return &GetUserEffectivePermissionsUseCase{
		userRepo: userRepo,
		resolver: &accessResolver{
			roleRepo:           roleRepo,
			permissionRepo:     permissionRepo,
			rolePermissionRepo: rolePermissionRepo,
			userRoleRepo:       userRoleRepo,
			maxDepth:           settings.MaxPermissionDepth,
		},
		cache:  cache,
		logger: logger,
	}
}

func (uc *GetUserEffectivePermissionsUseCase) Execute(ctx context.Context, userID uint) (*dto.EffectivePermissionsResult, error) {
	codes, err := uc.execute(ctx, userID)
	if err != nil {
		logFailure(uc.logger, "failed to get effective permissions", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonEffectivePermsError, "failed to get effective permissions")
	}
	return &dto.EffectivePermissionsResult{UserID: userID, Permissions: codes}, nil
}

func (uc *GetUserEffectivePermissionsUseCase) execute(ctx context.Context, userID uint) ([]string, error) {
	if err := requireUser(ctx, uc.userRepo, userID); err != nil {
		return nil, err
	}

	codes, ok, err := uc.cache.Get(ctx, userID)
	if err != nil {
		uc.logger.Warnw("permission cache read failed", "user_id", userID, "error", err)
	}
	if ok {
		return codes, nil
	}

	g, err := uc.resolver.loadGraph(ctx)
	if err != nil {
		return nil, err
	}
	codes, refreshAt, err := uc.resolver.userCodes(ctx, g, userID, time.Now())
	if err != nil {
		return nil, graphError(err)
	}

	// The cached set must not outlive the next validity window bound.
	if err := uc.cache.Set(ctx, userID, codes, refreshAt); err != nil {
		uc.logger.Warnw("permission cache write failed", "user_id", userID, "error", err)
	}
	return codes, nil
}
