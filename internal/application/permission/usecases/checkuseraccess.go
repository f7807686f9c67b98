package usecases

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// CheckUserAccessUseCase asks the policy engine whether a user holds a
// permission code. The user's role links are checked against the validity
// windows in force at call time first, so a grant that started or ended
// since the last sync is honored immediately.
type CheckUserAccessUseCase struct {
	userRepo user.Repository
	resolver *accessResolver
	policies PolicyStore
	cache    PermissionCache
	now      func() time.Time
	logger   logger.Interface
}

func NewCheckUserAccessUseCase(
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	userRoleRepo permission.UserRoleRepository,
	policies PolicyStore,
	cache PermissionCache,
	logger logger.Interface,
) *CheckUserAccessUseCase {
	return &CheckUserAccessUseCase{
		userRepo: userRepo,
		resolver: &accessResolver{
			roleRepo:     roleRepo,
			userRoleRepo: userRoleRepo,
		},
		policies: policies,
		cache:    cache,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the time source used to evaluate validity windows.
func (uc *CheckUserAccessUseCase) WithClock(now func() time.Time) *CheckUserAccessUseCase {
	uc.now = now
	return uc
}

func (uc *CheckUserAccessUseCase) Execute(ctx context.Context, userID uint, code string) (*dto.AccessCheckResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.NewValidationError("code is required")
	}

	if err := requireUser(ctx, uc.userRepo, userID); err != nil {
		logFailure(uc.logger, "failed to check user access", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonEffectivePermsError, "failed to check user access")
	}

	if err := uc.relinkIfDrifted(ctx, userID); err != nil {
		logFailure(uc.logger, "failed to check user access", err, "user_id", userID)
		return nil, errors.Wrap(err, permission.ReasonEffectivePermsError, "failed to check user access")
	}

	allowed, err := uc.policies.Enforce(userID, code)
	if err != nil {
		logFailure(uc.logger, "failed to check user access", err, "user_id", userID, "code", code)
		return nil, errors.Wrap(err, permission.ReasonEffectivePermsError, "failed to check user access")
	}

	uc.logger.Debugw("user access checked", "user_id", userID, "code", code, "allowed", allowed)
	return &dto.AccessCheckResult{UserID: userID, Code: code, Allowed: allowed}, nil
}

// relinkIfDrifted rewrites the user's role links when the roles in effect
// now differ from what the policy engine holds.
func (uc *CheckUserAccessUseCase) relinkIfDrifted(ctx context.Context, userID uint) error {
	roles, _, err := uc.resolver.effectiveRoles(ctx, userID, uc.now())
	if err != nil {
		return err
	}
	want := roleCodeList(roles)

	linked, err := uc.policies.RolesForUser(userID)
	if err != nil {
		return err
	}
	if slices.Equal(want, linked) {
		return nil
	}

	if err := uc.policies.ReplaceUserRoles(userID, want); err != nil {
		return err
	}
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		uc.logger.Warnw("failed to invalidate permission cache", "user_id", userID, "error", err)
	}
	uc.logger.Infow("user role links refreshed at check time", "user_id", userID, "roles", want, "previous", linked)
	return nil
}
