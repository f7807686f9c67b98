package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// logFailure logs recognized errors as warnings and everything else as
// errors.
func logFailure(log logger.Interface, msg string, err error, kv ...any) {
	kv = append(kv, "error", err)
	if errors.IsAppError(err) {
		log.Warnw(msg, kv...)
		return
	}
	log.Errorw(msg, kv...)
}

// graphError turns traversal failures into a recognized bad-request error.
func graphError(err error) error {
	if stderrors.Is(err, permission.ErrCycleDetected) || stderrors.Is(err, permission.ErrHierarchyTooDeep) {
		return permission.ErrPermissionCycle(err.Error())
	}
	return fmt.Errorf("failed to traverse permission hierarchy: %w", err)
}

func requireRole(ctx context.Context, repo permission.RoleRepository, roleID uint) (*permission.Role, error) {
	role, err := repo.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, permission.ErrRoleNotFound()
	}
	return role, nil
}

func requireUser(ctx context.Context, repo user.Repository, userID uint) error {
	exists, err := repo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return permission.ErrUserNotFound()
	}
	return nil
}

func requirePermission(ctx context.Context, repo permission.PermissionRepository, permissionID uint) (*permission.Permission, error) {
	p, err := repo.GetByID(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	if p == nil {
		return nil, permission.ErrPermissionNotFound()
	}
	return p, nil
}
