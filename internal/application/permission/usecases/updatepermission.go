package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// UpdatePermissionCommand replaces every mutable attribute of a permission.
type UpdatePermissionCommand struct {
	PermissionID  uint
	Name          string
	Type          string
	ParentID      *uint
	Path          string
	Component     string
	Icon          string
	SortOrder     int
	ConflictCodes []string
}

type UpdatePermissionUseCase struct {
	txManager      TransactionRunner
	permissionRepo permission.PermissionRepository
	sanitizer      TextSanitizer
	refresher      AccessRefresher
	maxDepth       int
	logger         logger.Interface
}

func NewUpdatePermissionUseCase(
	txManager TransactionRunner,
	permissionRepo permission.PermissionRepository,
	sanitizer TextSanitizer,
	refresher AccessRefresher,
	settings Settings,
	logger logger.Interface,
) *UpdatePermissionUseCase {
	return &UpdatePermissionUseCase{
		txManager:      txManager,
		permissionRepo: permissionRepo,
		sanitizer:      sanitizer,
		refresher:      refresher,
		maxDepth:       settings.MaxPermissionDepth,
		logger:         logger,
	}
}

func (uc *UpdatePermissionUseCase) Execute(ctx context.Context, cmd UpdatePermissionCommand) (*dto.PermissionDTO, error) {
	uc.logger.Infow("executing update permission use case", "permission_id", cmd.PermissionID, "parent_id", cmd.ParentID)

	var (
		p        *permission.Permission
		reparent bool
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = requirePermission(ctx, uc.permissionRepo, cmd.PermissionID)
		if err != nil {
			return err
		}

		reparent = !sameParent(p.ParentID(), cmd.ParentID)
		if reparent && cmd.ParentID != nil {
			if err := uc.checkParent(ctx, p.ID(), *cmd.ParentID); err != nil {
				return err
			}
		}

		err = p.Update(permission.PermissionAttrs{
			Name:          uc.sanitizer.Sanitize(cmd.Name),
			Type:          permission.PermissionType(cmd.Type),
			ParentID:      cmd.ParentID,
			Path:          cmd.Path,
			Component:     cmd.Component,
			Icon:          cmd.Icon,
			SortOrder:     cmd.SortOrder,
			ConflictCodes: cmd.ConflictCodes,
		})
		if err != nil {
			return permission.ErrInvalidPermission(err)
		}

		if err := uc.permissionRepo.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update permission: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to update permission", err, "permission_id", cmd.PermissionID)
		return nil, errors.Wrap(err, permission.ReasonPermissionManageError, "failed to update permission")
	}

	if reparent {
		uc.refresher.PermissionsChanged(ctx)
	}

	uc.logger.Infow("permission updated", "permission_id", p.ID(), "reparented", reparent)
	return dto.ToPermissionDTO(p), nil
}

func (uc *UpdatePermissionUseCase) checkParent(ctx context.Context, id, parentID uint) error {
	all, err := uc.permissionRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	g := permission.NewGraph(all, permission.WithMaxDepth(uc.maxDepth))

	if _, ok := g.Get(parentID); !ok {
		return permission.ErrParentPermissionNotFound()
	}
	if g.WouldCreateCycle(id, parentID) {
		return permission.ErrPermissionCycle(fmt.Sprintf("permission %d cannot be placed under %d", id, parentID))
	}
	return nil
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

