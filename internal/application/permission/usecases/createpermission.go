package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type CreatePermissionCommand struct {
	Name          string
	Code          string
	Type          string
	ParentID      *uint
	Path          string
	Component     string
	Icon          string
	SortOrder     int
	ConflictCodes []string
}

type CreatePermissionUseCase struct {
	txManager      TransactionRunner
	permissionRepo permission.PermissionRepository
	sanitizer      TextSanitizer
	logger         logger.Interface
}

func NewCreatePermissionUseCase(
	txManager TransactionRunner,
	permissionRepo permission.PermissionRepository,
	sanitizer TextSanitizer,
	logger logger.Interface,
) *CreatePermissionUseCase {
	return &CreatePermissionUseCase{
		txManager:      txManager,
		permissionRepo: permissionRepo,
		sanitizer:      sanitizer,
		logger:         logger,
	}
}

func (uc *CreatePermissionUseCase) Execute(ctx context.Context, cmd CreatePermissionCommand) (*dto.PermissionDTO, error) {
	uc.logger.Infow("executing create permission use case", "code", cmd.Code, "parent_id", cmd.ParentID)

	p, err := permission.NewPermission(permission.PermissionAttrs{
		Name:          uc.sanitizer.Sanitize(cmd.Name),
		Code:          cmd.Code,
		Type:          permission.PermissionType(cmd.Type),
		ParentID:      cmd.ParentID,
		Path:          cmd.Path,
		Component:     cmd.Component,
		Icon:          cmd.Icon,
		SortOrder:     cmd.SortOrder,
		ConflictCodes: cmd.ConflictCodes,
	})
	if err != nil {
		uc.logger.Warnw("invalid permission", "code", cmd.Code, "error", err)
		return nil, permission.ErrInvalidPermission(err)
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if p.ParentID() != nil {
			parent, err := uc.permissionRepo.GetByID(ctx, *p.ParentID())
			if err != nil {
				return err
			}
			if parent == nil {
				return permission.ErrParentPermissionNotFound()
			}
		}

		existing, err := uc.permissionRepo.GetByCode(ctx, p.Code())
		if err != nil {
			return err
		}
		if existing != nil {
			return permission.ErrPermissionCodeExists(p.Code())
		}

		if err := uc.permissionRepo.Create(ctx, p); err != nil {
			if errors.IsDuplicateError(err) {
				return permission.ErrPermissionCodeExists(p.Code())
			}
			return fmt.Errorf("failed to create permission: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(uc.logger, "failed to create permission", err, "code", cmd.Code)
		return nil, errors.Wrap(err, permission.ReasonPermissionManageError, "failed to create permission")
	}

	uc.logger.Infow("permission created", "permission_id", p.ID(), "code", p.Code())
	return dto.ToPermissionDTO(p), nil
}
