package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// GetPermissionInheritanceUseCase returns a permission and every permission
// below it.
type GetPermissionInheritanceUseCase struct {
	permissionRepo permission.PermissionRepository
	maxDepth       int
	logger         logger.Interface
}

func NewGetPermissionInheritanceUseCase(
	permissionRepo permission.PermissionRepository,
	settings Settings,
	logger logger.Interface,
) *GetPermissionInheritanceUseCase {
	return &GetPermissionInheritanceUseCase{
		permissionRepo: permissionRepo,
		maxDepth:       settings.MaxPermissionDepth,
		logger:         logger,
	}
}

func (uc *GetPermissionInheritanceUseCase) Execute(ctx context.Context, permissionID uint) (*dto.InheritanceResult, error) {
	result, err := uc.execute(ctx, permissionID)
	if err != nil {
		logFailure(uc.logger, "failed to get permission inheritance", err, "permission_id", permissionID)
		return nil, errors.Wrap(err, permission.ReasonInheritanceError, "failed to get permission inheritance")
	}
	return result, nil
}

func (uc *GetPermissionInheritanceUseCase) execute(ctx context.Context, permissionID uint) (*dto.InheritanceResult, error) {
	p, err := requirePermission(ctx, uc.permissionRepo, permissionID)
	if err != nil {
		return nil, err
	}

	all, err := uc.permissionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	g := permission.NewGraph(all, permission.WithMaxDepth(uc.maxDepth))

	ids, err := g.Descendants(p.ID())
	if err != nil {
		return nil, graphError(err)
	}

	children := make([]*dto.PermissionDTO, 0, len(ids))
	for _, id := range ids {
		child, _ := g.Get(id)
		children = append(children, dto.ToPermissionDTO(child))
	}

	return &dto.InheritanceResult{
		Permission:       dto.ToPermissionDTO(p),
		ChildPermissions: children,
	}, nil
}
