package usecases

import (
	"context"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

type GetPermissionTreeUseCase struct {
	permissionRepo permission.PermissionRepository
	maxDepth       int
	logger         logger.Interface
}

func NewGetPermissionTreeUseCase(permissionRepo permission.PermissionRepository, settings Settings, logger logger.Interface) *GetPermissionTreeUseCase {
	return &GetPermissionTreeUseCase{
		permissionRepo: permissionRepo,
		maxDepth:       settings.MaxPermissionDepth,
		logger:         logger,
	}
}

// Execute returns the whole permission forest, roots and siblings in sort
// order.
func (uc *GetPermissionTreeUseCase) Execute(ctx context.Context) ([]*dto.PermissionTreeNode, error) {
	tree, err := uc.execute(ctx)
	if err != nil {
		logFailure(uc.logger, "failed to build permission tree", err)
		return nil, errors.Wrap(err, permission.ReasonPermissionManageError, "failed to build permission tree")
	}
	return tree, nil
}

func (uc *GetPermissionTreeUseCase) execute(ctx context.Context) ([]*dto.PermissionTreeNode, error) {
	all, err := uc.permissionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	forest, err := permission.NewGraph(all, permission.WithMaxDepth(uc.maxDepth)).Tree()
	if err != nil {
		return nil, graphError(err)
	}
	return dto.ToPermissionTree(forest), nil
}
