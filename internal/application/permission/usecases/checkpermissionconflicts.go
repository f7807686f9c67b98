package usecases

import (
	"context"
	"fmt"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

type CheckPermissionConflictsCommand struct {
	RoleID        uint
	PermissionIDs []uint
}

// CheckPermissionConflictsUseCase reports, without changing anything, which
// candidate permissions would conflict with the role's current grants.
type CheckPermissionConflictsUseCase struct {
	roleRepo           permission.RoleRepository
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	maxDepth           int
	logger             logger.Interface
}

func NewCheckPermissionConflictsUseCase(
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	settings Settings,
	logger logger.Interface,
) *CheckPermissionConflictsUseCase {
	return &CheckPermissionConflictsUseCase{
		roleRepo:           roleRepo,
		permissionRepo:     permissionRepo,
		rolePermissionRepo: rolePermissionRepo,
		maxDepth:           settings.MaxPermissionDepth,
		logger:             logger,
	}
}

func (uc *CheckPermissionConflictsUseCase) Execute(ctx context.Context, cmd CheckPermissionConflictsCommand) (*dto.ConflictCheckResult, error) {
	uc.logger.Infow("executing check permission conflicts use case", "role_id", cmd.RoleID, "permission_ids", cmd.PermissionIDs)

	result, err := uc.execute(ctx, cmd)
	if err != nil {
		logFailure(uc.logger, "failed to check permission conflicts", err, "role_id", cmd.RoleID)
		return nil, errors.Wrap(err, permission.ReasonConflictCheckError, "failed to check permission conflicts")
	}

	uc.logger.Infow("permission conflicts checked", "role_id", cmd.RoleID, "conflicts", len(result.Conflicts))
	return result, nil
}

func (uc *CheckPermissionConflictsUseCase) execute(ctx context.Context, cmd CheckPermissionConflictsCommand) (*dto.ConflictCheckResult, error) {
	if len(cmd.PermissionIDs) == 0 {
		return nil, permission.ErrPermissionIDsRequired()
	}
	ids := setutil.Dedupe(cmd.PermissionIDs)

	if _, err := requireRole(ctx, uc.roleRepo, cmd.RoleID); err != nil {
		return nil, err
	}

	perms, err := uc.permissionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return nil, permission.ErrSomePermissionsNotFound()
	}

	grants, err := uc.rolePermissionRepo.ListActiveByRole(ctx, cmd.RoleID)
	if err != nil {
		return nil, err
	}
	held := setutil.NewUintSet()
	for _, g := range grants {
		held.Add(g.PermissionID)
	}

	all, err := uc.permissionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	g := permission.NewGraph(all, permission.WithMaxDepth(uc.maxDepth))

	conflicts, err := permission.DetectConflicts(g, held, ids)
	if err != nil {
		return nil, graphError(err)
	}

	out := make([]*dto.ConflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, dto.ToConflictDTO(c))
	}
	return &dto.ConflictCheckResult{RoleID: cmd.RoleID, Conflicts: out}, nil
}
