package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
)

// accessResolver computes what roles and users are allowed to do from the
// live grants.
type accessResolver struct {
	roleRepo           permission.RoleRepository
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	userRoleRepo       permission.UserRoleRepository
	maxDepth           int
}

func (r *accessResolver) loadGraph(ctx context.Context) (*permission.Graph, error) {
	perms, err := r.permissionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}
	return permission.NewGraph(perms, permission.WithMaxDepth(r.maxDepth)), nil
}

// roleCodes returns the permission codes a role confers, inherited
// descendants included.
func (r *accessResolver) roleCodes(ctx context.Context, g *permission.Graph, roleID uint) ([]string, error) {
	grants, err := r.rolePermissionRepo.ListActiveByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	return conferredCodes(g, grants)
}

// effectiveRoles returns the active roles whose grant to userID is in effect
// at now, and the next moment that set can change because a validity window
// opens or closes. refreshAt is zero when no window bound lies ahead.
func (r *accessResolver) effectiveRoles(ctx context.Context, userID uint, now time.Time) (roles []*permission.Role, refreshAt time.Time, err error) {
	grants, err := r.userRoleRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load user roles: %w", err)
	}
	refreshAt, _ = permission.NextWindowBoundary(grants, now)

	roleIDs := make([]uint, 0, len(grants))
	for _, g := range grants {
		if g.EffectiveAt(now) {
			roleIDs = append(roleIDs, g.RoleID)
		}
	}
	loaded, err := r.roleRepo.GetByIDs(ctx, roleIDs)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load roles: %w", err)
	}

	roles = loaded[:0]
	for _, role := range loaded {
		if role.Status() == permission.RoleStatusActive {
			roles = append(roles, role)
		}
	}
	return roles, refreshAt, nil
}

// userCodes is the union of the codes conferred by the user's effective
// roles, sorted, with the refreshAt of effectiveRoles.
func (r *accessResolver) userCodes(ctx context.Context, g *permission.Graph, userID uint, now time.Time) ([]string, time.Time, error) {
	roles, refreshAt, err := r.effectiveRoles(ctx, userID, now)
	if err != nil {
		return nil, time.Time{}, err
	}
	roleIDs := make([]uint, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID())
	}

	grants, err := r.rolePermissionRepo.ListActiveByRoles(ctx, roleIDs)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load role permissions: %w", err)
	}
	codes, err := conferredCodes(g, grants)
	if err != nil {
		return nil, time.Time{}, err
	}
	return codes, refreshAt, nil
}

func conferredCodes(g *permission.Graph, grants []*permission.RolePermission) ([]string, error) {
	ids, err := permission.Expand(g, grants)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, ids.Len())
	for _, id := range ids.ToSlice() {
		if p, ok := g.Get(id); ok {
			codes = append(codes, p.Code())
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func roleCodeList(roles []*permission.Role) []string {
	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		codes = append(codes, role.Code())
	}
	sort.Strings(codes)
	return codes
}
