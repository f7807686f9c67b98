package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils/setutil"
)

// AccessSync keeps the policy engine and the permission cache in line with
// the stored grants. Refresh failures are logged; the grant change they
// follow has already committed.
type AccessSync struct {
	resolver     *accessResolver
	userRoleRepo permission.UserRoleRepository
	roleRepo     permission.RoleRepository
	cache        PermissionCache
	policies     PolicyStore
	logger       logger.Interface
}

func NewAccessSync(
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	rolePermissionRepo permission.RolePermissionRepository,
	userRoleRepo permission.UserRoleRepository,
	cache PermissionCache,
	policies PolicyStore,
	settings Settings,
	logger logger.Interface,
) *AccessSync {
	return &AccessSync{
		resolver: &accessResolver{
			roleRepo:           roleRepo,
			permissionRepo:     permissionRepo,
			rolePermissionRepo: rolePermissionRepo,
			userRoleRepo:       userRoleRepo,
			maxDepth:           settings.MaxPermissionDepth,
		},
		userRoleRepo: userRoleRepo,
		roleRepo:     roleRepo,
		cache:        cache,
		policies:     policies,
		logger:       logger,
	}
}

// RolesChanged rewrites the policies of the given roles and refreshes every
// user holding one of them.
func (s *AccessSync) RolesChanged(ctx context.Context, roleIDs ...uint) {
	g, err := s.resolver.loadGraph(ctx)
	if err != nil {
		s.logger.Errorw("failed to load permission graph for policy sync", "role_ids", roleIDs, "error", err)
		return
	}

	users := setutil.NewUintSet()
	for _, roleID := range roleIDs {
		if err := s.syncRole(ctx, g, roleID); err != nil {
			s.logger.Errorw("failed to sync role policies", "role_id", roleID, "error", err)
		}
		ids, err := s.userRoleRepo.ListUserIDsByRole(ctx, roleID)
		if err != nil {
			s.logger.Errorw("failed to list users of role", "role_id", roleID, "error", err)
			continue
		}
		users.AddAll(ids)
	}

	if users.Len() > 0 {
		s.UsersChanged(ctx, users.ToSlice()...)
	}
}

// UsersChanged relinks each user to their effective roles and drops their
// cached permissions.
func (s *AccessSync) UsersChanged(ctx context.Context, userIDs ...uint) {
	now := time.Now()
	for _, userID := range userIDs {
		if err := s.syncUser(ctx, userID, now); err != nil {
			s.logger.Errorw("failed to sync user roles", "user_id", userID, "error", err)
		}
	}

	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warnw("failed to invalidate permission cache", "user_ids", userIDs, "error", err)
	}
}

// RoleDeleted drops a deleted role's policies and refreshes its former
// holders.
func (s *AccessSync) RoleDeleted(ctx context.Context, roleCode string, userIDs []uint) {
	if err := s.policies.DeleteRole(roleCode); err != nil {
		s.logger.Errorw("failed to delete role policies", "role_code", roleCode, "error", err)
	}
	if len(userIDs) > 0 {
		s.UsersChanged(ctx, userIDs...)
	}
}

// PermissionsChanged follows a hierarchy change, after which any role may
// confer a different set of codes.
func (s *AccessSync) PermissionsChanged(ctx context.Context) {
	if err := s.SyncAll(ctx); err != nil {
		s.logger.Errorw("failed to resync policies after permission change", "error", err)
	}

	userIDs, err := s.userRoleRepo.ListUserIDs(ctx)
	if err != nil {
		s.logger.Errorw("failed to list users with roles", "error", err)
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warnw("failed to invalidate permission cache", "users", len(userIDs), "error", err)
	}
}

// SyncAll rebuilds every role policy and user link from the store. The
// server runs it on start.
func (s *AccessSync) SyncAll(ctx context.Context) error {
	g, err := s.resolver.loadGraph(ctx)
	if err != nil {
		return err
	}

	roles, err := s.roleRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if err := s.syncRole(ctx, g, role.ID()); err != nil {
			return err
		}
	}

	userIDs, err := s.userRoleRepo.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with roles: %w", err)
	}
	now := time.Now()
	for _, userID := range userIDs {
		if err := s.syncUser(ctx, userID, now); err != nil {
			return err
		}
	}

	s.logger.Infow("access policies synchronized", "roles", len(roles), "users", len(userIDs))
	return nil
}

func (s *AccessSync) syncRole(ctx context.Context, g *permission.Graph, roleID uint) error {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil
	}

	codes, err := s.resolver.roleCodes(ctx, g, roleID)
	if err != nil {
		return err
	}
	return s.policies.ReplaceRolePolicies(role.Code(), codes)
}

func (s *AccessSync) syncUser(ctx context.Context, userID uint, now time.Time) error {
	roles, _, err := s.resolver.effectiveRoles(ctx, userID, now)
	if err != nil {
		return err
	}
	return s.policies.ReplaceUserRoles(userID, roleCodeList(roles))
}
