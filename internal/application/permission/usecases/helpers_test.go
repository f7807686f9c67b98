package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	"github.com/kinderhub/kinderhub/internal/infrastructure/repository"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	"github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// recordingRefresher captures post-commit notifications.
type recordingRefresher struct {
	mu           sync.Mutex
	roles        []uint
	users        []uint
	deleted      []string
	permsChanged int
}

func (r *recordingRefresher) RolesChanged(_ context.Context, roleIDs ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles = append(r.roles, roleIDs...)
}

func (r *recordingRefresher) UsersChanged(_ context.Context, userIDs ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userIDs...)
}

func (r *recordingRefresher) RoleDeleted(_ context.Context, roleCode string, userIDs []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, roleCode)
	r.users = append(r.users, userIDs...)
}

func (r *recordingRefresher) PermissionsChanged(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permsChanged++
}

type plainSanitizer struct{}

func (plainSanitizer) Sanitize(s string) string { return s }

type fixture struct {
	db        *gorm.DB
	tx        *db.TransactionManager
	users     user.Repository
	roles     permission.RoleRepository
	perms     permission.PermissionRepository
	rolePerms permission.RolePermissionRepository
	userRoles permission.UserRoleRepository
	refresher *recordingRefresher
	settings  usecases.Settings
	log       logger.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testdb.New(t)
	return &fixture{
		db:        gdb,
		tx:        db.NewTransactionManager(gdb),
		users:     repository.NewUserRepository(gdb),
		roles:     repository.NewRoleRepository(gdb),
		perms:     repository.NewPermissionRepository(gdb),
		rolePerms: repository.NewRolePermissionRepository(gdb),
		userRoles: repository.NewUserRoleRepository(gdb),
		refresher: &recordingRefresher{},
		settings:  usecases.Settings{ProtectedRoleCodes: []string{"admin", "user"}, MaxPermissionDepth: 64},
		log:       logger.NewNop(),
	}
}

func (f *fixture) user(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := user.NewUser(username, username)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) role(t *testing.T, code string) *permission.Role {
	t.Helper()
	r, err := permission.NewRole(code+" role", code, "")
	require.NoError(t, err)
	require.NoError(t, f.roles.Create(context.Background(), r))
	return r
}

func (f *fixture) permission(t *testing.T, code string, parent *uint, conflicts ...string) *permission.Permission {
	t.Helper()
	p, err := permission.NewPermission(permission.PermissionAttrs{
		Name:          code,
		Code:          code,
		Type:          permission.PermissionTypeMenu,
		ParentID:      parent,
		ConflictCodes: conflicts,
	})
	require.NoError(t, err)
	require.NoError(t, f.perms.Create(context.Background(), p))
	return p
}

func (f *fixture) assignPermissions() *usecases.AssignPermissionsToRoleUseCase {
	return usecases.NewAssignPermissionsToRoleUseCase(f.tx, f.roles, f.perms, f.rolePerms, f.refresher, f.log)
}

func (f *fixture) assignRoles() *usecases.AssignRolesToUserUseCase {
	return usecases.NewAssignRolesToUserUseCase(f.tx, f.users, f.roles, f.userRoles, f.refresher, f.log)
}

func (f *fixture) grantPermissions(t *testing.T, roleID uint, inherit bool, ids ...uint) {
	t.Helper()
	_, err := f.assignPermissions().Execute(context.Background(), usecases.AssignPermissionsToRoleCommand{
		RoleID: roleID, PermissionIDs: ids, Inherit: inherit,
	})
	require.NoError(t, err)
}

func (f *fixture) grantRoles(t *testing.T, userID uint, ids ...uint) {
	t.Helper()
	_, err := f.assignRoles().Execute(context.Background(), usecases.AssignRolesToUserCommand{UserID: userID, RoleIDs: ids})
	require.NoError(t, err)
}

func idPtr(id uint) *uint { return &id }

func requireReason(t *testing.T, err error, reason string, status int) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr, "expected an application error, got %v", err)
	require.Equal(t, reason, appErr.Reason)
	require.Equal(t, status, appErr.Code)
}
