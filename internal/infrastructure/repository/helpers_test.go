package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
)

func mustCreateUser(t *testing.T, gdb *gorm.DB, username, name string) *user.User {
	t.Helper()
	u, err := user.NewUser(username, name)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func mustCreateRole(t *testing.T, gdb *gorm.DB, code string) *permission.Role {
	t.Helper()
	role, err := permission.NewRole(code+" role", code, "")
	require.NoError(t, err)
	require.NoError(t, NewRoleRepository(gdb).Create(context.Background(), role))
	return role
}

func mustCreatePermission(t *testing.T, gdb *gorm.DB, code string, parent *uint, conflicts ...string) *permission.Permission {
	t.Helper()
	p, err := permission.NewPermission(permission.PermissionAttrs{
		Name:          code + " permission",
		Code:          code,
		Type:          permission.PermissionTypeMenu,
		ParentID:      parent,
		ConflictCodes: conflicts,
	})
	require.NoError(t, err)
	require.NoError(t, NewPermissionRepository(gdb).Create(context.Background(), p))
	return p
}

func idPtr(id uint) *uint { return &id }
