package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
)

func TestPermissionRepository_CreateAndGet(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewPermissionRepository(gdb)
	ctx := context.Background()

	root := mustCreatePermission(t, gdb, "finance", nil)
	child := mustCreatePermission(t, gdb, "finance:approve", idPtr(root.ID()), "finance:submit")

	found, err := repo.GetByID(ctx, child.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.ParentID())
	assert.Equal(t, root.ID(), *found.ParentID())
	assert.Equal(t, []string{"finance:submit"}, found.ConflictCodes())

	byCode, err := repo.GetByCode(ctx, "finance")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.True(t, byCode.IsRoot())

	n, err := repo.CountChildren(ctx, root.ID())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPermissionRepository_DuplicateCode(t *testing.T) {
	gdb := testdb.New(t)
	mustCreatePermission(t, gdb, "finance", nil)

	dup, err := permission.NewPermission(permission.PermissionAttrs{Name: "x", Code: "finance", Type: permission.PermissionTypeAPI})
	require.NoError(t, err)
	err = NewPermissionRepository(gdb).Create(context.Background(), dup)
	assert.Equal(t, permission.ReasonPermissionCodeExists, apperrors.ReasonOf(err))
}

func TestPermissionRepository_UpdateAndDelete(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewPermissionRepository(gdb)
	ctx := context.Background()

	a := mustCreatePermission(t, gdb, "a", nil)
	b := mustCreatePermission(t, gdb, "b", nil)

	attrs := b.Attrs()
	attrs.ParentID = idPtr(a.ID())
	attrs.ConflictCodes = []string{"c"}
	require.NoError(t, b.Update(attrs))
	require.NoError(t, repo.Update(ctx, b))

	found, err := repo.GetByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, a.ID(), *found.ParentID())
	assert.Equal(t, []string{"c"}, found.ConflictCodes())

	attrs.ParentID = nil
	require.NoError(t, b.Update(attrs))
	require.NoError(t, repo.Update(ctx, b))
	found, err = repo.GetByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Nil(t, found.ParentID())

	require.NoError(t, repo.Delete(ctx, b.ID()))
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a.ID(), all[0].ID())

	assert.True(t, apperrors.IsNotFoundError(repo.Delete(ctx, b.ID())))
}

func TestPermissionRepository_List(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewPermissionRepository(gdb)
	root := mustCreatePermission(t, gdb, "root", nil)
	mustCreatePermission(t, gdb, "root:a", idPtr(root.ID()))
	mustCreatePermission(t, gdb, "root:b", idPtr(root.ID()))

	perms, total, err := repo.List(context.Background(), permission.PermissionFilter{ParentID: idPtr(root.ID())})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, perms, 2)

	_, total, err = repo.List(context.Background(), permission.PermissionFilter{Type: permission.PermissionTypeAPI})
	require.NoError(t, err)
	assert.Zero(t, total)
}
