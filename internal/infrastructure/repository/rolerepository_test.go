package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
)

func TestRoleRepository_CreateAndGet(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewRoleRepository(gdb)
	ctx := context.Background()

	role := mustCreateRole(t, gdb, "teacher")
	assert.NotZero(t, role.ID())

	found, err := repo.GetByID(ctx, role.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "teacher", found.Code())
	assert.Equal(t, permission.RoleStatusActive, found.Status())

	byCode, err := repo.GetByCode(ctx, "teacher")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, role.ID(), byCode.ID())

	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRoleRepository_DuplicateCode(t *testing.T) {
	gdb := testdb.New(t)
	mustCreateRole(t, gdb, "teacher")

	dup, err := permission.NewRole("Another", "teacher", "")
	require.NoError(t, err)
	err = NewRoleRepository(gdb).Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, permission.ReasonRoleCodeExists, apperrors.ReasonOf(err))
}

func TestRoleRepository_GetByIDs(t *testing.T) {
	gdb := testdb.New(t)
	r1 := mustCreateRole(t, gdb, "r1")
	r2 := mustCreateRole(t, gdb, "r2")

	roles, err := NewRoleRepository(gdb).GetByIDs(context.Background(), []uint{r2.ID(), r1.ID(), 999})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, r1.ID(), roles[0].ID())
}

func TestRoleRepository_List(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewRoleRepository(gdb)
	ctx := context.Background()

	mustCreateRole(t, gdb, "teacher")
	mustCreateRole(t, gdb, "head_teacher")
	inactive := mustCreateRole(t, gdb, "parent")
	require.NoError(t, inactive.ChangeStatus(permission.RoleStatusInactive))
	require.NoError(t, repo.Update(ctx, inactive))

	roles, total, err := repo.List(ctx, permission.RoleFilter{Keyword: "teacher"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, roles, 2)

	roles, total, err = repo.List(ctx, permission.RoleFilter{Status: permission.RoleStatusInactive})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "parent", roles[0].Code())

	roles, total, err = repo.List(ctx, permission.RoleFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, roles, 1)
}

func TestRoleRepository_SoftDelete(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewRoleRepository(gdb)
	ctx := context.Background()

	role := mustCreateRole(t, gdb, "teacher")
	require.NoError(t, role.MarkDeleted(nil, time.Now()))
	require.NoError(t, repo.SoftDelete(ctx, role))

	found, err := repo.GetByID(ctx, role.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	exists, err := repo.ExistsByCode(ctx, "teacher")
	require.NoError(t, err)
	assert.True(t, exists, "deleted role codes stay reserved")

	err = repo.SoftDelete(ctx, role)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestRoleRepository_ListAllSkipsDeleted(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewRoleRepository(gdb)
	ctx := context.Background()

	keep := mustCreateRole(t, gdb, "teacher")
	gone := mustCreateRole(t, gdb, "intern")
	require.NoError(t, gone.MarkDeleted(nil, time.Now()))
	require.NoError(t, repo.SoftDelete(ctx, gone))

	roles, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, keep.ID(), roles[0].ID())
}
