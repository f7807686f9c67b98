package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
)

func TestUserRoleRepository_GrantAndPrimary(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRoleRepository(gdb)
	ctx := context.Background()

	u := mustCreateUser(t, gdb, "alice", "Alice")
	r1 := mustCreateRole(t, gdb, "r1")
	r2 := mustCreateRole(t, gdb, "r2")
	now := time.Now()

	n, err := repo.Grant(ctx, []*permission.UserRole{
		permission.NewUserRole(u.ID(), r1.ID(), nil, nil, nil, now),
		permission.NewUserRole(u.ID(), r2.ID(), nil, nil, nil, now),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Grant(ctx, []*permission.UserRole{permission.NewUserRole(u.ID(), r1.ID(), nil, nil, nil, now)})
	require.NoError(t, err)
	assert.Zero(t, n)

	affected, err := repo.MarkPrimary(ctx, u.ID(), r1.ID())
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	require.NoError(t, repo.ClearPrimary(ctx, u.ID()))
	_, err = repo.MarkPrimary(ctx, u.ID(), r2.ID())
	require.NoError(t, err)

	grants, err := repo.ListActiveByUser(ctx, u.ID())
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, r2.ID(), grants[0].RoleID)
	assert.True(t, grants[0].IsPrimary)
	assert.False(t, grants[1].IsPrimary)

	affected, err = repo.MarkPrimary(ctx, u.ID(), 999)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUserRoleRepository_RevokeClearsPrimary(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRoleRepository(gdb)
	ctx := context.Background()

	u := mustCreateUser(t, gdb, "alice", "Alice")
	r1 := mustCreateRole(t, gdb, "r1")
	now := time.Now()

	grant := permission.NewUserRole(u.ID(), r1.ID(), nil, nil, nil, now)
	grant.IsPrimary = true
	_, err := repo.Grant(ctx, []*permission.UserRole{grant})
	require.NoError(t, err)

	removed, err := repo.Revoke(ctx, u.ID(), []uint{r1.ID()}, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	history, total, err := repo.History(ctx, u.ID(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, history, 1)
	assert.False(t, history[0].Grant.IsPrimary)
	assert.Equal(t, permission.StateDeleted, history[0].Grant.State())
	assert.Equal(t, "r1", history[0].RoleCode)

	active, err := repo.GetActive(ctx, u.ID(), r1.ID())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUserRoleRepository_UpdateValidity(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRoleRepository(gdb)
	ctx := context.Background()

	u := mustCreateUser(t, gdb, "alice", "Alice")
	r1 := mustCreateRole(t, gdb, "r1")
	now := time.Now()
	_, err := repo.Grant(ctx, []*permission.UserRole{permission.NewUserRole(u.ID(), r1.ID(), nil, nil, nil, now)})
	require.NoError(t, err)

	grant, err := repo.GetActive(ctx, u.ID(), r1.ID())
	require.NoError(t, err)
	require.NotNil(t, grant)

	start := now.Add(-time.Hour).Truncate(time.Second)
	end := now.Add(time.Hour).Truncate(time.Second)
	require.NoError(t, grant.SetValidity(&start, &end))
	require.NoError(t, repo.UpdateValidity(ctx, grant))

	reloaded, err := repo.GetByID(ctx, grant.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.StartTime)
	require.NotNil(t, reloaded.EndTime)
	assert.True(t, start.Equal(*reloaded.StartTime))
	assert.True(t, end.Equal(*reloaded.EndTime))

	require.NoError(t, grant.SetValidity(nil, nil))
	require.NoError(t, repo.UpdateValidity(ctx, grant))
	reloaded, err = repo.GetByID(ctx, grant.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.StartTime)
	assert.Nil(t, reloaded.EndTime)
}

func TestUserRoleRepository_ListUserIDsByRole(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRoleRepository(gdb)
	ctx := context.Background()

	alice := mustCreateUser(t, gdb, "alice", "Alice")
	bob := mustCreateUser(t, gdb, "bob", "Bob")
	r1 := mustCreateRole(t, gdb, "r1")
	now := time.Now()
	_, err := repo.Grant(ctx, []*permission.UserRole{
		permission.NewUserRole(alice.ID(), r1.ID(), nil, nil, nil, now),
		permission.NewUserRole(bob.ID(), r1.ID(), nil, nil, nil, now),
	})
	require.NoError(t, err)

	ids, err := repo.ListUserIDsByRole(ctx, r1.ID())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID(), bob.ID()}, ids)
}

func TestUserRoleRepository_ListUserIDsSkipsRevoked(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRoleRepository(gdb)
	ctx := context.Background()

	alice := mustCreateUser(t, gdb, "alice", "Alice")
	bob := mustCreateUser(t, gdb, "bob", "Bob")
	r1 := mustCreateRole(t, gdb, "r1")
	r2 := mustCreateRole(t, gdb, "r2")
	now := time.Now()
	_, err := repo.Grant(ctx, []*permission.UserRole{
		permission.NewUserRole(alice.ID(), r1.ID(), nil, nil, nil, now),
		permission.NewUserRole(alice.ID(), r2.ID(), nil, nil, nil, now),
		permission.NewUserRole(bob.ID(), r1.ID(), nil, nil, nil, now),
	})
	require.NoError(t, err)

	_, err = repo.Revoke(ctx, bob.ID(), []uint{r1.ID()}, now)
	require.NoError(t, err)

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID()}, ids)
}
