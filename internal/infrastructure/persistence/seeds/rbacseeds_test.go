package seeds

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	"github.com/kinderhub/kinderhub/internal/infrastructure/repository"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

const sample = `
permissions:
  - code: classes
    name: Classes
    type: menu
    path: /classes
    children:
      - code: classes.view
        name: View classes
        type: button
      - code: classes.edit
        name: Edit classes
        type: button
  - code: finance.submit
    name: Submit expenses
    type: api
    conflict_codes: [finance.approve]
  - code: finance.approve
    name: Approve expenses
    type: api
roles:
  - code: admin
    name: Administrator
    permissions: [classes, finance.approve]
  - code: teacher
    name: Teacher
    inherit: false
    permissions: [classes.view]
users:
  - username: principal
    name: Head of School
    roles: [admin, teacher]
    primary: admin
`

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("roles:\n  - code: a\n    colour: red\n"))
	assert.Error(t, err)

	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Roles)
}

func TestSeeder_ApplyIsRepeatable(t *testing.T) {
	gdb := testdb.New(t)
	ctx := context.Background()
	f, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	s := NewSeeder(gdb, logger.NewNop())

	sum, err := s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Permissions)
	assert.Equal(t, 2, sum.Roles)
	assert.Equal(t, 1, sum.Users)
	assert.EqualValues(t, 3, sum.RolePermissions)
	assert.EqualValues(t, 2, sum.UserRoles)

	sum, err = s.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, sum)

	perms := repository.NewPermissionRepository(gdb)
	view, err := perms.GetByCode(ctx, "classes.view")
	require.NoError(t, err)
	parent, err := perms.GetByCode(ctx, "classes")
	require.NoError(t, err)
	require.NotNil(t, view.ParentID())
	assert.Equal(t, parent.ID(), *view.ParentID())

	u, err := repository.NewUserRepository(gdb).GetByUsername(ctx, "principal")
	require.NoError(t, err)
	admin, err := repository.NewRoleRepository(gdb).GetByCode(ctx, "admin")
	require.NoError(t, err)
	grant, err := repository.NewUserRoleRepository(gdb).GetActive(ctx, u.ID(), admin.ID())
	require.NoError(t, err)
	assert.True(t, grant.IsPrimary)
}

func TestSeeder_UnknownReferenceRollsBack(t *testing.T) {
	gdb := testdb.New(t)
	ctx := context.Background()
	f, err := Load(strings.NewReader(`
roles:
  - code: cook
    name: Cook
    permissions: [meals.plan]
`))
	require.NoError(t, err)

	_, err = NewSeeder(gdb, logger.NewNop()).Apply(ctx, f)
	require.Error(t, err)

	role, err := repository.NewRoleRepository(gdb).GetByCode(ctx, "cook")
	require.NoError(t, err)
	assert.Nil(t, role)
}
