package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(testdb.New(t), logger.NewNop())
	require.NoError(t, err)
	return e
}

func TestEnforcer_RoleAndUserPolicies(t *testing.T) {
	e := newTestEnforcer(t)

	require.NoError(t, e.ReplaceRolePolicies("teacher", []string{"class:view", "attendance:edit"}))
	require.NoError(t, e.ReplaceUserRoles(7, []string{"teacher"}))

	allowed, err := e.Enforce(7, "class:view")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.Enforce(7, "finance:approve")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.Enforce(8, "class:view")
	require.NoError(t, err)
	assert.False(t, allowed)

	codes, err := e.PermissionsForUser(7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"class:view", "attendance:edit"}, codes)
}

func TestEnforcer_ReplaceDropsStalePolicies(t *testing.T) {
	e := newTestEnforcer(t)

	require.NoError(t, e.ReplaceRolePolicies("teacher", []string{"class:view", "class:edit"}))
	require.NoError(t, e.ReplaceRolePolicies("teacher", []string{"class:view"}))
	require.NoError(t, e.ReplaceUserRoles(1, []string{"teacher"}))

	allowed, err := e.Enforce(1, "class:edit")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, e.ReplaceUserRoles(1, nil))
	allowed, err = e.Enforce(1, "class:view")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforcer_RolesForUser(t *testing.T) {
	e := newTestEnforcer(t)

	codes, err := e.RolesForUser(7)
	require.NoError(t, err)
	assert.Empty(t, codes)

	require.NoError(t, e.ReplaceUserRoles(7, []string{"teacher", "cook"}))
	codes, err = e.RolesForUser(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"cook", "teacher"}, codes)

	require.NoError(t, e.ReplaceUserRoles(7, nil))
	codes, err = e.RolesForUser(7)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestEnforcer_DeleteRole(t *testing.T) {
	e := newTestEnforcer(t)

	require.NoError(t, e.ReplaceRolePolicies("cook", []string{"kitchen:menu"}))
	require.NoError(t, e.ReplaceUserRoles(3, []string{"cook"}))
	require.NoError(t, e.DeleteRole("cook"))

	allowed, err := e.Enforce(3, "kitchen:menu")
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, e.LoadPolicy())
	allowed, err = e.Enforce(3, "kitchen:menu")
	require.NoError(t, err)
	assert.False(t, allowed, "deletion is persisted through the adapter")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "user:42", UserSubject(42))
	assert.Equal(t, "role:admin", RoleSubject("admin"))
}
