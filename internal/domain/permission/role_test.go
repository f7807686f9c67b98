package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/shared/errors"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name    string
		rname   string
		code    string
		wantErr bool
	}{
		{"valid", "Teacher", "teacher", false},
		{"namespaced code", "Class Admin", "class:admin", false},
		{"empty name", "", "teacher", true},
		{"empty code", "Teacher", "", true},
		{"uppercase code", "Teacher", "Teacher", true},
		{"code starts with digit", "Teacher", "1teacher", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := NewRole(tt.rname, tt.code, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RoleStatusActive, role.Status())
			assert.Equal(t, StateActive, role.State())
		})
	}
}

func TestRole_MarkDeleted(t *testing.T) {
	protected := []string{"admin", "user"}

	admin, err := NewRole("Administrator", "admin", "")
	require.NoError(t, err)
	err = admin.MarkDeleted(protected, time.Now())
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, ReasonProtectedRole, appErr.Reason)
	assert.Equal(t, StateActive, admin.State())

	teacher, err := NewRole("Teacher", "teacher", "")
	require.NoError(t, err)
	require.NoError(t, teacher.MarkDeleted(protected, time.Now()))
	assert.Equal(t, StateDeleted, teacher.State())
	assert.Equal(t, RoleStatusInactive, teacher.Status())
}

func TestRole_ChangeStatus(t *testing.T) {
	role, err := NewRole("Teacher", "teacher", "")
	require.NoError(t, err)

	require.NoError(t, role.ChangeStatus(RoleStatusInactive))
	assert.Equal(t, RoleStatusInactive, role.Status())
	assert.Error(t, role.ChangeStatus("archived"))
}

func TestPermission_Update(t *testing.T) {
	p, err := NewPermission(PermissionAttrs{
		Name:          "Users",
		Code:          "user",
		Type:          PermissionTypeMenu,
		ConflictCodes: []string{"audit", "", "audit", "user"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"audit"}, p.ConflictCodes())
	require.NoError(t, p.SetID(5))

	attrs := p.Attrs()
	attrs.Code = "renamed"
	attrs.Name = "People"
	require.NoError(t, p.Update(attrs))
	assert.Equal(t, "user", p.Code())
	assert.Equal(t, "People", p.Name())

	attrs.ParentID = uintPtr(5)
	assert.Error(t, p.Update(attrs))
}

func TestNewPermission_InvalidType(t *testing.T) {
	_, err := NewPermission(PermissionAttrs{Name: "x", Code: "x", Type: "page"})
	assert.Error(t, err)
}

func TestUserRole_EffectiveAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"unbounded", nil, nil, true},
		{"started", &past, nil, true},
		{"not started", &future, nil, false},
		{"expired", nil, &past, false},
		{"inside", &past, &future, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ur := NewUserRole(1, 2, tt.start, tt.end, nil, now)
			assert.Equal(t, tt.want, ur.EffectiveAt(now))
		})
	}

	revoked := NewUserRole(1, 2, nil, nil, nil, now)
	revoked.DeletedAt = &now
	assert.False(t, revoked.EffectiveAt(now))
	assert.Equal(t, StateDeleted, revoked.State())
}

func TestUserRole_SetValidity(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	ur := NewUserRole(1, 2, nil, nil, nil, now)

	assert.ErrorIs(t, ur.SetValidity(&later, &now), ErrInvalidValidityWindow)
	assert.ErrorIs(t, ur.SetValidity(&now, &now), ErrInvalidValidityWindow)
	require.NoError(t, ur.SetValidity(&now, &later))
	assert.Equal(t, &later, ur.EndTime)
	require.NoError(t, ur.SetValidity(nil, &later))
	assert.Nil(t, ur.StartTime)
}

func TestUserRole_NextBoundary(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	soon := now.Add(time.Minute)
	later := now.Add(time.Hour)

	pending := NewUserRole(1, 2, &soon, &later, nil, now)
	next, ok := pending.NextBoundary(now)
	require.True(t, ok)
	assert.Equal(t, soon, next, "a pending grant flips on at its start")

	running := NewUserRole(1, 3, &past, &later, nil, now)
	next, ok = running.NextBoundary(now)
	require.True(t, ok)
	assert.Equal(t, later, next, "a running grant flips off at its end")

	_, ok = NewUserRole(1, 4, &past, nil, nil, now).NextBoundary(now)
	assert.False(t, ok)

	revoked := NewUserRole(1, 5, nil, &later, nil, now)
	revoked.DeletedAt = &now
	_, ok = revoked.NextBoundary(now)
	assert.False(t, ok)

	next, ok = NextWindowBoundary([]*UserRole{running, pending, revoked}, now)
	require.True(t, ok)
	assert.Equal(t, soon, next)

	_, ok = NextWindowBoundary(nil, now)
	assert.False(t, ok)
}
