package usecases_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

func primaryRoleIDs(t *testing.T, gdb *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, gdb.Model(&models.UserRoleModel{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Order("role_id ASC").
		Pluck("role_id", &ids).Error)
	return ids
}

func countLiveUserRoles(t *testing.T, gdb *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&models.UserRoleModel{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestAssignRolesToUser_IdempotentAndCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	r2 := f.role(t, "r2")
	uc := f.assignRoles()

	res, err := uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID(), r2.ID()}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RoleCount)
	assert.EqualValues(t, 2, res.NewlyAssigned)

	res, err = uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.NewlyAssigned)
	assert.EqualValues(t, 2, countLiveUserRoles(t, f.db, u1.ID()))
	assert.Equal(t, []uint{u1.ID()}, f.refresher.users)
}

func TestAssignRolesToUser_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	r2 := f.role(t, "r2")
	uc := f.assignRoles()
	start := time.Now()
	end := start.Add(-time.Hour)

	tests := []struct {
		name   string
		cmd    usecases.AssignRolesToUserCommand
		reason string
		status int
	}{
		{"empty role ids", usecases.AssignRolesToUserCommand{UserID: u1.ID()}, permission.ReasonRoleIDsRequired, http.StatusBadRequest},
		{"unknown user", usecases.AssignRolesToUserCommand{UserID: 4242, RoleIDs: []uint{r1.ID()}}, permission.ReasonUserNotFound, http.StatusNotFound},
		{"unknown role", usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID(), 4242}}, permission.ReasonSomeRolesNotFound, http.StatusBadRequest},
		{"several primaries", usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID(), r2.ID()}, IsPrimary: true}, permission.ReasonPrimaryRoleAmbiguous, http.StatusBadRequest},
		{"inverted window", usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, StartTime: &start, EndTime: &end}, permission.ReasonInvalidValidityWindow, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.cmd)
			requireReason(t, err, tt.reason, tt.status)
		})
	}
	assert.EqualValues(t, 0, countLiveUserRoles(t, f.db, u1.ID()))
}

func TestAssignRolesToUser_PrimaryStaysUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	r2 := f.role(t, "r2")
	r3 := f.role(t, "r3")
	uc := f.assignRoles()
	setPrimary := usecases.NewSetPrimaryRoleUseCase(f.tx, f.users, f.userRoles, f.log)

	_, err := uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, IsPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{r1.ID()}, primaryRoleIDs(t, f.db, u1.ID()))

	_, err = uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r2.ID()}, IsPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{r2.ID()}, primaryRoleIDs(t, f.db, u1.ID()))

	_, err = uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r3.ID()}})
	require.NoError(t, err)
	_, err = setPrimary.Execute(ctx, u1.ID(), r3.ID())
	require.NoError(t, err)
	assert.Equal(t, []uint{r3.ID()}, primaryRoleIDs(t, f.db, u1.ID()))

	// An already-held role can be promoted through assign as well.
	res, err := uc.Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, IsPrimary: true})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.NewlyAssigned)
	assert.Equal(t, []uint{r1.ID()}, primaryRoleIDs(t, f.db, u1.ID()))
}

func TestAssignRolesToUser_FailureAfterInsertRollsBack(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_user_roles", func(tx *gorm.DB) {
		if tx.Statement.Table == constants.TableUserRoles {
			_ = tx.AddError(stderrors.New("simulated store failure"))
		}
	}))

	_, err := f.assignRoles().Execute(context.Background(), usecases.AssignRolesToUserCommand{
		UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, IsPrimary: true,
	})
	requireReason(t, err, permission.ReasonRoleAssignError, http.StatusInternalServerError)

	require.NoError(t, f.db.Callback().Update().Remove("test:fail_user_roles"))
	assert.EqualValues(t, 0, countLiveUserRoles(t, f.db, u1.ID()), "the grant inserted before the failing update must be rolled back")
	assert.Empty(t, f.refresher.users)
}

func TestSetPrimaryRole_SwitchesBetweenHeldRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	r2 := f.role(t, "r2")
	_, err := f.assignRoles().Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, IsPrimary: true})
	require.NoError(t, err)
	f.grantRoles(t, u1.ID(), r2.ID())

	res, err := usecases.NewSetPrimaryRoleUseCase(f.tx, f.users, f.userRoles, f.log).Execute(ctx, u1.ID(), r2.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, res.IsPrimary)

	g1, err := f.userRoles.GetActive(ctx, u1.ID(), r1.ID())
	require.NoError(t, err)
	g2, err := f.userRoles.GetActive(ctx, u1.ID(), r2.ID())
	require.NoError(t, err)
	assert.False(t, g1.IsPrimary)
	assert.True(t, g2.IsPrimary)
}

func TestSetPrimaryRole_Errors(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	uc := usecases.NewSetPrimaryRoleUseCase(f.tx, f.users, f.userRoles, f.log)

	_, err := uc.Execute(context.Background(), u1.ID(), r1.ID())
	requireReason(t, err, permission.ReasonUserRoleNotFound, http.StatusNotFound)

	_, err = uc.Execute(context.Background(), 4242, r1.ID())
	requireReason(t, err, permission.ReasonUserNotFound, http.StatusNotFound)
}

func TestRemoveRolesFromUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	f.grantRoles(t, u1.ID(), r1.ID())
	uc := usecases.NewRemoveRolesFromUserUseCase(f.tx, f.users, f.userRoles, f.refresher, f.log)

	res, err := uc.Execute(ctx, usecases.RemoveRolesFromUserCommand{UserID: u1.ID(), RoleIDs: []uint{999}})
	require.NoError(t, err)
	assert.Equal(t, u1.ID(), res.UserID)
	assert.EqualValues(t, 0, res.RemovedCount)

	res, err = uc.Execute(ctx, usecases.RemoveRolesFromUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.RemovedCount)
	assert.EqualValues(t, 0, countLiveUserRoles(t, f.db, u1.ID()))

	_, err = uc.Execute(ctx, usecases.RemoveRolesFromUserCommand{UserID: 4242, RoleIDs: []uint{r1.ID()}})
	requireReason(t, err, permission.ReasonUserNotFound, http.StatusNotFound)

	_, err = uc.Execute(ctx, usecases.RemoveRolesFromUserCommand{UserID: u1.ID()})
	requireReason(t, err, permission.ReasonRoleIDsRequired, http.StatusBadRequest)
}

func TestGetUserRoles_ReportsEffectiveWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	current := f.role(t, "current")
	future := f.role(t, "future")
	f.grantRoles(t, u1.ID(), current.ID())
	start := time.Now().Add(24 * time.Hour)
	_, err := f.assignRoles().Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{future.ID()}, StartTime: &start})
	require.NoError(t, err)

	res, err := usecases.NewGetUserRolesUseCase(f.users, f.roles, f.userRoles, f.log).Execute(ctx, u1.ID())
	require.NoError(t, err)
	require.Len(t, res.Roles, 2)

	effective := map[string]bool{}
	for _, r := range res.Roles {
		effective[r.RoleCode] = r.Effective
	}
	assert.Equal(t, map[string]bool{"current": true, "future": false}, effective)

	_, err = usecases.NewGetUserRolesUseCase(f.users, f.roles, f.userRoles, f.log).Execute(ctx, 4242)
	requireReason(t, err, permission.ReasonUserNotFound, http.StatusNotFound)
}

func TestUpdateRoleValidity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	f.grantRoles(t, u1.ID(), r1.ID())
	grant, err := f.userRoles.GetActive(ctx, u1.ID(), r1.ID())
	require.NoError(t, err)
	uc := usecases.NewUpdateRoleValidityUseCase(f.tx, f.roles, f.userRoles, f.refresher, f.log)

	start := time.Now().Add(-time.Hour).Truncate(time.Second)
	end := start.Add(48 * time.Hour)
	res, err := uc.Execute(ctx, usecases.UpdateRoleValidityCommand{UserRoleID: grant.ID, StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	require.NotNil(t, res.EndTime)
	assert.True(t, res.EndTime.Equal(end))
	assert.True(t, res.Effective)
	assert.Contains(t, f.refresher.users, u1.ID())

	_, err = uc.Execute(ctx, usecases.UpdateRoleValidityCommand{UserRoleID: grant.ID, StartTime: &end, EndTime: &start})
	requireReason(t, err, permission.ReasonInvalidValidityWindow, http.StatusBadRequest)

	_, err = uc.Execute(ctx, usecases.UpdateRoleValidityCommand{UserRoleID: 4242})
	requireReason(t, err, permission.ReasonUserRoleNotFound, http.StatusNotFound)
}

func TestGetUserRoleHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin")
	u1 := f.user(t, "u1")
	r1 := f.role(t, "r1")
	_, err := f.assignRoles().Execute(ctx, usecases.AssignRolesToUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}, GrantorID: idPtr(admin.ID())})
	require.NoError(t, err)
	_, err = usecases.NewRemoveRolesFromUserUseCase(f.tx, f.users, f.userRoles, f.refresher, f.log).
		Execute(ctx, usecases.RemoveRolesFromUserCommand{UserID: u1.ID(), RoleIDs: []uint{r1.ID()}})
	require.NoError(t, err)

	page, err := usecases.NewGetUserRoleHistoryUseCase(f.users, f.userRoles, f.log).Execute(ctx, u1.ID(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.History, 1)
	assert.Equal(t, "r1", page.History[0].RoleCode)
	assert.Equal(t, "admin", page.History[0].GrantorName)
	assert.NotNil(t, page.History[0].DeletedAt)
}
