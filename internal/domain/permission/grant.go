package permission

import "time"

// LifecycleState tags an entity or grant row as live or soft-deleted.
type LifecycleState string

const (
	StateActive  LifecycleState = "active"
	StateDeleted LifecycleState = "deleted"
)

func stateOf(deletedAt *time.Time) LifecycleState {
	if deletedAt != nil {
		return StateDeleted
	}
	return StateActive
}

// RolePermission grants a permission to a role. When inherit is set the
// grant also confers every descendant of the permission.
type RolePermission struct {
	ID           uint
	RoleID       uint
	PermissionID uint
	Inherit      bool
	GrantTime    time.Time
	GrantorID    *uint
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

func NewRolePermission(roleID, permissionID uint, inherit bool, grantorID *uint, at time.Time) *RolePermission {
	return &RolePermission{
		RoleID:       roleID,
		PermissionID: permissionID,
		Inherit:      inherit,
		GrantTime:    at,
		GrantorID:    grantorID,
		CreatedAt:    at,
	}
}

func (g *RolePermission) State() LifecycleState {
	return stateOf(g.DeletedAt)
}

// UserRole grants a role to a user, optionally limited to a validity window
// [StartTime, EndTime).
type UserRole struct {
	ID        uint
	UserID    uint
	RoleID    uint
	IsPrimary bool
	StartTime *time.Time
	EndTime   *time.Time
	GrantorID *uint
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func NewUserRole(userID, roleID uint, startTime, endTime *time.Time, grantorID *uint, at time.Time) *UserRole {
	return &UserRole{
		UserID:    userID,
		RoleID:    roleID,
		StartTime: startTime,
		EndTime:   endTime,
		GrantorID: grantorID,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (g *UserRole) State() LifecycleState {
	return stateOf(g.DeletedAt)
}

// EffectiveAt reports whether the grant is live and its validity window
// contains t.
func (g *UserRole) EffectiveAt(t time.Time) bool {
	if g.DeletedAt != nil {
		return false
	}
	if g.StartTime != nil && t.Before(*g.StartTime) {
		return false
	}
	if g.EndTime != nil && !t.Before(*g.EndTime) {
		return false
	}
	return true
}

// NextBoundary returns the first window bound after t, the moment at which
// EffectiveAt flips. ok is false for revoked or unbounded grants.
func (g *UserRole) NextBoundary(t time.Time) (next time.Time, ok bool) {
	if g.DeletedAt != nil {
		return time.Time{}, false
	}
	for _, b := range []*time.Time{g.StartTime, g.EndTime} {
		if b != nil && b.After(t) && (!ok || b.Before(next)) {
			next, ok = *b, true
		}
	}
	return next, ok
}

// NextWindowBoundary is the earliest NextBoundary over grants.
func NextWindowBoundary(grants []*UserRole, t time.Time) (next time.Time, ok bool) {
	for _, g := range grants {
		if b, has := g.NextBoundary(t); has && (!ok || b.Before(next)) {
			next, ok = b, true
		}
	}
	return next, ok
}

// SetValidity replaces the validity window. Both bounds are optional; when
// both are set end must be strictly after start.
func (g *UserRole) SetValidity(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrInvalidValidityWindow
	}
	g.StartTime = start
	g.EndTime = end
	g.UpdatedAt = time.Now()
	return nil
}
