package permission

import (
	"context"
	"time"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*Role, int64, error)
	ListAll(ctx context.Context) ([]*Role, error)
	Update(ctx context.Context, role *Role) error
	// SoftDelete persists the role's inactive status and deletion marker.
	SoftDelete(ctx context.Context, role *Role) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uint) (*Permission, error)
	GetByCode(ctx context.Context, code string) (*Permission, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Permission, error)
	// ListAll returns every live permission; the Graph is built from it.
	ListAll(ctx context.Context) ([]*Permission, error)
	List(ctx context.Context, filter PermissionFilter) ([]*Permission, int64, error)
	Update(ctx context.Context, permission *Permission) error
	Delete(ctx context.Context, id uint) error
	CountChildren(ctx context.Context, id uint) (int64, error)
}

// RolePermissionRepository stores role→permission grants. Only one live row
// may exist per (role, permission); Grant skips pairs that already have one.
type RolePermissionRepository interface {
	// Grant inserts the grants whose pair has no live row and returns how
	// many rows were actually inserted.
	Grant(ctx context.Context, grants []*RolePermission) (int64, error)
	// Revoke soft-deletes the live grants of roleID for permissionIDs.
	Revoke(ctx context.Context, roleID uint, permissionIDs []uint, at time.Time) (int64, error)
	RevokeAllForRole(ctx context.Context, roleID uint, at time.Time) (int64, error)
	ListActiveByRole(ctx context.Context, roleID uint) ([]*RolePermission, error)
	ListActiveByRoles(ctx context.Context, roleIDs []uint) ([]*RolePermission, error)
	CountActiveByPermission(ctx context.Context, permissionID uint) (int64, error)
	History(ctx context.Context, roleID uint, page, pageSize int) ([]*RolePermissionRecord, int64, error)
}

// UserRoleRepository stores user→role grants. Only one live row may exist
// per (user, role).
type UserRoleRepository interface {
	Grant(ctx context.Context, grants []*UserRole) (int64, error)
	Revoke(ctx context.Context, userID uint, roleIDs []uint, at time.Time) (int64, error)
	RevokeAllForRole(ctx context.Context, roleID uint, at time.Time) (int64, error)
	GetByID(ctx context.Context, id uint) (*UserRole, error)
	GetActive(ctx context.Context, userID, roleID uint) (*UserRole, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*UserRole, error)
	ListUserIDsByRole(ctx context.Context, roleID uint) ([]uint, error)
	// ListUserIDs returns every user holding at least one live grant.
	ListUserIDs(ctx context.Context) ([]uint, error)
	// ClearPrimary resets the primary flag on all of the user's live grants.
	ClearPrimary(ctx context.Context, userID uint) error
	// MarkPrimary flags the live (user, role) grant as primary.
	MarkPrimary(ctx context.Context, userID, roleID uint) (int64, error)
	UpdateValidity(ctx context.Context, grant *UserRole) error
	History(ctx context.Context, userID uint, page, pageSize int) ([]*UserRoleRecord, int64, error)
}

type RoleFilter struct {
	Keyword  string
	Status   RoleStatus
	Page     int
	PageSize int
}

type PermissionFilter struct {
	Type     PermissionType
	ParentID *uint
	Page     int
	PageSize int
}

// RolePermissionRecord is a history row: a grant (live or revoked) joined
// with the permission and the grantor's identity.
type RolePermissionRecord struct {
	Grant          RolePermission
	PermissionName string
	PermissionCode string
	GrantorName    string
}

// UserRoleRecord is a history row for user→role grants.
type UserRoleRecord struct {
	Grant       UserRole
	RoleName    string
	RoleCode    string
	GrantorName string
}
