package usecases

import (
	"context"
	"time"
)

// TransactionRunner owns the transaction boundary of a use case. Repositories
// join the transaction through the context passed to fn.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PermissionCache stores each user's effective permission codes. Set never
// keeps an entry past expiresAt; a zero expiresAt leaves the cache's own TTL.
type PermissionCache interface {
	Get(ctx context.Context, userID uint) ([]string, bool, error)
	Set(ctx context.Context, userID uint, codes []string, expiresAt time.Time) error
	Invalidate(ctx context.Context, userIDs ...uint) error
}

// PolicyStore is the policy engine answering access checks.
type PolicyStore interface {
	Enforce(userID uint, permissionCode string) (bool, error)
	ReplaceRolePolicies(roleCode string, permissionCodes []string) error
	ReplaceUserRoles(userID uint, roleCodes []string) error
	RolesForUser(userID uint) ([]string, error)
	DeleteRole(roleCode string) error
}

// AccessRefresher is told about grant changes after they commit. It never
// fails the caller.
type AccessRefresher interface {
	RolesChanged(ctx context.Context, roleIDs ...uint)
	UsersChanged(ctx context.Context, userIDs ...uint)
	RoleDeleted(ctx context.Context, roleCode string, userIDs []uint)
	PermissionsChanged(ctx context.Context)
}

// TextSanitizer strips markup from free-text fields.
type TextSanitizer interface {
	Sanitize(s string) string
}

// Settings carries the rbac configuration the use cases need.
type Settings struct {
	ProtectedRoleCodes []string
	MaxPermissionDepth int
}
