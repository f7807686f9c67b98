package permission

import (
	"github.com/kinderhub/kinderhub/internal/shared/errors"
)

// Stable reason codes surfaced to API clients.
const (
	ReasonRoleNotFound             = "ROLE_NOT_FOUND"
	ReasonUserNotFound             = "USER_NOT_FOUND"
	ReasonPermissionNotFound       = "PERMISSION_NOT_FOUND"
	ReasonParentPermissionNotFound = "PARENT_PERMISSION_NOT_FOUND"
	ReasonUserRoleNotFound         = "USER_ROLE_NOT_FOUND"
	ReasonPermissionIDsRequired    = "PERMISSION_IDS_REQUIRED"
	ReasonRoleIDsRequired          = "ROLE_IDS_REQUIRED"
	ReasonSomePermissionsNotFound  = "SOME_PERMISSIONS_NOT_FOUND"
	ReasonSomeRolesNotFound        = "SOME_ROLES_NOT_FOUND"
	ReasonPrimaryRoleAmbiguous     = "PRIMARY_ROLE_AMBIGUOUS"
	ReasonInvalidValidityWindow    = "INVALID_VALIDITY_WINDOW"
	ReasonRoleCodeExists           = "ROLE_CODE_EXISTS"
	ReasonPermissionCodeExists     = "PERMISSION_CODE_EXISTS"
	ReasonProtectedRole            = "PROTECTED_ROLE"
	ReasonPermissionCycle          = "PERMISSION_CYCLE"
	ReasonPermissionHasChildren    = "PERMISSION_HAS_CHILDREN"
	ReasonPermissionInUse          = "PERMISSION_IN_USE"
	ReasonInvalidRole              = "INVALID_ROLE"
	ReasonInvalidPermission        = "INVALID_PERMISSION"

	ReasonPermissionAssignError   = "PERMISSION_ASSIGN_ERROR"
	ReasonPermissionRemoveError   = "PERMISSION_REMOVE_ERROR"
	ReasonGetRolePermissionsError = "GET_ROLE_PERMISSIONS_ERROR"
	ReasonRoleAssignError         = "ROLE_ASSIGN_ERROR"
	ReasonRoleRemoveError         = "ROLE_REMOVE_ERROR"
	ReasonGetUserRolesError       = "GET_USER_ROLES_ERROR"
	ReasonPrimaryRoleError        = "SET_PRIMARY_ROLE_ERROR"
	ReasonValidityUpdateError     = "ROLE_VALIDITY_UPDATE_ERROR"
	ReasonHistoryError            = "GET_HISTORY_ERROR"
	ReasonConflictCheckError      = "PERMISSION_CONFLICT_CHECK_ERROR"
	ReasonInheritanceError        = "GET_PERMISSION_INHERITANCE_ERROR"
	ReasonRoleManageError         = "ROLE_MANAGE_ERROR"
	ReasonPermissionManageError   = "PERMISSION_MANAGE_ERROR"
	ReasonEffectivePermsError     = "GET_EFFECTIVE_PERMISSIONS_ERROR"
)

func ErrRoleNotFound() *errors.AppError {
	return errors.NewNotFoundError("role not found").WithReason(ReasonRoleNotFound)
}

func ErrUserNotFound() *errors.AppError {
	return errors.NewNotFoundError("user not found").WithReason(ReasonUserNotFound)
}

func ErrPermissionNotFound() *errors.AppError {
	return errors.NewNotFoundError("permission not found").WithReason(ReasonPermissionNotFound)
}

func ErrUserRoleNotFound() *errors.AppError {
	return errors.NewNotFoundError("user role not found").WithReason(ReasonUserRoleNotFound)
}

func ErrSomePermissionsNotFound() *errors.AppError {
	return errors.NewBadRequestError("some permissions do not exist").WithReason(ReasonSomePermissionsNotFound)
}

func ErrSomeRolesNotFound() *errors.AppError {
	return errors.NewBadRequestError("some roles do not exist").WithReason(ReasonSomeRolesNotFound)
}

func ErrPermissionCycle(details string) *errors.AppError {
	return errors.NewBadRequestError("permission hierarchy contains a cycle", details).WithReason(ReasonPermissionCycle)
}

// ErrInvalidValidityWindow is returned when a grant's end time is not after
// its start time.
var ErrInvalidValidityWindow = errors.NewValidationError("endTime must be after startTime").WithReason(ReasonInvalidValidityWindow)

func ErrParentPermissionNotFound() *errors.AppError {
	return errors.NewBadRequestError("parent permission not found").WithReason(ReasonParentPermissionNotFound)
}

func ErrPermissionIDsRequired() *errors.AppError {
	return errors.NewBadRequestError("permissionIds must be a non-empty array").WithReason(ReasonPermissionIDsRequired)
}

func ErrRoleIDsRequired() *errors.AppError {
	return errors.NewBadRequestError("roleIds must be a non-empty array").WithReason(ReasonRoleIDsRequired)
}

func ErrPrimaryRoleAmbiguous() *errors.AppError {
	return errors.NewBadRequestError("isPrimary can only be set when assigning a single role").WithReason(ReasonPrimaryRoleAmbiguous)
}

func ErrRoleCodeExists(code string) *errors.AppError {
	return errors.NewConflictError("role code already exists", code).WithReason(ReasonRoleCodeExists)
}

func ErrPermissionCodeExists(code string) *errors.AppError {
	return errors.NewConflictError("permission code already exists", code).WithReason(ReasonPermissionCodeExists)
}

func ErrProtectedRole(code string) *errors.AppError {
	return errors.NewBadRequestError("role is protected and cannot be deleted", code).WithReason(ReasonProtectedRole)
}

func ErrPermissionHasChildren() *errors.AppError {
	return errors.NewConflictError("permission still has child permissions").WithReason(ReasonPermissionHasChildren)
}

func ErrPermissionInUse() *errors.AppError {
	return errors.NewConflictError("permission is still granted to roles").WithReason(ReasonPermissionInUse)
}

func ErrInvalidRole(err error) *errors.AppError {
	return errors.NewValidationError(err.Error()).WithReason(ReasonInvalidRole)
}

func ErrInvalidPermission(err error) *errors.AppError {
	return errors.NewValidationError(err.Error()).WithReason(ReasonInvalidPermission)
}
