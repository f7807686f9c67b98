package dto

import (
	"time"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// AssignPermissionsRequest is the body of POST /roles/:roleId/permissions.
// IsInherit defaults to 1 when omitted.
type AssignPermissionsRequest struct {
	PermissionIDs []uint `json:"permissionIds" validate:"required,min=1,dive,gt=0"`
	IsInherit     *int   `json:"isInherit" validate:"omitempty,oneof=0 1"`
	GrantorID     *uint  `json:"grantorId" validate:"omitempty,gt=0"`
}

func (r *AssignPermissionsRequest) Validate() error {
	if len(r.PermissionIDs) == 0 {
		return permission.ErrPermissionIDsRequired()
	}
	return utils.ValidateStruct(r)
}

// Inherit resolves the optional flag.
func (r *AssignPermissionsRequest) Inherit() bool {
	return r.IsInherit == nil || *r.IsInherit == 1
}

type RemovePermissionsRequest struct {
	PermissionIDs []uint `json:"permissionIds" validate:"required,min=1,dive,gt=0"`
}

func (r *RemovePermissionsRequest) Validate() error {
	if len(r.PermissionIDs) == 0 {
		return permission.ErrPermissionIDsRequired()
	}
	return utils.ValidateStruct(r)
}

type CheckConflictsRequest struct {
	RoleID        uint   `json:"roleId" validate:"required,gt=0"`
	PermissionIDs []uint `json:"permissionIds" validate:"required,min=1,dive,gt=0"`
}

func (r *CheckConflictsRequest) Validate() error {
	if len(r.PermissionIDs) == 0 {
		return permission.ErrPermissionIDsRequired()
	}
	return utils.ValidateStruct(r)
}

type AssignRolesRequest struct {
	RoleIDs   []uint     `json:"roleIds" validate:"required,min=1,dive,gt=0"`
	IsPrimary int        `json:"isPrimary" validate:"oneof=0 1"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime" validate:"omitempty,after=StartTime"`
	GrantorID *uint      `json:"grantorId" validate:"omitempty,gt=0"`
}

func (r *AssignRolesRequest) Validate() error {
	if len(r.RoleIDs) == 0 {
		return permission.ErrRoleIDsRequired()
	}
	if !windowValid(r.StartTime, r.EndTime) {
		return permission.ErrInvalidValidityWindow
	}
	return utils.ValidateStruct(r)
}

type RemoveRolesRequest struct {
	RoleIDs []uint `json:"roleIds" validate:"required,min=1,dive,gt=0"`
}

func (r *RemoveRolesRequest) Validate() error {
	if len(r.RoleIDs) == 0 {
		return permission.ErrRoleIDsRequired()
	}
	return utils.ValidateStruct(r)
}

// UpdateValidityRequest replaces both bounds; a missing bound clears it.
type UpdateValidityRequest struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime" validate:"omitempty,after=StartTime"`
}

func (r *UpdateValidityRequest) Validate() error {
	if !windowValid(r.StartTime, r.EndTime) {
		return permission.ErrInvalidValidityWindow
	}
	return utils.ValidateStruct(r)
}

type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Code        string `json:"code" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (r *CreateRoleRequest) Validate() error {
	return utils.ValidateStruct(r)
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *UpdateRoleRequest) Validate() error {
	return utils.ValidateStruct(r)
}

type CreatePermissionRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Code          string   `json:"code" validate:"required,max=100"`
	Type          string   `json:"type" validate:"required,oneof=menu button api"`
	ParentID      *uint    `json:"parentId" validate:"omitempty,gt=0"`
	Path          string   `json:"path" validate:"max=255"`
	Component     string   `json:"component" validate:"max=255"`
	Icon          string   `json:"icon" validate:"max=100"`
	SortOrder     int      `json:"sortOrder"`
	ConflictCodes []string `json:"conflictCodes" validate:"omitempty,dive,required,max=100"`
}

func (r *CreatePermissionRequest) Validate() error {
	return utils.ValidateStruct(r)
}

// UpdatePermissionRequest replaces every mutable attribute. The code cannot
// change.
type UpdatePermissionRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Type          string   `json:"type" validate:"required,oneof=menu button api"`
	ParentID      *uint    `json:"parentId" validate:"omitempty,gt=0"`
	Path          string   `json:"path" validate:"max=255"`
	Component     string   `json:"component" validate:"max=255"`
	Icon          string   `json:"icon" validate:"max=100"`
	SortOrder     int      `json:"sortOrder"`
	ConflictCodes []string `json:"conflictCodes" validate:"omitempty,dive,required,max=100"`
}

func (r *UpdatePermissionRequest) Validate() error {
	return utils.ValidateStruct(r)
}

func windowValid(start, end *time.Time) bool {
	return start == nil || end == nil || end.After(*start)
}
