package dto

import (
	"time"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
)

type RoleDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PermissionDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Type          string    `json:"type"`
	ParentID      *uint     `json:"parentId"`
	Path          string    `json:"path"`
	Component     string    `json:"component"`
	Icon          string    `json:"icon"`
	SortOrder     int       `json:"sortOrder"`
	ConflictCodes []string  `json:"conflictCodes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PermissionTreeNode struct {
	*PermissionDTO
	Children []*PermissionTreeNode `json:"children"`
}

// RolePermissionItem is a permission as held by a role.
type RolePermissionItem struct {
	*PermissionDTO
	IsInherit int       `json:"isInherit"`
	GrantTime time.Time `json:"grantTime"`
	GrantorID *uint     `json:"grantorId"`
}

type AssignPermissionsResult struct {
	RoleID          uint  `json:"roleId"`
	PermissionCount int   `json:"permissionCount"`
	NewlyAssigned   int64 `json:"newlyAssigned"`
}

type RemovePermissionsResult struct {
	RoleID       uint  `json:"roleId"`
	RemovedCount int64 `json:"removedCount"`
}

type RolePermissionsResult struct {
	RoleID      uint                  `json:"roleId"`
	Permissions []*RolePermissionItem `json:"permissions"`
}

type InheritanceResult struct {
	Permission       *PermissionDTO   `json:"permission"`
	ChildPermissions []*PermissionDTO `json:"childPermissions"`
}

type ConflictDTO struct {
	Type                 string `json:"type"`
	CheckingPermissionID uint   `json:"checkingPermissionId"`
	CheckingPermission   string `json:"checkingPermission"`
	ConflictPermissionID uint   `json:"conflictPermissionId"`
	ConflictPermission   string `json:"conflictPermission"`
	Reason               string `json:"reason"`
}

type ConflictCheckResult struct {
	RoleID    uint           `json:"roleId"`
	Conflicts []*ConflictDTO `json:"conflicts"`
}

type RolePermissionHistoryItem struct {
	ID             uint       `json:"id"`
	RoleID         uint       `json:"roleId"`
	PermissionID   uint       `json:"permissionId"`
	PermissionName string     `json:"permissionName"`
	PermissionCode string     `json:"permissionCode"`
	IsInherit      int        `json:"isInherit"`
	GrantTime      time.Time  `json:"grantTime"`
	GrantorID      *uint      `json:"grantorId"`
	GrantorName    string     `json:"grantorName"`
	State          string     `json:"state"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeletedAt      *time.Time `json:"deletedAt"`
}

type RolePermissionHistoryPage struct {
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"pageSize"`
	List     []*RolePermissionHistoryItem `json:"list"`
}

type AssignRolesResult struct {
	UserID        uint  `json:"userId"`
	RoleCount     int   `json:"roleCount"`
	NewlyAssigned int64 `json:"newlyAssigned"`
}

type RemoveRolesResult struct {
	UserID       uint  `json:"userId"`
	RemovedCount int64 `json:"removedCount"`
}

// UserRoleDTO is a live user→role grant. Effective reports whether the
// validity window contains the time of the request.
type UserRoleDTO struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"userId"`
	RoleID    uint       `json:"roleId"`
	RoleName  string     `json:"roleName,omitempty"`
	RoleCode  string     `json:"roleCode,omitempty"`
	IsPrimary int        `json:"isPrimary"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	GrantorID *uint      `json:"grantorId"`
	Effective bool       `json:"effective"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type UserRolesResult struct {
	UserID uint           `json:"userId"`
	Roles  []*UserRoleDTO `json:"roles"`
}

type PrimaryRoleResult struct {
	UserID    uint `json:"userId"`
	RoleID    uint `json:"roleId"`
	IsPrimary int  `json:"isPrimary"`
}

type UserRoleHistoryItem struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"userId"`
	RoleID      uint       `json:"roleId"`
	RoleName    string     `json:"roleName"`
	RoleCode    string     `json:"roleCode"`
	IsPrimary   int        `json:"isPrimary"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	GrantorID   *uint      `json:"grantorId"`
	GrantorName string     `json:"grantorName"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

type UserRoleHistoryPage struct {
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
	History  []*UserRoleHistoryItem `json:"history"`
}

type EffectivePermissionsResult struct {
	UserID      uint     `json:"userId"`
	Permissions []string `json:"permissions"`
}

type AccessCheckResult struct {
	UserID  uint   `json:"userId"`
	Code    string `json:"code"`
	Allowed bool   `json:"allowed"`
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ToRoleDTO(r *permission.Role) *RoleDTO {
	if r == nil {
		return nil
	}
	return &RoleDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		Code:        r.Code(),
		Description: r.Description(),
		Status:      string(r.Status()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func ToRoleDTOs(roles []*permission.Role) []*RoleDTO {
	out := mapper.MapSlice(roles, ToRoleDTO)
	if out == nil {
		return []*RoleDTO{}
	}
	return out
}

func ToPermissionDTO(p *permission.Permission) *PermissionDTO {
	if p == nil {
		return nil
	}
	codes := p.ConflictCodes()
	if codes == nil {
		codes = []string{}
	}
	return &PermissionDTO{
		ID:            p.ID(),
		Name:          p.Name(),
		Code:          p.Code(),
		Type:          string(p.Type()),
		ParentID:      p.ParentID(),
		Path:          p.Path(),
		Component:     p.Component(),
		Icon:          p.Icon(),
		SortOrder:     p.SortOrder(),
		ConflictCodes: codes,
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func ToPermissionDTOs(perms []*permission.Permission) []*PermissionDTO {
	out := mapper.MapSlice(perms, ToPermissionDTO)
	if out == nil {
		return []*PermissionDTO{}
	}
	return out
}

func ToPermissionTree(nodes []*permission.TreeNode) []*PermissionTreeNode {
	out := make([]*PermissionTreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &PermissionTreeNode{
			PermissionDTO: ToPermissionDTO(n.Permission),
			Children:      ToPermissionTree(n.Children),
		})
	}
	return out
}

func ToRolePermissionItem(p *permission.Permission, g *permission.RolePermission) *RolePermissionItem {
	return &RolePermissionItem{
		PermissionDTO: ToPermissionDTO(p),
		IsInherit:     flag(g.Inherit),
		GrantTime:     g.GrantTime,
		GrantorID:     g.GrantorID,
	}
}

func ToConflictDTO(c permission.Conflict) *ConflictDTO {
	return &ConflictDTO{
		Type:                 string(c.Kind),
		CheckingPermissionID: c.CheckingPermissionID,
		CheckingPermission:   c.CheckingPermission,
		ConflictPermissionID: c.ConflictPermissionID,
		ConflictPermission:   c.ConflictPermission,
		Reason:               c.Reason,
	}
}

func ToRolePermissionHistoryItem(r *permission.RolePermissionRecord) *RolePermissionHistoryItem {
	return &RolePermissionHistoryItem{
		ID:             r.Grant.ID,
		RoleID:         r.Grant.RoleID,
		PermissionID:   r.Grant.PermissionID,
		PermissionName: r.PermissionName,
		PermissionCode: r.PermissionCode,
		IsInherit:      flag(r.Grant.Inherit),
		GrantTime:      r.Grant.GrantTime,
		GrantorID:      r.Grant.GrantorID,
		GrantorName:    r.GrantorName,
		State:          string(r.Grant.State()),
		CreatedAt:      r.Grant.CreatedAt,
		DeletedAt:      r.Grant.DeletedAt,
	}
}

// ToUserRoleDTO maps a grant; role may be nil when only the grant is known.
func ToUserRoleDTO(g *permission.UserRole, role *permission.Role, now time.Time) *UserRoleDTO {
	d := &UserRoleDTO{
		ID:        g.ID,
		UserID:    g.UserID,
		RoleID:    g.RoleID,
		IsPrimary: flag(g.IsPrimary),
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
		GrantorID: g.GrantorID,
		Effective: g.EffectiveAt(now),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if role != nil {
		d.RoleName = role.Name()
		d.RoleCode = role.Code()
	}
	return d
}

func ToUserRoleHistoryItem(r *permission.UserRoleRecord) *UserRoleHistoryItem {
	return &UserRoleHistoryItem{
		ID:          r.Grant.ID,
		UserID:      r.Grant.UserID,
		RoleID:      r.Grant.RoleID,
		RoleName:    r.RoleName,
		RoleCode:    r.RoleCode,
		IsPrimary:   flag(r.Grant.IsPrimary),
		StartTime:   r.Grant.StartTime,
		EndTime:     r.Grant.EndTime,
		GrantorID:   r.Grant.GrantorID,
		GrantorName: r.GrantorName,
		State:       string(r.Grant.State()),
		CreatedAt:   r.Grant.CreatedAt,
		DeletedAt:   r.Grant.DeletedAt,
	}
}
