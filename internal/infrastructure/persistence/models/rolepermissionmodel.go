package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

// RolePermissionModel is a role→permission grant row. ActiveFlag is true
// while the grant is live and NULL once revoked; the unique index over
// (role_id, permission_id, active_flag) therefore admits one live row per pair
// and any number of revoked ones.
type RolePermissionModel struct {
	ID           uint      `gorm:"primarykey"`
	RoleID       uint      `gorm:"not null;uniqueIndex:uk_role_permission_active,priority:1;index"`
	PermissionID uint      `gorm:"not null;uniqueIndex:uk_role_permission_active,priority:2;index"`
	ActiveFlag   *bool     `gorm:"uniqueIndex:uk_role_permission_active,priority:3"`
	IsInherit    bool      `gorm:"not null;default:true"`
	GrantTime    time.Time `gorm:"not null"`
	GrantorID    *uint
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (RolePermissionModel) TableName() string {
	return constants.TableRolePermissions
}
