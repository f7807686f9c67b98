package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

// UserRoleModel is a user→role grant row. ActiveFlag works as on
// RolePermissionModel.
type UserRoleModel struct {
	ID         uint  `gorm:"primarykey"`
	UserID     uint  `gorm:"not null;uniqueIndex:uk_user_role_active,priority:1;index"`
	RoleID     uint  `gorm:"not null;uniqueIndex:uk_user_role_active,priority:2;index"`
	ActiveFlag *bool `gorm:"uniqueIndex:uk_user_role_active,priority:3"`
	IsPrimary  bool  `gorm:"not null;default:false"`
	StartTime  *time.Time
	EndTime    *time.Time
	GrantorID  *uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}
