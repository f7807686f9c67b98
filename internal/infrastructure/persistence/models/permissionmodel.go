package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

type PermissionModel struct {
	ID            uint                        `gorm:"primarykey"`
	Name          string                      `gorm:"not null;size:100"`
	Code          string                      `gorm:"uniqueIndex;not null;size:100"`
	Type          string                      `gorm:"not null;default:menu;size:20"`
	ParentID      *uint                       `gorm:"index"`
	Path          string                      `gorm:"size:255"`
	Component     string                      `gorm:"size:255"`
	Icon          string                      `gorm:"size:100"`
	SortOrder     int                         `gorm:"not null;default:0"`
	ConflictCodes datatypes.JSONSlice[string] `gorm:"type:json"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}
