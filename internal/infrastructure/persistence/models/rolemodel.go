package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

type RoleModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:50"`
	Code        string `gorm:"uniqueIndex;not null;size:100"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"not null;default:active;size:20;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}
