package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Username  string `gorm:"uniqueIndex;not null;size:64"`
	Name      string `gorm:"not null;size:100"`
	Status    string `gorm:"not null;default:active;size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

// BeforeCreate hook for GORM
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = "active"
	}
	return nil
}
