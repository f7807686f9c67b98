package mappers

import (
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
)

// RolePermissionToModel maps a new grant to a live row.
func RolePermissionToModel(g *permission.RolePermission) *models.RolePermissionModel {
	return &models.RolePermissionModel{
		ID:           g.ID,
		RoleID:       g.RoleID,
		PermissionID: g.PermissionID,
		ActiveFlag:   activeFlag(g.DeletedAt),
		IsInherit:    g.Inherit,
		GrantTime:    g.GrantTime,
		GrantorID:    g.GrantorID,
		CreatedAt:    g.CreatedAt,
		DeletedAt:    toDeletedAt(g.DeletedAt),
	}
}

func RolePermissionToEntity(m *models.RolePermissionModel) *permission.RolePermission {
	return &permission.RolePermission{
		ID:           m.ID,
		RoleID:       m.RoleID,
		PermissionID: m.PermissionID,
		Inherit:      m.IsInherit,
		GrantTime:    m.GrantTime,
		GrantorID:    m.GrantorID,
		CreatedAt:    m.CreatedAt,
		DeletedAt:    deletedAtPtr(m.DeletedAt),
	}
}

func RolePermissionsToEntities(list []*models.RolePermissionModel) []*permission.RolePermission {
	return mapper.MapSlice(list, RolePermissionToEntity)
}

func UserRoleToModel(g *permission.UserRole) *models.UserRoleModel {
	return &models.UserRoleModel{
		ID:         g.ID,
		UserID:     g.UserID,
		RoleID:     g.RoleID,
		ActiveFlag: activeFlag(g.DeletedAt),
		IsPrimary:  g.IsPrimary,
		StartTime:  g.StartTime,
		EndTime:    g.EndTime,
		GrantorID:  g.GrantorID,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
		DeletedAt:  toDeletedAt(g.DeletedAt),
	}
}

func UserRoleToEntity(m *models.UserRoleModel) *permission.UserRole {
	return &permission.UserRole{
		ID:        m.ID,
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		IsPrimary: m.IsPrimary,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		GrantorID: m.GrantorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAtPtr(m.DeletedAt),
	}
}

func UserRolesToEntities(list []*models.UserRoleModel) []*permission.UserRole {
	return mapper.MapSlice(list, UserRoleToEntity)
}

// activeFlag is true for a live row and NULL for a revoked one.
func activeFlag(deletedAt *time.Time) *bool {
	if deletedAt != nil {
		return nil
	}
	return models.BoolPtr(true)
}

func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func toDeletedAt(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}
