package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/mappers"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/constants"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type RolePermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewRolePermissionRepository(gdb *gorm.DB) permission.RolePermissionRepository {
	return &RolePermissionRepositoryImpl{db: gdb}
}

// Grant inserts with ON CONFLICT DO NOTHING against the live-row unique
// index, so concurrent grants of the same pair cannot both succeed.
func (r *RolePermissionRepositoryImpl) Grant(ctx context.Context, grants []*permission.RolePermission) (int64, error) {
	if len(grants) == 0 {
		return 0, nil
	}

	rows := make([]*models.RolePermissionModel, 0, len(grants))
	for _, g := range grants {
		rows = append(rows, mappers.RolePermissionToModel(g))
	}

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert role permissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *RolePermissionRepositoryImpl) Revoke(ctx context.Context, roleID uint, permissionIDs []uint, at time.Time) (int64, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.RolePermissionModel{}).
		Where("role_id = ? AND permission_id IN ?", roleID, permissionIDs).
		Updates(revokeColumns(at))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke role permissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *RolePermissionRepositoryImpl) RevokeAllForRole(ctx context.Context, roleID uint, at time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.RolePermissionModel{}).
		Where("role_id = ?", roleID).
		Updates(revokeColumns(at))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke role permissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *RolePermissionRepositoryImpl) ListActiveByRole(ctx context.Context, roleID uint) ([]*permission.RolePermission, error) {
	return r.ListActiveByRoles(ctx, []uint{roleID})
}

func (r *RolePermissionRepositoryImpl) ListActiveByRoles(ctx context.Context, roleIDs []uint) ([]*permission.RolePermission, error) {
	if len(roleIDs) == 0 {
		return []*permission.RolePermission{}, nil
	}

	var rows []*models.RolePermissionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("role_id IN ?", roleIDs).
		Order("permission_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	return mappers.RolePermissionsToEntities(rows), nil
}

func (r *RolePermissionRepositoryImpl) CountActiveByPermission(ctx context.Context, permissionID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.RolePermissionModel{}).
		Where("permission_id = ?", permissionID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count role permissions: %w", err)
	}
	return count, nil
}

type rolePermissionHistoryRow struct {
	ID             uint
	RoleID         uint
	PermissionID   uint
	IsInherit      bool
	GrantTime      time.Time
	GrantorID      *uint
	CreatedAt      time.Time
	DeletedAt      *time.Time
	PermissionName string
	PermissionCode string
	GrantorName    string
}

// History returns live and revoked grants of the role, newest first.
func (r *RolePermissionRepositoryImpl) History(ctx context.Context, roleID uint, page, pageSize int) ([]*permission.RolePermissionRecord, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.RolePermissionModel{}).
		Scopes(db.WithHistory()).
		Where("role_id = ?", roleID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count role permission history: %w", err)
	}

	p := utils.ValidatePagination(page, pageSize)
	var rows []rolePermissionHistoryRow
	if err := tx.Table(constants.TableRolePermissions+" rp").
		Scopes(db.WithHistory(), db.Paginate(p.Page, p.PageSize)).
		Select("rp.id, rp.role_id, rp.permission_id, rp.is_inherit, rp.grant_time, rp.grantor_id, rp.created_at, rp.deleted_at, "+
			"COALESCE(p.name, '') AS permission_name, COALESCE(p.code, '') AS permission_code, COALESCE(u.name, '') AS grantor_name").
		Joins("LEFT JOIN "+constants.TablePermissions+" p ON p.id = rp.permission_id").
		Joins("LEFT JOIN "+constants.TableUsers+" u ON u.id = rp.grantor_id").
		Where("rp.role_id = ?", roleID).
		Order("rp.created_at DESC, rp.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query role permission history: %w", err)
	}

	records := make([]*permission.RolePermissionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &permission.RolePermissionRecord{
			Grant: permission.RolePermission{
				ID:           row.ID,
				RoleID:       row.RoleID,
				PermissionID: row.PermissionID,
				Inherit:      row.IsInherit,
				GrantTime:    row.GrantTime,
				GrantorID:    row.GrantorID,
				CreatedAt:    row.CreatedAt,
				DeletedAt:    row.DeletedAt,
			},
			PermissionName: row.PermissionName,
			PermissionCode: row.PermissionCode,
			GrantorName:    row.GrantorName,
		})
	}
	return records, total, nil
}

// revokeColumns soft-deletes a grant and releases its slot in the live-row
// unique index.
func revokeColumns(at time.Time) map[string]any {
	return map[string]any{
		"deleted_at":  at,
		"active_flag": nil,
	}
}
