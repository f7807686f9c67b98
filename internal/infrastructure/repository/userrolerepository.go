package repository

import (
	"context"
	"errors"
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

type UserRoleRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRoleRepository(gdb *gorm.DB) permission.UserRoleRepository {
	return &UserRoleRepositoryImpl{db: gdb}
}

func (r *UserRoleRepositoryImpl) Grant(ctx context.Context, grants []*permission.UserRole) (int64, error) {
	if len(grants) == 0 {
		return 0, nil
	}

	rows := make([]*models.UserRoleModel, 0, len(grants))
	for _, g := range grants {
		rows = append(rows, mappers.UserRoleToModel(g))
	}

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert user roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRoleRepositoryImpl) Revoke(ctx context.Context, userID uint, roleIDs []uint, at time.Time) (int64, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("user_id = ? AND role_id IN ?", userID, roleIDs).
		Updates(revokeUserRoleColumns(at))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRoleRepositoryImpl) RevokeAllForRole(ctx context.Context, roleID uint, at time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("role_id = ?", roleID).
		Updates(revokeUserRoleColumns(at))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.UserRole, error) {
	var model models.UserRoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}
	return mappers.UserRoleToEntity(&model), nil
}

func (r *UserRoleRepositoryImpl) GetActive(ctx context.Context, userID, roleID uint) (*permission.UserRole, error) {
	var model models.UserRoleModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}
	return mappers.UserRoleToEntity(&model), nil
}

func (r *UserRoleRepositoryImpl) ListActiveByUser(ctx context.Context, userID uint) ([]*permission.UserRole, error) {
	var rows []*models.UserRoleModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("is_primary DESC, role_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return mappers.UserRolesToEntities(rows), nil
}

func (r *UserRoleRepositoryImpl) ListUserIDsByRole(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("role_id = ?", roleID).
		Distinct().
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users of role: %w", err)
	}
	return ids, nil
}

func (r *UserRoleRepositoryImpl) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Distinct().
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users with roles: %w", err)
	}
	return ids, nil
}

func (r *UserRoleRepositoryImpl) ClearPrimary(ctx context.Context, userID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("failed to clear primary role: %w", err)
	}
	return nil
}

func (r *UserRoleRepositoryImpl) MarkPrimary(ctx context.Context, userID, roleID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Update("is_primary", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to set primary role: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRoleRepositoryImpl) UpdateValidity(ctx context.Context, grant *permission.UserRole) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).
		Where("id = ?", grant.ID).
		Updates(map[string]any{
			"start_time": grant.StartTime,
			"end_time":   grant.EndTime,
			"updated_at": grant.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update role validity: %w", result.Error)
	}
	return nil
}

type userRoleHistoryRow struct {
	ID          uint
	UserID      uint
	RoleID      uint
	IsPrimary   bool
	StartTime   *time.Time
	EndTime     *time.Time
	GrantorID   *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	RoleName    string
	RoleCode    string
	GrantorName string
}

// History returns live and revoked role grants of the user, newest first.
func (r *UserRoleRepositoryImpl) History(ctx context.Context, userID uint, page, pageSize int) ([]*permission.UserRoleRecord, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.UserRoleModel{}).
		Scopes(db.WithHistory()).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user role history: %w", err)
	}

	p := utils.ValidatePagination(page, pageSize)
	var rows []userRoleHistoryRow
	if err := tx.Table(constants.TableUserRoles+" ur").
		Scopes(db.WithHistory(), db.Paginate(p.Page, p.PageSize)).
		Select("ur.id, ur.user_id, ur.role_id, ur.is_primary, ur.start_time, ur.end_time, ur.grantor_id, ur.created_at, ur.updated_at, ur.deleted_at, "+
			"COALESCE(r.name, '') AS role_name, COALESCE(r.code, '') AS role_code, COALESCE(u.name, '') AS grantor_name").
		Joins("LEFT JOIN "+constants.TableRoles+" r ON r.id = ur.role_id").
		Joins("LEFT JOIN "+constants.TableUsers+" u ON u.id = ur.grantor_id").
		Where("ur.user_id = ?", userID).
		Order("ur.created_at DESC, ur.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query user role history: %w", err)
	}

	records := make([]*permission.UserRoleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &permission.UserRoleRecord{
			Grant: permission.UserRole{
				ID:        row.ID,
				UserID:    row.UserID,
				RoleID:    row.RoleID,
				IsPrimary: row.IsPrimary,
				StartTime: row.StartTime,
				EndTime:   row.EndTime,
				GrantorID: row.GrantorID,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
				DeletedAt: row.DeletedAt,
			},
			RoleName:    row.RoleName,
			RoleCode:    row.RoleCode,
			GrantorName: row.GrantorName,
		})
	}
	return records, total, nil
}

// revokeUserRoleColumns also drops the primary flag, so a revoked row can
// never count toward the one-primary-per-user rule.
func revokeUserRoleColumns(at time.Time) map[string]any {
	cols := revokeColumns(at)
	cols["is_primary"] = false
	cols["updated_at"] = at
	return cols
}
