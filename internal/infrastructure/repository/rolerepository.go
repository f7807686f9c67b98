package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/mappers"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type RoleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RoleMapper
}

func NewRoleRepository(gdb *gorm.DB) permission.RoleRepository {
	return &RoleRepositoryImpl{db: gdb, mapper: mappers.NewRoleMapper()}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *permission.Role) error {
	model := r.mapper.ToModel(role)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("role code already exists").WithReason(permission.ReasonRoleCodeExists)
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByCode(ctx context.Context, code string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by code: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Role, error) {
	if len(ids) == 0 {
		return []*permission.Role{}, nil
	}

	var roleModels []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by IDs: %w", err)
	}
	return r.mapper.ToEntities(roleModels)
}

func (r *RoleRepositoryImpl) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	p := utils.ValidatePagination(filter.Page, filter.PageSize)
	var roleModels []*models.RoleModel
	if err := query.Scopes(db.Paginate(p.Page, p.PageSize)).Order("id ASC").Find(&roleModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	roles, err := r.mapper.ToEntities(roleModels)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepositoryImpl) ListAll(ctx context.Context) ([]*permission.Role, error) {
	var roleModels []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return r.mapper.ToEntities(roleModels)
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, role *permission.Role) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]any{
			"name":        role.Name(),
			"description": role.Description(),
			"status":      string(role.Status()),
			"updated_at":  role.UpdatedAt(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) SoftDelete(ctx context.Context, role *permission.Role) error {
	deletedAt := role.DeletedAt()
	if deletedAt == nil {
		now := time.Now()
		deletedAt = &now
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]any{
			"status":     string(role.Status()),
			"deleted_at": *deletedAt,
			"updated_at": role.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrRoleNotFound()
	}
	return nil
}

// ExistsByCode also sees deleted roles, whose codes stay reserved.
func (r *RoleRepositoryImpl) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{}).
		Scopes(db.WithHistory()).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role code: %w", err)
	}
	return count > 0, nil
}
