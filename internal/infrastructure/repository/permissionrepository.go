package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/mappers"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type PermissionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PermissionMapper
}

func NewPermissionRepository(gdb *gorm.DB) permission.PermissionRepository {
	return &PermissionRepositoryImpl{db: gdb, mapper: mappers.NewPermissionMapper()}
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, p *permission.Permission) error {
	model := r.mapper.ToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("permission code already exists").WithReason(permission.ReasonPermissionCodeExists)
		}
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *PermissionRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PermissionRepositoryImpl) GetByCode(ctx context.Context, code string) (*permission.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PermissionRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return []*permission.Permission{}, nil
	}

	var permModels []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&permModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get permissions by IDs: %w", err)
	}
	return r.mapper.ToEntities(permModels)
}

func (r *PermissionRepositoryImpl) ListAll(ctx context.Context) ([]*permission.Permission, error) {
	var permModels []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Order("sort_order ASC, id ASC").Find(&permModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return r.mapper.ToEntities(permModels)
}

func (r *PermissionRepositoryImpl) List(ctx context.Context, filter permission.PermissionFilter) ([]*permission.Permission, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PermissionModel{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count permissions: %w", err)
	}

	p := utils.ValidatePagination(filter.Page, filter.PageSize)
	var permModels []*models.PermissionModel
	if err := query.Scopes(db.Paginate(p.Page, p.PageSize)).Order("sort_order ASC, id ASC").Find(&permModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list permissions: %w", err)
	}

	perms, err := r.mapper.ToEntities(permModels)
	if err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

func (r *PermissionRepositoryImpl) Update(ctx context.Context, p *permission.Permission) error {
	model := r.mapper.ToModel(p)

	err := db.GetTxFromContext(ctx, r.db).Model(&models.PermissionModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]any{
			"name":           model.Name,
			"type":           model.Type,
			"parent_id":      model.ParentID,
			"path":           model.Path,
			"component":      model.Component,
			"icon":           model.Icon,
			"sort_order":     model.SortOrder,
			"conflict_codes": model.ConflictCodes,
			"updated_at":     model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}
	return nil
}

func (r *PermissionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.PermissionModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrPermissionNotFound()
	}
	return nil
}

func (r *PermissionRepositoryImpl) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.PermissionModel{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count child permissions: %w", err)
	}
	return count, nil
}
