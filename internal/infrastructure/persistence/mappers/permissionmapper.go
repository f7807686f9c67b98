package mappers

import (
	"fmt"
	"slices"

	"gorm.io/datatypes"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
)

// PermissionMapper handles the conversion between Permission entities and persistence models
type PermissionMapper interface {
	ToEntity(model *models.PermissionModel) (*permission.Permission, error)
	ToModel(entity *permission.Permission) *models.PermissionModel
	ToEntities(models []*models.PermissionModel) ([]*permission.Permission, error)
}

type PermissionMapperImpl struct{}

func NewPermissionMapper() PermissionMapper {
	return &PermissionMapperImpl{}
}

func (m *PermissionMapperImpl) ToEntity(model *models.PermissionModel) (*permission.Permission, error) {
	if model == nil {
		return nil, nil
	}

	p, err := permission.ReconstructPermission(model.ID, permission.PermissionAttrs{
		Name:          model.Name,
		Code:          model.Code,
		Type:          permission.PermissionType(model.Type),
		ParentID:      model.ParentID,
		Path:          model.Path,
		Component:     model.Component,
		Icon:          model.Icon,
		SortOrder:     model.SortOrder,
		ConflictCodes: []string(model.ConflictCodes),
	}, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct permission entity: %w", err)
	}
	return p, nil
}

func (m *PermissionMapperImpl) ToModel(entity *permission.Permission) *models.PermissionModel {
	if entity == nil {
		return nil
	}

	codes := entity.ConflictCodes()
	if codes == nil {
		codes = []string{}
	}
	return &models.PermissionModel{
		ID:            entity.ID(),
		Name:          entity.Name(),
		Code:          entity.Code(),
		Type:          string(entity.Type()),
		ParentID:      entity.ParentID(),
		Path:          entity.Path(),
		Component:     entity.Component(),
		Icon:          entity.Icon(),
		SortOrder:     entity.SortOrder(),
		ConflictCodes: datatypes.JSONSlice[string](slices.Clone(codes)),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *PermissionMapperImpl) ToEntities(modelList []*models.PermissionModel) ([]*permission.Permission, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.PermissionModel) uint { return model.ID })
}
