package mappers

import (
	"fmt"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/models"
	"github.com/kinderhub/kinderhub/internal/shared/mapper"
)

// RoleMapper handles the conversion between Role entities and persistence models
type RoleMapper interface {
	ToEntity(model *models.RoleModel) (*permission.Role, error)
	ToModel(entity *permission.Role) *models.RoleModel
	ToEntities(models []*models.RoleModel) ([]*permission.Role, error)
}

type RoleMapperImpl struct{}

func NewRoleMapper() RoleMapper {
	return &RoleMapperImpl{}
}

func (m *RoleMapperImpl) ToEntity(model *models.RoleModel) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}

	role, err := permission.ReconstructRole(
		model.ID,
		model.Name,
		model.Code,
		model.Description,
		permission.RoleStatus(model.Status),
		model.CreatedAt,
		model.UpdatedAt,
		deletedAtPtr(model.DeletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct role entity: %w", err)
	}
	return role, nil
}

func (m *RoleMapperImpl) ToModel(entity *permission.Role) *models.RoleModel {
	if entity == nil {
		return nil
	}

	model := &models.RoleModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Code:        entity.Code(),
		Description: entity.Description(),
		Status:      string(entity.Status()),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
	model.DeletedAt = toDeletedAt(entity.DeletedAt())
	return model
}

func (m *RoleMapperImpl) ToEntities(modelList []*models.RoleModel) ([]*permission.Role, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.RoleModel) uint { return model.ID })
}
