package http

import (
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/domain/permission"
	"github.com/kinderhub/kinderhub/internal/domain/user"
	"github.com/kinderhub/kinderhub/internal/infrastructure/repository"
)

// repositories holds the repository instances used by the RBAC service.
type repositories struct {
	userRepo           user.Repository
	roleRepo           permission.RoleRepository
	permissionRepo     permission.PermissionRepository
	rolePermissionRepo permission.RolePermissionRepository
	userRoleRepo       permission.UserRoleRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		userRepo:           repository.NewUserRepository(db),
		roleRepo:           repository.NewRoleRepository(db),
		permissionRepo:     repository.NewPermissionRepository(db),
		rolePermissionRepo: repository.NewRolePermissionRepository(db),
		userRoleRepo:       repository.NewUserRoleRepository(db),
	}
}
