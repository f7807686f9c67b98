package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/interfaces/http/handlers"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/middleware"
)

// RBACRouteConfig holds dependencies for the role and permission admin API.
type RBACRouteConfig struct {
	RoleHandler          *handlers.RoleHandler
	PermissionHandler    *handlers.PermissionHandler
	UserRoleHandler      *handlers.UserRoleHandler
	AuthMiddleware       *middleware.AuthMiddleware       // nil when auth is disabled
	PermissionMiddleware *middleware.PermissionMiddleware // nil when auth is disabled
	ManagePermission     string
}

// SetupRBACRoutes configures /api/v1/rbac.
func SetupRBACRoutes(engine *gin.Engine, cfg *RBACRouteConfig) {
	rbac := engine.Group("/api/v1/rbac")
	if cfg.AuthMiddleware != nil {
		rbac.Use(cfg.AuthMiddleware.RequireAuth())
		if cfg.PermissionMiddleware != nil && cfg.ManagePermission != "" {
			rbac.Use(cfg.PermissionMiddleware.RequirePermission(cfg.ManagePermission))
		}
	}

	roles := rbac.Group("/roles")
	{
		roles.POST("", cfg.RoleHandler.CreateRole)
		roles.GET("", cfg.RoleHandler.ListRoles)

		roles.GET("/:roleId", cfg.RoleHandler.GetRole)
		roles.PUT("/:roleId", cfg.RoleHandler.UpdateRole)
		roles.DELETE("/:roleId", cfg.RoleHandler.DeleteRole)
		roles.POST("/:roleId/permissions", cfg.RoleHandler.AssignPermissions)
		roles.DELETE("/:roleId/permissions", cfg.RoleHandler.RemovePermissions)
		roles.GET("/:roleId/permissions", cfg.RoleHandler.GetPermissions)
		roles.GET("/:roleId/permission-history", cfg.RoleHandler.GetPermissionHistory)
	}

	permissions := rbac.Group("/permissions")
	{
		permissions.POST("", cfg.PermissionHandler.CreatePermission)
		permissions.GET("", cfg.PermissionHandler.ListPermissions)

		// Named endpoints must come before /:permissionId
		permissions.GET("/tree", cfg.PermissionHandler.GetPermissionTree)
		permissions.POST("/check-conflicts", cfg.PermissionHandler.CheckConflicts)

		permissions.GET("/:permissionId", cfg.PermissionHandler.GetPermission)
		permissions.PUT("/:permissionId", cfg.PermissionHandler.UpdatePermission)
		permissions.DELETE("/:permissionId", cfg.PermissionHandler.DeletePermission)
		permissions.GET("/:permissionId/inheritance", cfg.PermissionHandler.GetInheritance)
	}

	users := rbac.Group("/users/:userId")
	{
		users.POST("/roles", cfg.UserRoleHandler.AssignRoles)
		users.DELETE("/roles", cfg.UserRoleHandler.RemoveRoles)
		users.GET("/roles", cfg.UserRoleHandler.GetRoles)
		users.PUT("/roles/:roleId/primary", cfg.UserRoleHandler.SetPrimaryRole)
		users.GET("/role-history", cfg.UserRoleHandler.GetRoleHistory)
		users.GET("/permissions", cfg.UserRoleHandler.GetEffectivePermissions)
		users.GET("/access", cfg.UserRoleHandler.CheckAccess)
	}

	rbac.PUT("/user-roles/:userRoleId/validity", cfg.UserRoleHandler.UpdateValidity)
}
