package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/kinderhub/kinderhub/docs"
	"github.com/kinderhub/kinderhub/internal/application/permission"
	"github.com/kinderhub/kinderhub/internal/infrastructure/config"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/middleware"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/routes"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(database, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	routes.SetupRBACRoutes(r.engine, &routes.RBACRouteConfig{
		RoleHandler:          r.roleHandler,
		PermissionHandler:    r.permissionHandler,
		UserRoleHandler:      r.userRoleHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		ManagePermission:     r.cfg.RBAC.ManagePermission,
	})
}

// SyncAccess rebuilds the policy engine from the stored grants.
func (r *Router) SyncAccess(ctx context.Context) error {
	return r.service.SyncAccess(ctx)
}

// Service exposes the RBAC service to the CLI.
func (r *Router) Service() *permission.ServiceDDD {
	return r.service
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
