package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kinderhub/kinderhub/internal/application/permission"
	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	"github.com/kinderhub/kinderhub/internal/infrastructure/auth"
	"github.com/kinderhub/kinderhub/internal/infrastructure/cache"
	"github.com/kinderhub/kinderhub/internal/infrastructure/config"
	infraPermission "github.com/kinderhub/kinderhub/internal/infrastructure/permission"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/handlers"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/middleware"
	"github.com/kinderhub/kinderhub/internal/shared/db"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/services/sanitizer"
)

// Container holds the infrastructure components, the RBAC service, handlers
// and middlewares, and wires them together.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface

	redisClient *redis.Client
	enforcer    *infraPermission.Enforcer
	repos       *repositories

	service *permission.ServiceDDD

	roleHandler          *handlers.RoleHandler
	permissionHandler    *handlers.PermissionHandler
	userRoleHandler      *handlers.UserRoleHandler
	healthHandler        *handlers.HealthHandler
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
}

// NewContainer creates a Container with all dependencies wired together.
// redisClient may be nil, in which case effective permissions are not cached.
func NewContainer(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:      gin.New(),
		db:          database,
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initService()
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.repos = newRepositories(c.db)

	enforcer, err := infraPermission.NewEnforcer(c.db, c.log)
	if err != nil {
		return err
	}
	c.enforcer = enforcer
	return nil
}

func (c *Container) permissionCache() usecases.PermissionCache {
	if c.redisClient == nil {
		return cache.NoopPermissionCache{}
	}
	ttl := time.Duration(c.cfg.RBAC.CacheTTLMinutes) * time.Minute
	return cache.NewRedisPermissionCache(c.redisClient, ttl, c.log)
}

func (c *Container) initService() {
	c.service = permission.NewServiceDDD(permission.Dependencies{
		TxManager:          db.NewTransactionManager(c.db),
		UserRepo:           c.repos.userRepo,
		RoleRepo:           c.repos.roleRepo,
		PermissionRepo:     c.repos.permissionRepo,
		RolePermissionRepo: c.repos.rolePermissionRepo,
		UserRoleRepo:       c.repos.userRoleRepo,
		Cache:              c.permissionCache(),
		Policies:           c.enforcer,
		Sanitizer:          sanitizer.NewTextSanitizer(),
		Settings: usecases.Settings{
			ProtectedRoleCodes: c.cfg.RBAC.ProtectedRoleCodes,
			MaxPermissionDepth: c.cfg.RBAC.MaxPermissionDepth,
		},
		Logger: c.log,
	})
}

func (c *Container) initHandlers() {
	c.roleHandler = handlers.NewRoleHandler(c.service, c.log)
	c.permissionHandler = handlers.NewPermissionHandler(c.service, c.log)
	c.userRoleHandler = handlers.NewUserRoleHandler(c.service, c.log)
	c.healthHandler = handlers.NewHealthHandler(c.db)

	if c.cfg.Auth.Enabled {
		jwtService := auth.NewJWTService(c.cfg.Auth.JWTSecret, c.cfg.Auth.Issuer, c.cfg.Auth.TokenTTLMinutes)
		c.authMiddleware = middleware.NewAuthMiddleware(jwtService, c.log)
		c.permissionMiddleware = middleware.NewPermissionMiddleware(c.service, c.log)
	}
}
