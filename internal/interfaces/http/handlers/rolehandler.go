package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/middleware"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// RoleService is the part of the RBAC service the role endpoints need.
type RoleService interface {
	CreateRole(ctx context.Context, req dto.CreateRoleRequest) (*dto.RoleDTO, error)
	GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error)
	ListRoles(ctx context.Context, query usecases.ListRolesQuery) ([]*dto.RoleDTO, int64, error)
	UpdateRole(ctx context.Context, roleID uint, req dto.UpdateRoleRequest) (*dto.RoleDTO, error)
	DeleteRole(ctx context.Context, roleID uint) error
	AssignPermissionsToRole(ctx context.Context, roleID uint, req dto.AssignPermissionsRequest, actorID *uint) (*dto.AssignPermissionsResult, error)
	RemovePermissionsFromRole(ctx context.Context, roleID uint, req dto.RemovePermissionsRequest) (*dto.RemovePermissionsResult, error)
	GetRolePermissions(ctx context.Context, roleID uint) (*dto.RolePermissionsResult, error)
	GetRolePermissionHistory(ctx context.Context, roleID uint, page, pageSize int) (*dto.RolePermissionHistoryPage, error)
}

type RoleHandler struct {
	service RoleService
	logger  logger.Interface
}

func NewRoleHandler(service RoleService, logger logger.Interface) *RoleHandler {
	return &RoleHandler{service: service, logger: logger}
}

// CreateRole godoc
// @Summary Create role
// @Description Create a new role with a unique code
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param request body dto.CreateRoleRequest true "Role data"
// @Success 201 {object} utils.APIResponse{data=dto.RoleDTO} "Role created successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 409 {object} utils.APIResponse "Role code already exists"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create role", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created successfully")
}

// GetRole godoc
// @Summary Get role
// @Description Get a role by ID
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO} "Role details"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", role)
}

// ListRoles godoc
// @Summary List roles
// @Description Get a paginated list of roles with optional filters
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param keyword query string false "Match name or code"
// @Param status query string false "Filter by status" Enums(active, inactive)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.RoleDTO}} "Roles list"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := usecases.ListRolesQuery{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   c.Query("status"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	roles, total, err := h.service.ListRoles(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, roles, total, p.Page, p.PageSize)
}

// UpdateRole godoc
// @Summary Update role
// @Description Update the name, description or status of a role
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Param request body dto.UpdateRoleRequest true "Role fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO} "Role updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update role", "role_id", roleID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.service.UpdateRole(c.Request.Context(), roleID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", role)
}

// DeleteRole godoc
// @Summary Delete role
// @Description Soft-delete a role and revoke its grants. Protected roles cannot be deleted
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Success 200 {object} utils.APIResponse "Role deleted successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role deleted successfully", gin.H{"roleId": roleID})
}

// AssignPermissions godoc
// @Summary Assign permissions to role
// @Description Grant permissions to a role. Already granted permissions are skipped
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Param request body dto.AssignPermissionsRequest true "Permission IDs"
// @Success 200 {object} utils.APIResponse{data=dto.AssignPermissionsResult} "Permissions assigned successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId}/permissions [post]
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AssignPermissionsRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for assign permissions", "role_id", roleID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.AssignPermissionsToRole(c.Request.Context(), roleID, req, middleware.ActorID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions assigned successfully", result)
}

// RemovePermissions godoc
// @Summary Remove permissions from role
// @Description Revoke permissions from a role
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Param request body dto.RemovePermissionsRequest true "Permission IDs"
// @Success 200 {object} utils.APIResponse{data=dto.RemovePermissionsResult} "Permissions removed successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId}/permissions [delete]
func (h *RoleHandler) RemovePermissions(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.RemovePermissionsRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for remove permissions", "role_id", roleID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.RemovePermissionsFromRole(c.Request.Context(), roleID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions removed successfully", result)
}

// GetPermissions godoc
// @Summary Get role permissions
// @Description List the permissions currently granted to a role
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.RolePermissionsResult} "Role permissions"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId}/permissions [get]
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetRolePermissions(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetPermissionHistory godoc
// @Summary Get role permission history
// @Description Paginated grant and revocation history of a role
// @Security Bearer
// @Tags roles
// @Accept json
// @Produce json
// @Param roleId path int true "Role ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=dto.RolePermissionHistoryPage} "Role permission history"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /roles/{roleId}/permission-history [get]
func (h *RoleHandler) GetPermissionHistory(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.GetRolePermissionHistory(c.Request.Context(), roleID, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
