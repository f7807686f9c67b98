package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/application/permission/usecases"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// PermissionService is the part of the RBAC service the permission endpoints
// need.
type PermissionService interface {
	CreatePermission(ctx context.Context, req dto.CreatePermissionRequest) (*dto.PermissionDTO, error)
	GetPermission(ctx context.Context, permissionID uint) (*dto.PermissionDTO, error)
	ListPermissions(ctx context.Context, query usecases.ListPermissionsQuery) ([]*dto.PermissionDTO, int64, error)
	GetPermissionTree(ctx context.Context) ([]*dto.PermissionTreeNode, error)
	UpdatePermission(ctx context.Context, permissionID uint, req dto.UpdatePermissionRequest) (*dto.PermissionDTO, error)
	DeletePermission(ctx context.Context, permissionID uint) error
	GetPermissionInheritance(ctx context.Context, permissionID uint) (*dto.InheritanceResult, error)
	CheckPermissionConflicts(ctx context.Context, req dto.CheckConflictsRequest) (*dto.ConflictCheckResult, error)
}

type PermissionHandler struct {
	service PermissionService
	logger  logger.Interface
}

func NewPermissionHandler(service PermissionService, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{service: service, logger: logger}
}

// CreatePermission godoc
// @Summary Create permission
// @Description Create a new permission node
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body dto.CreatePermissionRequest true "Permission data"
// @Success 201 {object} utils.APIResponse{data=dto.PermissionDTO} "Permission created successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 409 {object} utils.APIResponse "Permission code already exists"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions [post]
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req dto.CreatePermissionRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create permission", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.CreatePermission(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Permission created successfully")
}

// GetPermission godoc
// @Summary Get permission
// @Description Get a permission by ID
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} utils.APIResponse{data=dto.PermissionDTO} "Permission details"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Permission not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/{permissionId} [get]
func (h *PermissionHandler) GetPermission(c *gin.Context) {
	permissionID, err := utils.ParseUintParam(c, "permissionId", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetPermission(c.Request.Context(), permissionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPermissions godoc
// @Summary List permissions
// @Description Get a paginated list of permissions with optional filters
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param type query string false "Filter by type" Enums(menu, button, api)
// @Param parentId query int false "Filter by parent permission ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.PermissionDTO}} "Permissions list"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions [get]
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	p := utils.ParsePagination(c)
	query := usecases.ListPermissionsQuery{
		Type:     c.Query("type"),
		ParentID: queryUint(c, "parentId"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	items, total, err := h.service.ListPermissions(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, items, total, p.Page, p.PageSize)
}

// GetPermissionTree godoc
// @Summary Get permission tree
// @Description Get every permission arranged as a forest
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.PermissionTreeNode} "Permission tree"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/tree [get]
func (h *PermissionHandler) GetPermissionTree(c *gin.Context) {
	tree, err := h.service.GetPermissionTree(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tree)
}

// UpdatePermission godoc
// @Summary Update permission
// @Description Update a permission. The code cannot change
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param permissionId path int true "Permission ID"
// @Param request body dto.UpdatePermissionRequest true "Permission fields"
// @Success 200 {object} utils.APIResponse{data=dto.PermissionDTO} "Permission updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Permission not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/{permissionId} [put]
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	permissionID, err := utils.ParseUintParam(c, "permissionId", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdatePermissionRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update permission", "permission_id", permissionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UpdatePermission(c.Request.Context(), permissionID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission updated successfully", result)
}

// DeletePermission godoc
// @Summary Delete permission
// @Description Delete a permission that has no children and no active grants
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} utils.APIResponse "Permission deleted successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Permission not found"
// @Failure 409 {object} utils.APIResponse "Permission has children or is still granted"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/{permissionId} [delete]
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	permissionID, err := utils.ParseUintParam(c, "permissionId", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeletePermission(c.Request.Context(), permissionID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission deleted successfully", gin.H{"permissionId": permissionID})
}

// GetInheritance godoc
// @Summary Get permission inheritance
// @Description Get a permission and its descendants
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} utils.APIResponse{data=dto.InheritanceResult} "Permission inheritance"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Permission not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/{permissionId}/inheritance [get]
func (h *PermissionHandler) GetInheritance(c *gin.Context) {
	permissionID, err := utils.ParseUintParam(c, "permissionId", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetPermissionInheritance(c.Request.Context(), permissionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CheckConflicts godoc
// @Summary Check permission conflicts
// @Description Report conflicts between candidate permissions and a role's current grants
// @Security Bearer
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body dto.CheckConflictsRequest true "Role and candidate permissions"
// @Success 200 {object} utils.APIResponse{data=dto.ConflictCheckResult} "Conflict check result"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Role not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /permissions/check-conflicts [post]
func (h *PermissionHandler) CheckConflicts(c *gin.Context) {
	var req dto.CheckConflictsRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for check conflicts", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.CheckPermissionConflicts(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	msg := "No conflicts found"
	if len(result.Conflicts) > 0 {
		msg = "Conflicts found"
	}
	utils.SuccessResponse(c, http.StatusOK, msg, result)
}
