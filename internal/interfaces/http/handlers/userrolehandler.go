package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	"github.com/kinderhub/kinderhub/internal/interfaces/http/middleware"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// UserRoleService is the part of the RBAC service the user endpoints need.
type UserRoleService interface {
	AssignRolesToUser(ctx context.Context, userID uint, req dto.AssignRolesRequest, actorID *uint) (*dto.AssignRolesResult, error)
	RemoveRolesFromUser(ctx context.Context, userID uint, req dto.RemoveRolesRequest) (*dto.RemoveRolesResult, error)
	GetUserRoles(ctx context.Context, userID uint) (*dto.UserRolesResult, error)
	SetPrimaryRole(ctx context.Context, userID, roleID uint) (*dto.PrimaryRoleResult, error)
	UpdateRoleValidity(ctx context.Context, userRoleID uint, req dto.UpdateValidityRequest) (*dto.UserRoleDTO, error)
	GetUserRoleHistory(ctx context.Context, userID uint, page, pageSize int) (*dto.UserRoleHistoryPage, error)
	GetUserEffectivePermissions(ctx context.Context, userID uint) (*dto.EffectivePermissionsResult, error)
	CheckUserAccess(ctx context.Context, userID uint, code string) (*dto.AccessCheckResult, error)
}

type UserRoleHandler struct {
	service UserRoleService
	logger  logger.Interface
}

func NewUserRoleHandler(service UserRoleService, logger logger.Interface) *UserRoleHandler {
	return &UserRoleHandler{service: service, logger: logger}
}

// AssignRoles godoc
// @Summary Assign roles to user
// @Description Grant roles to a user with an optional validity window
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body dto.AssignRolesRequest true "Role IDs and validity window"
// @Success 200 {object} utils.APIResponse{data=dto.AssignRolesResult} "Roles assigned successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/roles [post]
func (h *UserRoleHandler) AssignRoles(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AssignRolesRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for assign roles", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.AssignRolesToUser(c.Request.Context(), userID, req, middleware.ActorID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Roles assigned successfully", result)
}

// RemoveRoles godoc
// @Summary Remove roles from user
// @Description Revoke roles from a user
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body dto.RemoveRolesRequest true "Role IDs"
// @Success 200 {object} utils.APIResponse{data=dto.RemoveRolesResult} "Roles removed successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/roles [delete]
func (h *UserRoleHandler) RemoveRoles(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.RemoveRolesRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for remove roles", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.RemoveRolesFromUser(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Roles removed successfully", result)
}

// GetRoles godoc
// @Summary Get user roles
// @Description List the roles granted to a user with their validity windows
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} utils.APIResponse{data=dto.UserRolesResult} "User roles"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/roles [get]
func (h *UserRoleHandler) GetRoles(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUserRoles(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SetPrimaryRole godoc
// @Summary Set primary role
// @Description Mark one of the user's roles as primary
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.PrimaryRoleResult} "Primary role updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User or role grant not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/roles/{roleId}/primary [put]
func (h *UserRoleHandler) SetPrimaryRole(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	roleID, err := utils.ParseUintParam(c, "roleId", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.SetPrimaryRole(c.Request.Context(), userID, roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Primary role updated successfully", result)
}

// UpdateValidity godoc
// @Summary Update role validity
// @Description Change the validity window of a user role grant
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userRoleId path int true "User role grant ID"
// @Param request body dto.UpdateValidityRequest true "Validity window"
// @Success 200 {object} utils.APIResponse{data=dto.UserRoleDTO} "Validity window updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "Grant not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /user-roles/{userRoleId}/validity [put]
func (h *UserRoleHandler) UpdateValidity(c *gin.Context) {
	userRoleID, err := utils.ParseUintParam(c, "userRoleId", "user role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateValidityRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update validity", "user_role_id", userRoleID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.UpdateRoleValidity(c.Request.Context(), userRoleID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Validity window updated successfully", result)
}

// GetRoleHistory godoc
// @Summary Get user role history
// @Description Paginated role grant and revocation history of a user
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=dto.UserRoleHistoryPage} "User role history"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/role-history [get]
func (h *UserRoleHandler) GetRoleHistory(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.service.GetUserRoleHistory(c.Request.Context(), userID, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetEffectivePermissions godoc
// @Summary Get effective permissions
// @Description List the permission codes a user holds now through roles in effect
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} utils.APIResponse{data=dto.EffectivePermissionsResult} "Effective permissions"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/permissions [get]
func (h *UserRoleHandler) GetEffectivePermissions(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUserEffectivePermissions(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CheckAccess godoc
// @Summary Check user access
// @Description Check whether a user currently holds a permission code
// @Security Bearer
// @Tags user-roles
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param code query string true "Permission code"
// @Success 200 {object} utils.APIResponse{data=dto.AccessCheckResult} "Access check result"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires RBAC management permission"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /users/{userId}/access [get]
func (h *UserRoleHandler) CheckAccess(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.CheckUserAccess(c.Request.Context(), userID, strings.TrimSpace(c.Query("code")))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
