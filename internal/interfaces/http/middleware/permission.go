package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/application/permission/dto"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

// AccessChecker answers whether a user holds a permission code.
type AccessChecker interface {
	CheckUserAccess(ctx context.Context, userID uint, code string) (*dto.AccessCheckResult, error)
}

type PermissionMiddleware struct {
	checker AccessChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker AccessChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorID(c)
		if actor == nil {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("user not authenticated").WithReason("UNAUTHENTICATED"))
			c.Abort()
			return
		}

		result, err := m.checker.CheckUserAccess(c.Request.Context(), *actor, code)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", *actor, "permission", code)
			utils.ErrorResponseWithError(c, apperrors.Wrap(err, "ACCESS_CHECK_ERROR", "permission check failed"))
			c.Abort()
			return
		}

		if !result.Allowed {
			m.logger.Warnw("permission denied", "user_id", *actor, "permission", code)
			utils.ErrorResponseWithError(c, apperrors.NewForbiddenError("insufficient permissions").WithReason("PERMISSION_DENIED"))
			c.Abort()
			return
		}

		c.Next()
	}
}
