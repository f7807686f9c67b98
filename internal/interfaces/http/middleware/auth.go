package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kinderhub/kinderhub/internal/infrastructure/auth"
	"github.com/kinderhub/kinderhub/internal/shared/constants"
	apperrors "github.com/kinderhub/kinderhub/internal/shared/errors"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
	"github.com/kinderhub/kinderhub/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth verifies the bearer token and stores the acting user id in the
// context under constants.ContextKeyUserID.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			m.reject(c, apperrors.NewTokenMissingError())
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			m.reject(c, apperrors.NewTokenInvalidError())
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				m.reject(c, apperrors.NewTokenExpiredError())
				return
			}
			m.reject(c, apperrors.NewTokenInvalidError())
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			m.reject(c, apperrors.NewTokenInvalidError())
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, err *apperrors.AuthError) {
	if apperrors.IsSecurityEvent(err) {
		m.logger.Warnw("rejected bearer token", "reason", err.Reason, "path", c.Request.URL.Path)
	}
	utils.ErrorResponseWithError(c, err)
	c.Abort()
}

// ActorID returns the authenticated user id, or nil for anonymous requests.
func ActorID(c *gin.Context) *uint {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}
