package middleware

import (
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/response"
	authUsecase "storefront-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Cookie names used for the token pair. Tokens are read exclusively
// from these cookies: never from an Authorization header and never
// from a query parameter.
const (
	AccessCookieName  = "Authentication"
	RefreshCookieName = "Refresh"
)

type AuthMiddleware struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthMiddleware(authService *authUsecase.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth validates the access token from the Authentication cookie
// and attaches the principal to the request context. A missing cookie,
// a bad signature and an expired token all produce the identical
// generic 401; the actual reason is only logged.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessCookieName)
		if err != nil || raw == "" {
			m.logger.Debug("access cookie missing",
				zap.String("path", c.Request.URL.Path),
				zap.Error(xerrors.ErrNoCredential),
			)
			response.Unauthorized(c)
			return
		}

		claims, err := m.authService.VerifyAccess(raw)
		if err != nil {
			m.logger.Debug("access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Unauthorized(c)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("roles", claims.Roles)
		c.Set("permissions", claims.Permissions)
		c.Set("token_payload", claims.Payload())

		c.Next()
	}
}

// RequireRefresh validates the refresh token from the Refresh cookie
// and re-resolves the principal from storage, so a deleted account is
// rejected even while its refresh token is still unexpired. Used only
// by the refresh endpoint.
func (m *AuthMiddleware) RequireRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(RefreshCookieName)
		if err != nil || raw == "" {
			m.logger.Debug("refresh cookie missing",
				zap.String("path", c.Request.URL.Path),
				zap.Error(xerrors.ErrNoCredential),
			)
			response.Unauthorized(c)
			return
		}

		user, err := m.authService.ResolveRefresh(c.Request.Context(), raw)
		if err != nil {
			m.logger.Debug("refresh token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Unauthorized(c)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)

		c.Next()
	}
}

// RequirePermission requires at least one of the given permissions.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userPermissions := GetPermissions(c)

		for _, userPerm := range userPermissions {
			for _, requiredPerm := range permissions {
				if userPerm == requiredPerm {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "insufficient permissions")
	}
}
