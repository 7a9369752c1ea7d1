package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/http/response"
	pkgerrors "github.com/yungbote/lifewheel-backend/internal/pkg/errors"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.Error(c, apierr.Unauthorized(pkgerrors.ErrUnauthorized))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		if id, ok := ctxutil.UserID(ctx); ok {
			c.Set("user_id", id)
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
