package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// ErrorResponder renders the last error a handler pushed with c.Error. Handlers never format
// failures themselves.
func ErrorResponder(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := response.Classify(err)
		if status >= 500 && log != nil {
			log.Error("Request failed", "path", c.FullPath(), "status", status, "error", err)
		}
		c.AbortWithStatusJSON(status, response.ErrorEnvelope{Error: body})
	}
}
