package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/validate"
)

// pathID parses a positive integer path parameter, pushing a 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		_ = c.Error(apierr.BadRequest("invalid_id", name+" must be a positive integer"))
		return 0, false
	}
	return uint(v), true
}

// bindJSON decodes the body into dst and runs its validate tags. An empty body is allowed when
// optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		_ = c.Error(apierr.BadRequest("invalid_json", "request body must be valid JSON"))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}
