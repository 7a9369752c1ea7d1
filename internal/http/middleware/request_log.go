package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// Health checks and scrapes are too chatty to log at info.
var quietPaths = map[string]struct{}{
	"/metrics":    {},
	"/api/health": {},
}

// RequestLogger emits one access line per request, leveled by status class.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := accessFields(c, route, status, time.Since(began))

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			if _, quiet := quietPaths[c.Request.URL.Path]; quiet {
				log.Debug("request served", fields...)
				return
			}
			log.Info("request served", fields...)
		}
	}
}

func accessFields(c *gin.Context, route string, status int, took time.Duration) []interface{} {
	fields := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"path", c.Request.URL.Path,
		"status", status,
		"duration_ms", took.Milliseconds(),
		"bytes", c.Writer.Size(),
		"client_ip", c.ClientIP(),
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	// RequireAuth swaps the request context further down, so the id is read back from gin's keys.
	if uid, ok := c.Get("user_id"); ok {
		fields = append(fields, "user_id", uid)
	}
	if n := len(c.Errors); n > 0 {
		fields = append(fields, "errors", n)
	}
	return fields
}
