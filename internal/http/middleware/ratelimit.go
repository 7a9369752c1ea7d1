package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/platform/ratelimit"
)

type RateLimiter struct {
	log     *logger.Logger
	store   ratelimit.Store
	metrics *observability.Metrics
}

func NewRateLimiter(log *logger.Logger, store ratelimit.Store, metrics *observability.Metrics) *RateLimiter {
	return &RateLimiter{log: log.With("Middleware", "RateLimiter"), store: store, metrics: metrics}
}

// ClientKey is the authenticated user when known, else the client IP.
func ClientKey(c *gin.Context) string {
	if id, ok := ctxutil.UserID(c.Request.Context()); ok {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return "ip:" + c.ClientIP()
}

// Limit enforces rule per client key. A failing store lets the request through.
func (rl *RateLimiter) Limit(rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.store == nil {
			c.Next()
			return
		}
		d, err := rl.store.Allow(c.Request.Context(), rule, ClientKey(c))
		if err != nil {
			rl.log.Warn("Rate limit store unavailable", "rule", rule.Name, "error", err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			if d.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			}
			rl.metrics.IncRateLimited(rule.Name)
			response.Error(c, apierr.TooManyRequests())
			return
		}
		c.Next()
	}
}
