package app

import (
	goredis "github.com/redis/go-redis/v9"

	httpMW "github.com/yungbote/lifewheel-backend/internal/http/middleware"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/platform/ratelimit"
)

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	RateLimiter *httpMW.RateLimiter
}

// wireMiddleware shares rate-limit counters through redis when a client is available and keeps
// them in process otherwise.
func wireMiddleware(log *logger.Logger, services Services, rdb *goredis.Client, metrics *observability.Metrics) Middleware {
	log.Info("Wiring middleware...")
	var store ratelimit.Store
	if rdb != nil {
		store = ratelimit.NewRedisStore(rdb, "lifewheel:ratelimit")
		log.Info("Rate limiting backed by redis")
	} else {
		store = ratelimit.NewMemoryStore()
		log.Info("Rate limiting kept in process")
	}
	return Middleware{
		Auth:        httpMW.NewAuthMiddleware(log, services.Auth),
		RateLimiter: httpMW.NewRateLimiter(log, store, metrics),
	}
}
