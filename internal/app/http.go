package app

import (
	apphttp "github.com/yungbote/lifewheel-backend/internal/http"
	httpMW "github.com/yungbote/lifewheel-backend/internal/http/middleware"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, metrics *observability.Metrics) *apphttp.Server {
	log.Info("Wiring router...")
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		CORSOrigins:    httpMW.CORSOrigins(cfg.CORSOrigins, cfg.DebugMode),
		RateLimiter:    mw.RateLimiter,
		AuthMiddleware: mw.Auth,

		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		CatalogHandler:    handlers.Catalog,
		AssessmentHandler: handlers.Assessments,
		ActionPlanHandler: handlers.ActionPlans,
		HealthHandler:     handlers.Health,
	})
}
