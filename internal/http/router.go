package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lifewheel-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lifewheel-backend/internal/http/middleware"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/platform/ratelimit"
)

// Per-client budgets. The global rule keys by client IP because it runs ahead of authentication;
// the per-route rules run after it and key by user id.
var (
	GlobalLimit         = ratelimit.PerHour("global", 100)
	RegisterLimit       = ratelimit.PerMinute("register", 5)
	LoginLimit          = ratelimit.PerMinute("login", 10)
	ResponsesLimit      = ratelimit.PerMinute("responses", 50)
	ActionPlanSaveLimit = ratelimit.PerMinute("action_plan_save", 10)
	ActionPlanDelLimit  = ratelimit.PerMinute("action_plan_delete", 5)
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	RateLimiter    *httpMW.RateLimiter
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	CatalogHandler    *httpH.CatalogHandler
	AssessmentHandler *httpH.AssessmentHandler
	ActionPlanHandler *httpH.ActionPlanHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lifewheel"
	}

	r := gin.New()
	r.Use(httpMW.Recovery(log))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.ErrorResponder(log))

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	limit := func(rule ratelimit.Rule) gin.HandlerFunc {
		if cfg.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return cfg.RateLimiter.Limit(rule)
	}

	api := r.Group("/api")
	api.Use(limit(GlobalLimit))

	if cfg.HealthHandler != nil {
		api.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		for _, prefix := range []string{"", "/auth"} {
			api.POST(prefix+"/register", limit(RegisterLimit), cfg.AuthHandler.Register)
			api.POST(prefix+"/login", limit(LoginLimit), cfg.AuthHandler.Login)
		}
	}

	// Catalog (public)
	if cfg.CatalogHandler != nil {
		api.GET("/life-areas", cfg.CatalogHandler.ListLifeAreas)
		api.GET("/life-areas/:id/subcategories", cfg.CatalogHandler.ListSubcategories)
		api.GET("/subcategories/:id/questions", cfg.CatalogHandler.ListQuestions)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.UserHandler != nil {
		protected.GET("/me", cfg.UserHandler.GetMe)
	}

	if h := cfg.AssessmentHandler; h != nil {
		protected.POST("/assessments/start", h.Start)
		protected.POST("/assessments", h.Start)
		protected.GET("/assessments/:id", h.Get)
		protected.PATCH("/assessments/:id/progress", h.UpdateProgress)
		protected.POST("/assessments/:id/responses", limit(ResponsesLimit), h.SaveResponses)
		protected.GET("/assessments/:id/responses", h.GetResponses)
		protected.POST("/assessments/:id/calculate", h.Calculate)
		protected.POST("/assessments/:id/complete", h.Calculate)
		protected.GET("/assessments/:id/results", h.Results)

		protected.GET("/user/assessments", h.List)
		protected.GET("/user/assessments/compare", h.Compare)
		protected.GET("/user/last-assessment", h.LastCompleted)
	}

	if h := cfg.ActionPlanHandler; h != nil {
		protected.GET("/assessments/:id/action-plan", h.Get)
		protected.POST("/assessments/:id/action-plan", limit(ActionPlanSaveLimit), h.Create)
		protected.PUT("/assessments/:id/action-plan", limit(ActionPlanSaveLimit), h.Update)
		protected.DELETE("/assessments/:id/action-plan", limit(ActionPlanDelLimit), h.Delete)
	}

	return r
}
