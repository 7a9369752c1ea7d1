package app

import (
	httpH "github.com/yungbote/lifewheel-backend/internal/http/handlers"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	User        *httpH.UserHandler
	Catalog     *httpH.CatalogHandler
	Assessments *httpH.AssessmentHandler
	ActionPlans *httpH.ActionPlanHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		Auth:        httpH.NewAuthHandler(services.Auth),
		User:        httpH.NewUserHandler(services.User),
		Catalog:     httpH.NewCatalogHandler(services.Catalog),
		Assessments: httpH.NewAssessmentHandler(services.Assessments),
		ActionPlans: httpH.NewActionPlanHandler(services.ActionPlans),
	}
}
