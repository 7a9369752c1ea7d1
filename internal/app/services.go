package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

const slowWriteThreshold = 500 * time.Millisecond

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Catalog     services.CatalogService
	Assessments services.AssessmentService
	ActionPlans services.ActionPlanService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, rs repos.Set, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	txLog := log.With("component", "TxRunner")
	runner := aggregates.NewGormTxRunner(db, aggregates.WithRetryObserver(func(attempt int, err error) {
		txLog.Warn("retrying aggregate transaction", "attempt", attempt, "error", err)
	}))
	hooks := aggregates.ChainHooks(
		aggregates.NewObservabilityHooks(metrics),
		aggregates.NewSlowWriteHooks(log, slowWriteThreshold),
	)
	base := aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks}
	assessmentAgg := aggregates.NewAssessmentAggregate(aggregates.AssessmentAggregateDeps{
		Base:          base,
		Assessments:   rs.Assessments,
		Responses:     rs.Responses,
		Scores:        rs.Scores,
		Questions:     rs.Questions,
		Subcategories: rs.Subcategories,
		LifeAreas:     rs.LifeAreas,
	})
	planAgg := aggregates.NewActionPlanAggregate(aggregates.ActionPlanAggregateDeps{
		Base:        base,
		Assessments: rs.Assessments,
		LifeAreas:   rs.LifeAreas,
		Plans:       rs.ActionPlans,
		Actions:     rs.Actions,
		Points:      rs.ContributionPoints,
	})
	for _, agg := range []domainagg.Aggregate{assessmentAgg, planAgg} {
		c := agg.Contract()
		log.Debug("aggregate ready", "name", c.Name, "tables", c.Tables, "tx", c.WriteTxOwnership)
	}

	return Services{
		Auth: services.NewAuthService(log, rs.Users, metrics, services.AuthConfig{
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			BcryptCost:   cfg.BcryptCost,
		}),
		User:    services.NewUserService(log, rs.Users),
		Catalog: services.NewCatalogService(log, rs.LifeAreas, rs.Subcategories, rs.Questions),
		Assessments: services.NewAssessmentService(services.AssessmentServiceDeps{
			Log:         log,
			Aggregate:   assessmentAgg,
			Assessments: rs.Assessments,
			Responses:   rs.Responses,
			Scores:      rs.Scores,
			Metrics:     metrics,
		}),
		ActionPlans: services.NewActionPlanService(services.ActionPlanServiceDeps{
			Log:                log,
			Aggregate:          planAgg,
			Assessments:        rs.Assessments,
			LifeAreas:          rs.LifeAreas,
			Plans:              rs.ActionPlans,
			Actions:            rs.Actions,
			ContributionPoints: rs.ContributionPoints,
		}),
	}
}
