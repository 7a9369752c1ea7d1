package actionplan

import (
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ContributionPointRepo interface {
	Create(dbc dbctx.Context, points []*types.ContributionPoint) ([]*types.ContributionPoint, error)
	ListByPlan(dbc dbctx.Context, planID uint) ([]*types.ContributionPoint, error)
	DeleteByPlan(dbc dbctx.Context, planID uint) error
}

type contributionPointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContributionPointRepo(db *gorm.DB, baseLog *logger.Logger) ContributionPointRepo {
	return &contributionPointRepo{db: db, log: baseLog.With("repo", "ContributionPointRepo")}
}

func (r *contributionPointRepo) Create(dbc dbctx.Context, points []*types.ContributionPoint) ([]*types.ContributionPoint, error) {
	q := dbc.Query(r.db)
	if len(points) == 0 {
		return []*types.ContributionPoint{}, nil
	}
	if err := q.Create(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *contributionPointRepo) ListByPlan(dbc dbctx.Context, planID uint) ([]*types.ContributionPoint, error) {
	q := dbc.Query(r.db)
	var out []*types.ContributionPoint
	if err := q.
		Where("action_plan_id = ?", planID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contributionPointRepo) DeleteByPlan(dbc dbctx.Context, planID uint) error {
	q := dbc.Query(r.db)
	return q.
		Where("action_plan_id = ?", planID).
		Delete(&types.ContributionPoint{}).Error
}
