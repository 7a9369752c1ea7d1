package actionplan

import (
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ActionRepo interface {
	Create(dbc dbctx.Context, actions []*types.Action) ([]*types.Action, error)
	ListByPlan(dbc dbctx.Context, planID uint) ([]*types.Action, error)
	DeleteByPlan(dbc dbctx.Context, planID uint) error
}

type actionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	return &actionRepo{db: db, log: baseLog.With("repo", "ActionRepo")}
}

func (r *actionRepo) Create(dbc dbctx.Context, actions []*types.Action) ([]*types.Action, error) {
	q := dbc.Query(r.db)
	if len(actions) == 0 {
		return []*types.Action{}, nil
	}
	if err := q.Create(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *actionRepo) ListByPlan(dbc dbctx.Context, planID uint) ([]*types.Action, error) {
	q := dbc.Query(r.db)
	var out []*types.Action
	if err := q.
		Where("action_plan_id = ?", planID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *actionRepo) DeleteByPlan(dbc dbctx.Context, planID uint) error {
	q := dbc.Query(r.db)
	return q.
		Where("action_plan_id = ?", planID).
		Delete(&types.Action{}).Error
}
