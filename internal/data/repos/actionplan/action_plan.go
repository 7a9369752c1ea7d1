package actionplan

import (
	"errors"
	"time"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ActionPlanRepo interface {
	Create(dbc dbctx.Context, plan *types.ActionPlan) (*types.ActionPlan, error)
	GetByAssessment(dbc dbctx.Context, assessmentID uint) (*types.ActionPlan, error)
	UpdateFocusArea(dbc dbctx.Context, id, focusAreaID uint) error
	Touch(dbc dbctx.Context, id uint) error
	Delete(dbc dbctx.Context, id uint) error
}

type actionPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionPlanRepo(db *gorm.DB, baseLog *logger.Logger) ActionPlanRepo {
	return &actionPlanRepo{db: db, log: baseLog.With("repo", "ActionPlanRepo")}
}

func (r *actionPlanRepo) Create(dbc dbctx.Context, plan *types.ActionPlan) (*types.ActionPlan, error) {
	q := dbc.Query(r.db)
	if err := q.Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *actionPlanRepo) GetByAssessment(dbc dbctx.Context, assessmentID uint) (*types.ActionPlan, error) {
	q := dbc.Query(r.db)
	var plan types.ActionPlan
	err := q.Where("assessment_id = ?", assessmentID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *actionPlanRepo) UpdateFocusArea(dbc dbctx.Context, id, focusAreaID uint) error {
	q := dbc.Query(r.db)
	return q.
		Model(&types.ActionPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"focus_area_id": focusAreaID,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *actionPlanRepo) Touch(dbc dbctx.Context, id uint) error {
	q := dbc.Query(r.db)
	return q.
		Model(&types.ActionPlan{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

func (r *actionPlanRepo) Delete(dbc dbctx.Context, id uint) error {
	q := dbc.Query(r.db)
	return q.
		Where("id = ?", id).
		Delete(&types.ActionPlan{}).Error
}
