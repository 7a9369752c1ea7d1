package assessment

import (
	"errors"
	"time"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// AssessmentRepo lookups that take a userID only return rows owned by that user.
type AssessmentRepo interface {
	Create(dbc dbctx.Context, a *types.Assessment) (*types.Assessment, error)
	GetOwned(dbc dbctx.Context, userID, id uint) (*types.Assessment, error)
	GetInProgress(dbc dbctx.Context, userID uint) (*types.Assessment, error)
	GetLastCompleted(dbc dbctx.Context, userID uint) (*types.Assessment, error)
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.Assessment, error)
	ListOwnedCompleted(dbc dbctx.Context, userID uint, ids []uint) ([]*types.Assessment, error)
	MarkCompleted(dbc dbctx.Context, id uint, at time.Time) error
	// UpdateProgress only touches in_progress rows and reports whether one was updated.
	UpdateProgress(dbc dbctx.Context, id uint, currentAreaIndex int) (bool, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, a *types.Assessment) (*types.Assessment, error) {
	q := dbc.Query(r.db)
	if a.Title == "" {
		a.Title = types.DefaultAssessmentTitle
	}
	if a.Status == "" {
		a.Status = types.AssessmentInProgress
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now().UTC()
	}
	if err := q.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assessmentRepo) GetOwned(dbc dbctx.Context, userID, id uint) (*types.Assessment, error) {
	q := dbc.Query(r.db)
	if userID == 0 || id == 0 {
		return nil, nil
	}
	return first(q.Where("id = ? AND user_id = ?", id, userID))
}

func (r *assessmentRepo) GetInProgress(dbc dbctx.Context, userID uint) (*types.Assessment, error) {
	q := dbc.Query(r.db)
	return first(q.
		Where("user_id = ? AND status = ?", userID, types.AssessmentInProgress).
		Order("started_at DESC, id DESC"))
}

func (r *assessmentRepo) GetLastCompleted(dbc dbctx.Context, userID uint) (*types.Assessment, error) {
	q := dbc.Query(r.db)
	return first(q.
		Where("user_id = ? AND status = ?", userID, types.AssessmentCompleted).
		Order("completed_at DESC, id DESC"))
}

func (r *assessmentRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.Assessment, error) {
	q := dbc.Query(r.db)
	var out []*types.Assessment
	if err := q.
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnedCompleted returns the completed assessments among ids, oldest completion first.
func (r *assessmentRepo) ListOwnedCompleted(dbc dbctx.Context, userID uint, ids []uint) ([]*types.Assessment, error) {
	q := dbc.Query(r.db)
	var out []*types.Assessment
	if len(ids) == 0 {
		return out, nil
	}
	if err := q.
		Where("user_id = ? AND status = ? AND id IN ?", userID, types.AssessmentCompleted, ids).
		Order("completed_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentRepo) MarkCompleted(dbc dbctx.Context, id uint, at time.Time) error {
	q := dbc.Query(r.db)
	return q.
		Model(&types.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       types.AssessmentCompleted,
			"completed_at": at,
			"updated_at":   at,
		}).Error
}

func (r *assessmentRepo) UpdateProgress(dbc dbctx.Context, id uint, currentAreaIndex int) (bool, error) {
	q := dbc.Query(r.db)
	res := q.
		Model(&types.Assessment{}).
		Where("id = ? AND status = ?", id, types.AssessmentInProgress).
		Updates(map[string]interface{}{
			"current_area_index": currentAreaIndex,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func first(q *gorm.DB) (*types.Assessment, error) {
	var a types.Assessment
	err := q.First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
