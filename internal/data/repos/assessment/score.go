package assessment

import (
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domassessment "github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepo interface {
	UpsertSubcategoryScores(dbc dbctx.Context, rows []*types.SubcategoryScore) error
	UpsertAreaScores(dbc dbctx.Context, rows []*types.AreaScore) error
	ListSubcategoryScores(dbc dbctx.Context, assessmentID uint) ([]*types.SubcategoryScore, error)
	ListAreaScores(dbc dbctx.Context, assessmentID uint) ([]*types.AreaScore, error)
	// ListAreaViews joins area scores to life areas for each assessment, by area display order.
	ListAreaViews(dbc dbctx.Context, assessmentIDs []uint) ([]domassessment.AreaScoreView, error)
	ListSubcategoryViews(dbc dbctx.Context, assessmentID uint) ([]domassessment.SubcategoryScoreView, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return &scoreRepo{db: db, log: baseLog.With("repo", "ScoreRepo")}
}

func (r *scoreRepo) UpsertSubcategoryScores(dbc dbctx.Context, rows []*types.SubcategoryScore) error {
	q := dbc.Query(r.db)
	if len(rows) == 0 {
		return nil
	}
	return q.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "subcategory_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"average_score", "percentage", "calculated_at"}),
		}).
		Create(&rows).Error
}

func (r *scoreRepo) UpsertAreaScores(dbc dbctx.Context, rows []*types.AreaScore) error {
	q := dbc.Query(r.db)
	if len(rows) == 0 {
		return nil
	}
	return q.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "life_area_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"average_score", "percentage", "calculated_at"}),
		}).
		Create(&rows).Error
}

func (r *scoreRepo) ListSubcategoryScores(dbc dbctx.Context, assessmentID uint) ([]*types.SubcategoryScore, error) {
	q := dbc.Query(r.db)
	var out []*types.SubcategoryScore
	if err := q.
		Where("assessment_id = ?", assessmentID).
		Order("subcategory_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepo) ListAreaScores(dbc dbctx.Context, assessmentID uint) ([]*types.AreaScore, error) {
	q := dbc.Query(r.db)
	var out []*types.AreaScore
	if err := q.
		Where("assessment_id = ?", assessmentID).
		Order("life_area_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepo) ListAreaViews(dbc dbctx.Context, assessmentIDs []uint) ([]domassessment.AreaScoreView, error) {
	q := dbc.Query(r.db)
	var out []domassessment.AreaScoreView
	if len(assessmentIDs) == 0 {
		return out, nil
	}
	if err := q.
		Table("area_scores").
		Select(`area_scores.assessment_id AS assessment_id,
			area_scores.life_area_id AS life_area_id,
			life_areas.name AS life_area_name,
			life_areas.color AS color,
			life_areas.display_order AS display_order,
			area_scores.average_score AS average_score,
			area_scores.percentage AS percentage`).
		Joins("JOIN life_areas ON life_areas.id = area_scores.life_area_id").
		Where("area_scores.assessment_id IN ?", assessmentIDs).
		Order("area_scores.assessment_id ASC, life_areas.display_order ASC, life_areas.id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepo) ListSubcategoryViews(dbc dbctx.Context, assessmentID uint) ([]domassessment.SubcategoryScoreView, error) {
	q := dbc.Query(r.db)
	var out []domassessment.SubcategoryScoreView
	if err := q.
		Table("subcategory_scores").
		Select(`subcategory_scores.subcategory_id AS subcategory_id,
			subcategories.name AS subcategory_name,
			subcategories.life_area_id AS life_area_id,
			life_areas.name AS life_area_name,
			subcategory_scores.average_score AS average_score,
			subcategory_scores.percentage AS percentage`).
		Joins("JOIN subcategories ON subcategories.id = subcategory_scores.subcategory_id").
		Joins("JOIN life_areas ON life_areas.id = subcategories.life_area_id").
		Where("subcategory_scores.assessment_id = ?", assessmentID).
		Order("life_areas.display_order ASC, life_areas.id ASC, subcategories.display_order ASC, subcategories.id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
