package assessment

import (
	"time"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domassessment "github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponseRepo interface {
	// Upsert writes rows keyed by (assessment_id, question_id), overwriting score and updated_at.
	Upsert(dbc dbctx.Context, rows []*types.Response) (int64, error)
	ListByAssessment(dbc dbctx.Context, assessmentID uint) ([]*types.Response, error)
	// ListScored joins each response to its question's subcategory.
	ListScored(dbc dbctx.Context, assessmentID uint) ([]domassessment.ScoredResponse, error)
	CountByAssessments(dbc dbctx.Context, assessmentIDs []uint) (map[uint]int, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Upsert(dbc dbctx.Context, rows []*types.Response) (int64, error) {
	q := dbc.Query(r.db)
	if len(rows) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}
	res := q.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int64(len(rows)), nil
}

func (r *responseRepo) ListByAssessment(dbc dbctx.Context, assessmentID uint) ([]*types.Response, error) {
	q := dbc.Query(r.db)
	var out []*types.Response
	if err := q.
		Where("assessment_id = ?", assessmentID).
		Order("question_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *responseRepo) ListScored(dbc dbctx.Context, assessmentID uint) ([]domassessment.ScoredResponse, error) {
	q := dbc.Query(r.db)
	var out []domassessment.ScoredResponse
	if err := q.
		Table("responses").
		Select("responses.question_id AS question_id, questions.subcategory_id AS subcategory_id, responses.score AS score").
		Joins("JOIN questions ON questions.id = responses.question_id").
		Where("responses.assessment_id = ?", assessmentID).
		Order("responses.question_id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *responseRepo) CountByAssessments(dbc dbctx.Context, assessmentIDs []uint) (map[uint]int, error) {
	q := dbc.Query(r.db)
	out := make(map[uint]int, len(assessmentIDs))
	if len(assessmentIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AssessmentID uint
		Total        int
	}
	if err := q.
		Model(&types.Response{}).
		Select("assessment_id, COUNT(*) AS total").
		Where("assessment_id IN ?", assessmentIDs).
		Group("assessment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AssessmentID] = row.Total
	}
	return out, nil
}
