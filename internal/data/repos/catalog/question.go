package catalog

import (
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepo interface {
	ListBySubcategory(dbc dbctx.Context, subcategoryID uint) ([]*types.Question, error)
	// ExistingIDs returns the subset of ids that resolve to a question.
	ExistingIDs(dbc dbctx.Context, ids []uint) (map[uint]bool, error)
	Count(dbc dbctx.Context) (int64, error)
	UpsertBySubcategoryAndOrder(dbc dbctx.Context, question *types.Question) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) ListBySubcategory(dbc dbctx.Context, subcategoryID uint) ([]*types.Question, error) {
	q := dbc.Query(r.db)
	var out []*types.Question
	if err := q.
		Where("subcategory_id = ?", subcategoryID).
		Order("question_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) ExistingIDs(dbc dbctx.Context, ids []uint) (map[uint]bool, error) {
	q := dbc.Query(r.db)
	out := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []uint
	if err := q.
		Model(&types.Question{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (r *questionRepo) Count(dbc dbctx.Context) (int64, error) {
	q := dbc.Query(r.db)
	var count int64
	if err := q.Model(&types.Question{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *questionRepo) UpsertBySubcategoryAndOrder(dbc dbctx.Context, question *types.Question) error {
	return dbc.Query(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subcategory_id"}, {Name: "question_order"}},
			DoUpdates: clause.AssignmentColumns([]string{"question_text"}),
		}).
		Create(question).Error
}
