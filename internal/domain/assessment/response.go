package assessment

import (
	"time"

	"github.com/yungbote/lifewheel-backend/internal/domain/catalog"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Response is one answered question. (assessment_id, question_id) is unique; writes upsert.
type Response struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssessmentID uint              `gorm:"not null;uniqueIndex:uq_assessment_question,priority:1;index:idx_response_assessment" json:"assessment_id"`
	Assessment   *Assessment       `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	QuestionID   uint              `gorm:"not null;uniqueIndex:uq_assessment_question,priority:2;index:idx_response_question" json:"question_id"`
	Question     *catalog.Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Score        int               `gorm:"not null;check:check_score_range,score >= 0 AND score <= 10" json:"score"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}

func (Response) TableName() string { return "responses" }

// ScoredResponse is a response joined to its question's subcategory, the input of a scoring run.
type ScoredResponse struct {
	QuestionID    uint
	SubcategoryID uint
	Score         int
}
