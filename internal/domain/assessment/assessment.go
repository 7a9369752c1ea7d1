package assessment

import (
	"time"

	"github.com/yungbote/lifewheel-backend/internal/domain/user"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

const DefaultTitle = "Wheel of Life Assessment"

// Assessment moves from in_progress to completed exactly once, when scores are calculated.
// A user holds at most one in_progress assessment (uq_assessment_user_in_progress).
type Assessment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index:idx_assessment_user_status,priority:1" json:"user_id"`
	User             *user.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Status           Status     `gorm:"size:20;not null;default:in_progress;index:idx_assessment_user_status,priority:2;check:chk_assessment_status,status IN ('in_progress','completed')" json:"status"`
	CurrentAreaIndex int        `gorm:"not null;default:0" json:"current_area_index"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt      *time.Time `gorm:"index:idx_assessment_completed" json:"completed_at"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

func (Assessment) TableName() string { return "assessments" }

func (a *Assessment) IsCompleted() bool {
	return a != nil && a.Status == StatusCompleted
}
