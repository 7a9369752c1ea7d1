package actionplan

import (
	"time"

	"github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/domain/catalog"
	"gorm.io/datatypes"
)

// RequiredPointsTotal is what a plan's contribution points must add up to.
const RequiredPointsTotal = 100

type ActionStatus string

const (
	ActionPlanned    ActionStatus = "planned"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionCancelled  ActionStatus = "cancelled"
)

func (s ActionStatus) Valid() bool {
	switch s {
	case ActionPlanned, ActionInProgress, ActionCompleted, ActionCancelled:
		return true
	}
	return false
}

// ActionPlan belongs to a completed assessment; one per assessment.
type ActionPlan struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	AssessmentID uint                   `gorm:"not null;uniqueIndex:uq_action_plan_assessment" json:"assessment_id"`
	Assessment   *assessment.Assessment `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FocusAreaID  uint                   `gorm:"not null;index" json:"focus_area_id"`
	FocusArea    *catalog.LifeArea      `gorm:"foreignKey:FocusAreaID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt    time.Time              `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"not null" json:"updated_at"`
}

func (ActionPlan) TableName() string { return "action_plans" }

type Action struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ActionPlanID uint           `gorm:"not null;index:idx_action_plan" json:"action_plan_id"`
	ActionPlan   *ActionPlan    `gorm:"foreignKey:ActionPlanID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ActionText   string         `gorm:"type:text;not null" json:"action_text"`
	StrategyText string         `gorm:"type:text;not null" json:"strategy_text"`
	TargetDate   *datatypes.Date `json:"target_date"`
	Status       ActionStatus   `gorm:"size:20;not null;default:planned;check:chk_action_status,status IN ('planned','in_progress','completed','cancelled')" json:"status"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Action) TableName() string { return "actions" }

type ContributionPoint struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	ActionPlanID uint              `gorm:"not null;uniqueIndex:uq_plan_area_contribution,priority:1" json:"action_plan_id"`
	ActionPlan   *ActionPlan       `gorm:"foreignKey:ActionPlanID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	LifeAreaID   uint              `gorm:"not null;uniqueIndex:uq_plan_area_contribution,priority:2" json:"life_area_id"`
	LifeArea     *catalog.LifeArea `gorm:"foreignKey:LifeAreaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Points       int               `gorm:"column:contribution_points;not null;default:0;check:chk_contribution_points_range,contribution_points >= 0 AND contribution_points <= 100" json:"points"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}

func (ContributionPoint) TableName() string { return "action_contribution_points" }

// SumPoints totals a set of contribution points.
func SumPoints(points []ContributionPoint) int {
	total := 0
	for _, p := range points {
		total += p.Points
	}
	return total
}
