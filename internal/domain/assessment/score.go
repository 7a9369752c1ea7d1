package assessment

import (
	"time"

	"github.com/yungbote/lifewheel-backend/internal/domain/catalog"
)

// SubcategoryScore and AreaScore are derived rows, overwritten by every scoring run.
// AverageScore is stored at one decimal, Percentage at two.

type SubcategoryScore struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	AssessmentID  uint                 `gorm:"not null;uniqueIndex:uq_assessment_subcategory,priority:1;index:idx_subcategory_score_assessment" json:"assessment_id"`
	Assessment    *Assessment          `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SubcategoryID uint                 `gorm:"not null;uniqueIndex:uq_assessment_subcategory,priority:2" json:"subcategory_id"`
	Subcategory   *catalog.Subcategory `gorm:"foreignKey:SubcategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AverageScore  float64              `gorm:"type:numeric(3,1);not null" json:"average_score"`
	Percentage    float64              `gorm:"type:numeric(5,2);not null" json:"percentage"`
	CalculatedAt  time.Time            `gorm:"not null" json:"calculated_at"`
}

func (SubcategoryScore) TableName() string { return "subcategory_scores" }

type AreaScore struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssessmentID uint              `gorm:"not null;uniqueIndex:uq_assessment_area,priority:1;index:idx_area_score_assessment" json:"assessment_id"`
	Assessment   *Assessment       `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	LifeAreaID   uint              `gorm:"not null;uniqueIndex:uq_assessment_area,priority:2" json:"life_area_id"`
	LifeArea     *catalog.LifeArea `gorm:"foreignKey:LifeAreaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AverageScore float64           `gorm:"type:numeric(3,1);not null" json:"average_score"`
	Percentage   float64           `gorm:"type:numeric(5,2);not null" json:"percentage"`
	CalculatedAt time.Time         `gorm:"not null" json:"calculated_at"`
}

func (AreaScore) TableName() string { return "area_scores" }

// AreaScoreView is an area score joined to its life area for display.
type AreaScoreView struct {
	AssessmentID uint    `json:"-"`
	LifeAreaID   uint    `json:"life_area_id"`
	LifeAreaName string  `json:"life_area_name"`
	Color        string  `json:"color"`
	DisplayOrder int     `json:"-"`
	AverageScore float64 `json:"average_score"`
	Percentage   float64 `json:"percentage"`
}

// SubcategoryScoreView is a subcategory score joined to its subcategory and life area.
type SubcategoryScoreView struct {
	SubcategoryID   uint    `json:"subcategory_id"`
	SubcategoryName string  `json:"subcategory_name"`
	LifeAreaID      uint    `json:"life_area_id"`
	LifeAreaName    string  `json:"life_area_name"`
	AverageScore    float64 `json:"average_score"`
	Percentage      float64 `json:"percentage"`
}
