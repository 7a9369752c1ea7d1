package catalog

// LifeArea, Subcategory and Question are static reference data. They are written only by the
// seed command and read at request time ordered by their display order fields.

type LifeArea struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null;uniqueIndex:uq_life_areas_name" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	Color        string `gorm:"size:7" json:"color"`
	Icon         string `gorm:"size:50" json:"icon"`
	DisplayOrder int    `gorm:"not null;default:0;index:idx_life_area_order" json:"display_order"`
}

func (LifeArea) TableName() string { return "life_areas" }

type Subcategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LifeAreaID   uint      `gorm:"not null;index:idx_subcategory_area_order,priority:1;uniqueIndex:uq_subcategory_area_name,priority:1" json:"life_area_id"`
	LifeArea     *LifeArea `gorm:"foreignKey:LifeAreaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string    `gorm:"size:100;not null;uniqueIndex:uq_subcategory_area_name,priority:2" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0;index:idx_subcategory_area_order,priority:2" json:"display_order"`
}

func (Subcategory) TableName() string { return "subcategories" }

type Question struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SubcategoryID uint         `gorm:"not null;index:idx_question_subcategory_order,priority:1;uniqueIndex:uq_question_subcategory_order,priority:1" json:"subcategory_id"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	QuestionText  string       `gorm:"type:text;not null" json:"question_text"`
	QuestionOrder int          `gorm:"not null;default:0;index:idx_question_subcategory_order,priority:2;uniqueIndex:uq_question_subcategory_order,priority:2" json:"question_order"`
}

func (Question) TableName() string { return "questions" }
