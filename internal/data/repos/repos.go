package repos

import (
	"github.com/yungbote/lifewheel-backend/internal/data/repos/actionplan"
	"github.com/yungbote/lifewheel-backend/internal/data/repos/assessment"
	"github.com/yungbote/lifewheel-backend/internal/data/repos/catalog"
	"github.com/yungbote/lifewheel-backend/internal/data/repos/user"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type LifeAreaRepo = catalog.LifeAreaRepo
type SubcategoryRepo = catalog.SubcategoryRepo
type QuestionRepo = catalog.QuestionRepo

type AssessmentRepo = assessment.AssessmentRepo
type ResponseRepo = assessment.ResponseRepo
type ScoreRepo = assessment.ScoreRepo

type ActionPlanRepo = actionplan.ActionPlanRepo
type ActionRepo = actionplan.ActionRepo
type ContributionPointRepo = actionplan.ContributionPointRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewLifeAreaRepo(db *gorm.DB, baseLog *logger.Logger) LifeAreaRepo {
	return catalog.NewLifeAreaRepo(db, baseLog)
}
func NewSubcategoryRepo(db *gorm.DB, baseLog *logger.Logger) SubcategoryRepo {
	return catalog.NewSubcategoryRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, baseLog)
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return assessment.NewAssessmentRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return assessment.NewResponseRepo(db, baseLog)
}
func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return assessment.NewScoreRepo(db, baseLog)
}

func NewActionPlanRepo(db *gorm.DB, baseLog *logger.Logger) ActionPlanRepo {
	return actionplan.NewActionPlanRepo(db, baseLog)
}
func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	return actionplan.NewActionRepo(db, baseLog)
}
func NewContributionPointRepo(db *gorm.DB, baseLog *logger.Logger) ContributionPointRepo {
	return actionplan.NewContributionPointRepo(db, baseLog)
}

// Set bundles every repository over one root handle.
type Set struct {
	Users              UserRepo
	LifeAreas          LifeAreaRepo
	Subcategories      SubcategoryRepo
	Questions          QuestionRepo
	Assessments        AssessmentRepo
	Responses          ResponseRepo
	Scores             ScoreRepo
	ActionPlans        ActionPlanRepo
	Actions            ActionRepo
	ContributionPoints ContributionPointRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:              NewUserRepo(db, baseLog),
		LifeAreas:          NewLifeAreaRepo(db, baseLog),
		Subcategories:      NewSubcategoryRepo(db, baseLog),
		Questions:          NewQuestionRepo(db, baseLog),
		Assessments:        NewAssessmentRepo(db, baseLog),
		Responses:          NewResponseRepo(db, baseLog),
		Scores:             NewScoreRepo(db, baseLog),
		ActionPlans:        NewActionPlanRepo(db, baseLog),
		Actions:            NewActionRepo(db, baseLog),
		ContributionPoints: NewContributionPointRepo(db, baseLog),
	}
}
