// Package domain re-exports the persisted models so callers outside the data layer can depend on
// one import.
package domain

import (
	"github.com/yungbote/lifewheel-backend/internal/domain/actionplan"
	"github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/domain/catalog"
	"github.com/yungbote/lifewheel-backend/internal/domain/user"
)

type (
	User = user.User

	LifeArea    = catalog.LifeArea
	Subcategory = catalog.Subcategory
	Question    = catalog.Question

	Assessment       = assessment.Assessment
	AssessmentStatus = assessment.Status
	Response         = assessment.Response
	SubcategoryScore = assessment.SubcategoryScore
	AreaScore        = assessment.AreaScore

	ActionPlan        = actionplan.ActionPlan
	Action            = actionplan.Action
	ActionStatus      = actionplan.ActionStatus
	ContributionPoint = actionplan.ContributionPoint
)

const (
	AssessmentInProgress = assessment.StatusInProgress
	AssessmentCompleted  = assessment.StatusCompleted

	DefaultAssessmentTitle = assessment.DefaultTitle
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&catalog.LifeArea{},
		&catalog.Subcategory{},
		&catalog.Question{},
		&assessment.Assessment{},
		&assessment.Response{},
		&assessment.SubcategoryScore{},
		&assessment.AreaScore{},
		&actionplan.ActionPlan{},
		&actionplan.Action{},
		&actionplan.ContributionPoint{},
	}
}

func NormalizeEmail(email string) string { return user.NormalizeEmail(email) }
