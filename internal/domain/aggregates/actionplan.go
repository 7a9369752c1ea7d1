package aggregates

import (
	"context"

	"github.com/yungbote/lifewheel-backend/internal/domain/actionplan"
)

var ActionPlanAggregateContract = Contract{
	Name:             "ActionPlan.ActionPlanAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns plan, contribution point and action consistency, including the 100 point total.",
	Tables:           []string{
		actionplan.ActionPlan{}.TableName(),
		actionplan.ContributionPoint{}.TableName(),
		actionplan.Action{}.TableName(),
	},
}

// ActionPlanAggregate owns the one-plan-per-completed-assessment rule and the contribution total.
type ActionPlanAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateActionPlanInput) (actionplan.ActionPlan, error)

	// Update replaces each collection whose pointer is non-nil; nil leaves it untouched.
	Update(ctx context.Context, in UpdateActionPlanInput) (actionplan.ActionPlan, error)

	// Delete removes the plan with its actions and contribution points.
	Delete(ctx context.Context, in DeleteActionPlanInput) (uint, error)
}

type ContributionPointInput struct {
	LifeAreaID uint
	Points     int
}

// ActionInput.TargetDate is empty or YYYY-MM-DD. Status defaults to planned.
type ActionInput struct {
	ActionText   string
	StrategyText string
	TargetDate   string
	Status       string
}

type CreateActionPlanInput struct {
	UserID             uint
	AssessmentID       uint
	FocusAreaID        uint
	ContributionPoints []ContributionPointInput
	Actions            []ActionInput
}

type UpdateActionPlanInput struct {
	UserID             uint
	AssessmentID       uint
	FocusAreaID        *uint
	ContributionPoints *[]ContributionPointInput
	Actions            *[]ActionInput
}

type DeleteActionPlanInput struct {
	UserID       uint
	AssessmentID uint
}
