package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/domain/actionplan"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/datatypes"
)

const targetDateLayout = "2006-01-02"

type ActionPlanAggregateDeps struct {
	Base BaseDeps

	Assessments repos.AssessmentRepo
	LifeAreas   repos.LifeAreaRepo
	Plans       repos.ActionPlanRepo
	Actions     repos.ActionRepo
	Points      repos.ContributionPointRepo
}

type actionPlanAggregate struct {
	deps ActionPlanAggregateDeps
}

func NewActionPlanAggregate(deps ActionPlanAggregateDeps) domainagg.ActionPlanAggregate {
	deps.Base = deps.Base.withDefaults()
	return &actionPlanAggregate{deps: deps}
}

func (a *actionPlanAggregate) Contract() domainagg.Contract {
	return domainagg.ActionPlanAggregateContract
}

func (a *actionPlanAggregate) configured() bool {
	return a.deps.Assessments != nil && a.deps.LifeAreas != nil && a.deps.Plans != nil &&
		a.deps.Actions != nil && a.deps.Points != nil
}

func (a *actionPlanAggregate) Create(ctx context.Context, in domainagg.CreateActionPlanInput) (actionplan.ActionPlan, error) {
	const op = "ActionPlan.Create"
	var out actionplan.ActionPlan
	if in.UserID == 0 || in.AssessmentID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if in.FocusAreaID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "focus_area_id is required", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "action plan repos not configured", nil)
	}
	log := a.deps.Base.Log.With("op", op, "assessment_id", in.AssessmentID)
	actions, err := buildActions(op, log, in.Actions)
	if err != nil {
		return out, err
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		owned, err := a.deps.Assessments.GetOwned(dbc, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if owned == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}
		if !owned.IsCompleted() {
			return PreconditionError("assessment must be completed before creating an action plan")
		}
		existing, err := a.deps.Plans.GetByAssessment(dbc, owned.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeConflict, op, "action plan already exists for this assessment", nil),
				map[string]any{"existing_plan_id": existing.ID},
			)
		}
		if err := a.requireFocusArea(dbc, op, in.FocusAreaID); err != nil {
			return err
		}
		// Point checks run after the ownership and state checks.
		areaIDs, err := checkContributionPoints(op, in.ContributionPoints)
		if err != nil {
			return err
		}
		if err := a.requireAreas(dbc, op, areaIDs); err != nil {
			return err
		}

		plan := &types.ActionPlan{AssessmentID: owned.ID, FocusAreaID: in.FocusAreaID}
		if _, err := a.deps.Plans.Create(dbc, plan); err != nil {
			if isUniqueViolation(err) {
				// Lost the race against a concurrent create for the same assessment.
				return domainagg.NewError(domainagg.CodeConflict, op, "action plan already exists for this assessment", err)
			}
			return err
		}
		if err := a.insertChildren(dbc, plan.ID, in.ContributionPoints, actions); err != nil {
			return err
		}
		out = *plan
		return nil
	})
	return out, err
}

func (a *actionPlanAggregate) Update(ctx context.Context, in domainagg.UpdateActionPlanInput) (actionplan.ActionPlan, error) {
	const op = "ActionPlan.Update"
	var out actionplan.ActionPlan
	if in.UserID == 0 || in.AssessmentID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if in.FocusAreaID != nil && *in.FocusAreaID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "focus_area_id must be positive", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "action plan repos not configured", nil)
	}
	var (
		points  []domainagg.ContributionPointInput
		actions []*types.Action
		err     error
	)
	if in.ContributionPoints != nil {
		points = *in.ContributionPoints
	}
	log := a.deps.Base.Log.With("op", op, "assessment_id", in.AssessmentID)
	if in.Actions != nil {
		if actions, err = buildActions(op, log, *in.Actions); err != nil {
			return out, err
		}
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		plan, err := a.ownedPlan(dbc, op, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if in.FocusAreaID != nil {
			if err := a.requireFocusArea(dbc, op, *in.FocusAreaID); err != nil {
				return err
			}
			if err := a.deps.Plans.UpdateFocusArea(dbc, plan.ID, *in.FocusAreaID); err != nil {
				return err
			}
			plan.FocusAreaID = *in.FocusAreaID
		}
		if in.ContributionPoints != nil {
			areaIDs, err := checkContributionPoints(op, points)
			if err != nil {
				return err
			}
			if err := a.requireAreas(dbc, op, areaIDs); err != nil {
				return err
			}
			if err := a.deps.Points.DeleteByPlan(dbc, plan.ID); err != nil {
				return err
			}
		}
		if in.Actions != nil {
			if err := a.deps.Actions.DeleteByPlan(dbc, plan.ID); err != nil {
				return err
			}
		}
		if err := a.insertChildren(dbc, plan.ID, points, actions); err != nil {
			return err
		}
		if err := a.deps.Plans.Touch(dbc, plan.ID); err != nil {
			return err
		}
		out = *plan
		return nil
	})
	return out, err
}

func (a *actionPlanAggregate) Delete(ctx context.Context, in domainagg.DeleteActionPlanInput) (uint, error) {
	const op = "ActionPlan.Delete"
	if in.UserID == 0 || in.AssessmentID == 0 {
		return 0, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if !a.configured() {
		return 0, domainagg.NewError(domainagg.CodeInternal, op, "action plan repos not configured", nil)
	}
	var deleted uint
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		plan, err := a.ownedPlan(dbc, op, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if err := a.deps.Actions.DeleteByPlan(dbc, plan.ID); err != nil {
			return err
		}
		if err := a.deps.Points.DeleteByPlan(dbc, plan.ID); err != nil {
			return err
		}
		if err := a.deps.Plans.Delete(dbc, plan.ID); err != nil {
			return err
		}
		deleted = plan.ID
		return nil
	})
	return deleted, err
}

func (a *actionPlanAggregate) ownedPlan(dbc dbctx.Context, op string, userID, assessmentID uint) (*types.ActionPlan, error) {
	owned, err := a.deps.Assessments.GetOwned(dbc, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	if owned == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
	}
	plan, err := a.deps.Plans.GetByAssessment(dbc, owned.ID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "action plan not found", nil)
	}
	return plan, nil
}

func (a *actionPlanAggregate) requireFocusArea(dbc dbctx.Context, op string, id uint) error {
	area, err := a.deps.LifeAreas.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if area == nil {
		return domainagg.WithDetails(
			domainagg.NewError(domainagg.CodeValidation, op, "focus area not found", nil),
			map[string]any{"focus_area_id": "does not exist"},
		)
	}
	return nil
}

// requireAreas compares the number of matching rows with the number requested rather than
// trusting the caller's ids.
func (a *actionPlanAggregate) requireAreas(dbc dbctx.Context, op string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := a.deps.LifeAreas.CountByIDs(dbc, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return domainagg.WithDetails(
			domainagg.NewError(domainagg.CodeValidation, op, "one or more life areas do not exist", nil),
			map[string]any{"contribution_points": "unknown life_area_id"},
		)
	}
	return nil
}

func (a *actionPlanAggregate) insertChildren(dbc dbctx.Context, planID uint, points []domainagg.ContributionPointInput, actions []*types.Action) error {
	if len(points) > 0 {
		rows := make([]*types.ContributionPoint, 0, len(points))
		for _, p := range points {
			rows = append(rows, &types.ContributionPoint{ActionPlanID: planID, LifeAreaID: p.LifeAreaID, Points: p.Points})
		}
		if _, err := a.deps.Points.Create(dbc, rows); err != nil {
			return err
		}
	}
	if len(actions) > 0 {
		for _, act := range actions {
			act.ActionPlanID = planID
		}
		if _, err := a.deps.Actions.Create(dbc, actions); err != nil {
			return err
		}
	}
	return nil
}

// checkContributionPoints validates a point set without touching storage and returns its area ids.
// An empty set is allowed; a non-empty one must total exactly 100.
func checkContributionPoints(op string, points []domainagg.ContributionPointInput) ([]uint, error) {
	if len(points) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(points))
	seen := make(map[uint]bool, len(points))
	total := 0
	for i, p := range points {
		field := fmt.Sprintf("contribution_points[%d]", i)
		if p.LifeAreaID == 0 {
			return nil, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeValidation, op, "life_area_id is required", nil),
				map[string]any{field + ".life_area_id": "is required"},
			)
		}
		if p.Points < 0 || p.Points > actionplan.RequiredPointsTotal {
			return nil, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeValidation, op, "points must be between 0 and 100", nil),
				map[string]any{field + ".points": "out of range"},
			)
		}
		if seen[p.LifeAreaID] {
			return nil, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeValidation, op, "duplicate life_area_id in contribution points", nil),
				map[string]any{field + ".life_area_id": "duplicate"},
			)
		}
		seen[p.LifeAreaID] = true
		ids = append(ids, p.LifeAreaID)
		total += p.Points
	}
	if total != actionplan.RequiredPointsTotal {
		return nil, domainagg.WithDetails(
			domainagg.NewError(domainagg.CodeInvariantViolation, op, fmt.Sprintf("contribution points must total %d", actionplan.RequiredPointsTotal), nil),
			map[string]any{"total": total},
		)
	}
	return ids, nil
}

// buildActions drops actions missing their text and rejects the batch on a malformed date or status.
func buildActions(op string, log *logger.Logger, inputs []domainagg.ActionInput) ([]*types.Action, error) {
	out := make([]*types.Action, 0, len(inputs))
	for i, in := range inputs {
		text := strings.TrimSpace(in.ActionText)
		strategy := strings.TrimSpace(in.StrategyText)
		if text == "" || strategy == "" {
			log.Warn("action dropped: missing action_text or strategy_text", "index", i)
			continue
		}
		status := actionplan.ActionStatus(strings.TrimSpace(in.Status))
		if status == "" {
			status = actionplan.ActionPlanned
		}
		if !status.Valid() {
			return nil, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeValidation, op, "invalid action status", nil),
				map[string]any{fmt.Sprintf("actions[%d].status", i): "must be one of planned in_progress completed cancelled"},
			)
		}
		act := &types.Action{ActionText: text, StrategyText: strategy, Status: status}
		if raw := strings.TrimSpace(in.TargetDate); raw != "" {
			t, err := time.Parse(targetDateLayout, raw)
			if err != nil {
				return nil, domainagg.WithDetails(
					domainagg.NewError(domainagg.CodeValidation, op, "invalid target_date format, expected YYYY-MM-DD", err),
					map[string]any{fmt.Sprintf("actions[%d].target_date", i): "must be YYYY-MM-DD"},
				)
			}
			d := datatypes.Date(t)
			act.TargetDate = &d
		}
		out = append(out, act)
	}
	return out, nil
}
