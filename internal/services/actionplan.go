package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

type ActionPlanService interface {
	Get(ctx context.Context, assessmentID uint) (*ActionPlanView, error)
	Create(ctx context.Context, in domainagg.CreateActionPlanInput) (*types.ActionPlan, error)
	Update(ctx context.Context, in domainagg.UpdateActionPlanInput) (*types.ActionPlan, error)
	Delete(ctx context.Context, assessmentID uint) (uint, error)
}

type ActionPlanView struct {
	Plan               *types.ActionPlan
	FocusAreaName      string
	Actions            []*types.Action
	ContributionPoints []*types.ContributionPoint
}

type ActionPlanServiceDeps struct {
	Log                *logger.Logger
	Aggregate          domainagg.ActionPlanAggregate
	Assessments        repos.AssessmentRepo
	LifeAreas          repos.LifeAreaRepo
	Plans              repos.ActionPlanRepo
	Actions            repos.ActionRepo
	ContributionPoints repos.ContributionPointRepo
}

type actionPlanService struct {
	log  *logger.Logger
	deps ActionPlanServiceDeps
}

func NewActionPlanService(deps ActionPlanServiceDeps) ActionPlanService {
	return &actionPlanService{log: deps.Log.With("service", "ActionPlanService"), deps: deps}
}

func (s *actionPlanService) Get(ctx context.Context, assessmentID uint) (*ActionPlanView, error) {
	const op = "ActionPlan.Get"
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	a, err := s.deps.Assessments.GetOwned(dbc, userID, assessmentID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if a == nil {
		return nil, assessmentNotFound(op)
	}
	plan, err := s.deps.Plans.GetByAssessment(dbc, assessmentID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if plan == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "action plan not found", nil)
	}

	out := &ActionPlanView{Plan: plan}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		area, err := s.deps.LifeAreas.GetByID(dbctx.Context{Ctx: gctx}, plan.FocusAreaID)
		if area != nil {
			out.FocusAreaName = area.Name
		}
		return err
	})
	g.Go(func() error {
		var err error
		out.Actions, err = s.deps.Actions.ListByPlan(dbctx.Context{Ctx: gctx}, plan.ID)
		return err
	})
	g.Go(func() error {
		var err error
		out.ContributionPoints, err = s.deps.ContributionPoints.ListByPlan(dbctx.Context{Ctx: gctx}, plan.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (s *actionPlanService) Create(ctx context.Context, in domainagg.CreateActionPlanInput) (*types.ActionPlan, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in.UserID = userID
	plan, err := s.deps.Aggregate.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("Action plan created", "assessment_id", in.AssessmentID, "action_plan_id", plan.ID)
	return &plan, nil
}

func (s *actionPlanService) Update(ctx context.Context, in domainagg.UpdateActionPlanInput) (*types.ActionPlan, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in.UserID = userID
	plan, err := s.deps.Aggregate.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *actionPlanService) Delete(ctx context.Context, assessmentID uint) (uint, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return 0, err
	}
	id, err := s.deps.Aggregate.Delete(ctx, domainagg.DeleteActionPlanInput{UserID: userID, AssessmentID: assessmentID})
	if err != nil {
		return 0, err
	}
	s.log.Info("Action plan deleted", "assessment_id", assessmentID, "action_plan_id", id)
	return id, nil
}
