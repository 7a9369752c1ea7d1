package actionplan

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestActionPlanRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	plans := NewActionPlanRepo(db, log)
	actions := NewActionRepo(db, log)
	points := NewContributionPointRepo(db, log)

	u := testutil.SeedUser(t, ctx, tx, "")
	health := testutil.SeedLifeArea(t, ctx, tx, "Health", 1)
	career := testutil.SeedLifeArea(t, ctx, tx, "Career", 2)
	a := testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentCompleted)

	plan, err := plans.Create(dbc, &types.ActionPlan{AssessmentID: a.ID, FocusAreaID: health.ID})
	if err != nil {
		t.Fatalf("Create plan: %v", err)
	}

	target := datatypes.Date(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	created, err := actions.Create(dbc, []*types.Action{
		{ActionPlanID: plan.ID, ActionText: "Walk", StrategyText: "Every morning", TargetDate: &target},
		{ActionPlanID: plan.ID, ActionText: "Read", StrategyText: "Before bed", Status: types.ActionStatus("in_progress")},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create actions: %+v %v", created, err)
	}
	if _, err := points.Create(dbc, []*types.ContributionPoint{
		{ActionPlanID: plan.ID, LifeAreaID: health.ID, Points: 70},
		{ActionPlanID: plan.ID, LifeAreaID: career.ID, Points: 30},
	}); err != nil {
		t.Fatalf("Create points: %v", err)
	}

	got, err := plans.GetByAssessment(dbc, a.ID)
	if err != nil || got == nil || got.ID != plan.ID {
		t.Fatalf("GetByAssessment: %+v %v", got, err)
	}

	listed, err := actions.ListByPlan(dbc, plan.ID)
	if err != nil || len(listed) != 2 {
		t.Fatalf("ListByPlan actions: %+v %v", listed, err)
	}
	if listed[0].Status != "planned" {
		t.Fatalf("expected default status planned, got %q", listed[0].Status)
	}
	if listed[0].TargetDate == nil {
		t.Fatalf("target date not persisted")
	}

	pts, err := points.ListByPlan(dbc, plan.ID)
	if err != nil || len(pts) != 2 {
		t.Fatalf("ListByPlan points: %+v %v", pts, err)
	}
	total := 0
	for _, p := range pts {
		total += p.Points
	}
	if total != 100 {
		t.Fatalf("expected points to total 100, got %d", total)
	}

	if err := plans.UpdateFocusArea(dbc, plan.ID, career.ID); err != nil {
		t.Fatalf("UpdateFocusArea: %v", err)
	}
	got, _ = plans.GetByAssessment(dbc, a.ID)
	if got.FocusAreaID != career.ID {
		t.Fatalf("focus area not updated: %+v", got)
	}

	if err := actions.DeleteByPlan(dbc, plan.ID); err != nil {
		t.Fatalf("DeleteByPlan actions: %v", err)
	}
	if err := points.DeleteByPlan(dbc, plan.ID); err != nil {
		t.Fatalf("DeleteByPlan points: %v", err)
	}
	if err := plans.Delete(dbc, plan.ID); err != nil {
		t.Fatalf("Delete plan: %v", err)
	}
	got, err = plans.GetByAssessment(dbc, a.ID)
	if err != nil || got != nil {
		t.Fatalf("expected plan gone, got %+v %v", got, err)
	}
}

func TestActionPlanRepoOnePlanPerAssessment(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	plans := NewActionPlanRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "")
	area := testutil.SeedLifeArea(t, ctx, tx, "Health", 1)
	a := testutil.SeedAssessment(t, ctx, tx, u.ID, types.AssessmentCompleted)

	if _, err := plans.Create(dbc, &types.ActionPlan{AssessmentID: a.ID, FocusAreaID: area.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := tx.Transaction(func(inner *gorm.DB) error {
		_, err := plans.Create(dbctx.Context{Ctx: ctx, Tx: inner}, &types.ActionPlan{AssessmentID: a.ID, FocusAreaID: area.ID})
		return err
	})
	if err == nil {
		t.Fatalf("expected unique violation for a second plan on the same assessment")
	}
}
