package aggregates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	aggtestutil "github.com/yungbote/lifewheel-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	"github.com/yungbote/lifewheel-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/pkg/pointers"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

type fixture struct {
	ctx   context.Context
	tx    *gorm.DB
	dbc   dbctx.Context
	repos repos.Set
	base  aggregates.BaseDeps
	hooks *aggtestutil.Recorder
}

// newFixture runs every aggregate transaction as a savepoint inside the test transaction, so
// nothing outlives the test.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	hooks := &aggtestutil.Recorder{}
	return &fixture{
		ctx:   ctx,
		tx:    tx,
		dbc:   dbctx.Context{Ctx: ctx, Tx: tx},
		repos: repos.NewSet(tx, log),
		base: aggregates.BaseDeps{
			DB:     tx,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(tx),
			Hooks:  hooks,
		},
		hooks: hooks,
	}
}

func (f *fixture) assessmentAgg(base aggregates.BaseDeps) domainagg.AssessmentAggregate {
	return aggregates.NewAssessmentAggregate(aggregates.AssessmentAggregateDeps{
		Base:          base,
		Assessments:   f.repos.Assessments,
		Responses:     f.repos.Responses,
		Scores:        f.repos.Scores,
		Questions:     f.repos.Questions,
		Subcategories: f.repos.Subcategories,
		LifeAreas:     f.repos.LifeAreas,
	})
}


func TestCalculateScoresWorkedExample(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	area := testutil.SeedLifeArea(t, f.ctx, f.tx, "Health", 1)
	subA := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Sleep", 1)
	subB := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Exercise", 2)
	qa1 := testutil.SeedQuestion(t, f.ctx, f.tx, subA.ID, 1)
	qa2 := testutil.SeedQuestion(t, f.ctx, f.tx, subA.ID, 2)
	qb1 := testutil.SeedQuestion(t, f.ctx, f.tx, subB.ID, 1)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	if _, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{
		UserID:       u.ID,
		AssessmentID: a.ID,
		Entries: []domainagg.ResponseEntry{
			{QuestionID: qa1.ID, Score: pointers.Int(8)},
			{QuestionID: qa2.ID, Score: pointers.Int(10)},
			{QuestionID: qb1.ID, Score: pointers.Int(5)},
		},
	}); err != nil {
		t.Fatalf("RecordResponses: %v", err)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: u.ID, AssessmentID: a.ID, CalculatedAt: at})
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	if res.Assessment.Status != types.AssessmentCompleted || res.Assessment.CompletedAt == nil {
		t.Fatalf("assessment not completed: %+v", res.Assessment)
	}

	subAvg := map[uint]float64{}
	for _, s := range res.Subcategories {
		subAvg[s.SubcategoryID] = s.DisplayAverage()
		if s.DisplayPercentage() != s.DisplayAverage()*10 {
			t.Fatalf("percentage mismatch for subcategory %d: %+v", s.SubcategoryID, s)
		}
	}
	if subAvg[subA.ID] != 9.0 || subAvg[subB.ID] != 5.0 {
		t.Fatalf("unexpected subcategory averages: %+v", subAvg)
	}

	found := false
	for _, ar := range res.Areas {
		if ar.LifeAreaID != area.ID {
			continue
		}
		found = true
		if ar.DisplayAverage() != 7.0 || ar.DisplayPercentage() != 70.0 {
			t.Fatalf("area score: want 7.0/70 got %v/%v", ar.DisplayAverage(), ar.DisplayPercentage())
		}
	}
	if !found {
		t.Fatalf("area result missing: %+v", res.Areas)
	}

	stored, err := f.repos.Scores.ListAreaScores(f.dbc, a.ID)
	if err != nil || len(stored) != 1 {
		t.Fatalf("ListAreaScores: %+v %v", stored, err)
	}
	if stored[0].AverageScore != 7.0 || stored[0].Percentage != 70.0 {
		t.Fatalf("stored area score: %+v", stored[0])
	}

	reloaded, err := f.repos.Assessments.GetOwned(f.dbc, u.ID, a.ID)
	if err != nil || reloaded == nil || reloaded.Status != types.AssessmentCompleted {
		t.Fatalf("stored assessment not completed: %+v %v", reloaded, err)
	}
	if statuses := f.hooks.Statuses("Assessment.CalculateScores"); len(statuses) != 1 || statuses[0] != "success" {
		t.Fatalf("unexpected hook statuses: %+v", statuses)
	}
}

func TestCalculateScoresWeightsSubcategoriesEqually(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	area := testutil.SeedLifeArea(t, f.ctx, f.tx, "Career", 1)
	one := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Purpose", 1)
	five := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Growth", 2)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	entries := []domainagg.ResponseEntry{{QuestionID: testutil.SeedQuestion(t, f.ctx, f.tx, one.ID, 1).ID, Score: pointers.Int(10)}}
	for i := 1; i <= 5; i++ {
		q := testutil.SeedQuestion(t, f.ctx, f.tx, five.ID, i)
		entries = append(entries, domainagg.ResponseEntry{QuestionID: q.ID, Score: pointers.Int(2)})
	}
	if _, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{UserID: u.ID, AssessmentID: a.ID, Entries: entries}); err != nil {
		t.Fatalf("RecordResponses: %v", err)
	}

	res, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: u.ID, AssessmentID: a.ID})
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	if len(res.Areas) != 1 {
		t.Fatalf("expected one area result, got %+v", res.Areas)
	}
	// (10 + 2) / 2, not the response mean 20 / 6.
	if got := res.Areas[0].DisplayAverage(); got != 6.0 {
		t.Fatalf("area average: want 6.0 got %v", got)
	}
}

func TestCalculateScoresOmitsUnansweredAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	answered := testutil.SeedLifeArea(t, f.ctx, f.tx, "Finance", 1)
	silent := testutil.SeedLifeArea(t, f.ctx, f.tx, "Fun", 2)
	subAnswered := testutil.SeedSubcategory(t, f.ctx, f.tx, answered.ID, "Savings", 1)
	subEmpty := testutil.SeedSubcategory(t, f.ctx, f.tx, answered.ID, "Debt", 2)
	subSilent := testutil.SeedSubcategory(t, f.ctx, f.tx, silent.ID, "Hobbies", 1)
	q := testutil.SeedQuestion(t, f.ctx, f.tx, subAnswered.ID, 1)
	testutil.SeedQuestion(t, f.ctx, f.tx, subEmpty.ID, 1)
	testutil.SeedQuestion(t, f.ctx, f.tx, subSilent.ID, 1)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)
	testutil.SeedResponse(t, f.ctx, f.tx, a.ID, q.ID, 7)

	first, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: u.ID, AssessmentID: a.ID})
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	if len(first.Subcategories) != 1 || first.Subcategories[0].SubcategoryID != subAnswered.ID {
		t.Fatalf("unanswered subcategories should be absent: %+v", first.Subcategories)
	}
	if len(first.Areas) != 1 || first.Areas[0].LifeAreaID != answered.ID {
		t.Fatalf("unanswered areas should be absent: %+v", first.Areas)
	}

	before, err := f.repos.Scores.ListSubcategoryScores(f.dbc, a.ID)
	if err != nil {
		t.Fatalf("ListSubcategoryScores: %v", err)
	}
	if _, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: u.ID, AssessmentID: a.ID}); err != nil {
		t.Fatalf("CalculateScores rerun: %v", err)
	}
	after, err := f.repos.Scores.ListSubcategoryScores(f.dbc, a.ID)
	if err != nil {
		t.Fatalf("ListSubcategoryScores: %v", err)
	}
	if len(before) != 1 || len(after) != 1 {
		t.Fatalf("expected exactly one stored subcategory row, before=%d after=%d", len(before), len(after))
	}
	if before[0].ID != after[0].ID || before[0].AverageScore != after[0].AverageScore || before[0].Percentage != after[0].Percentage {
		t.Fatalf("rerun changed stored scores: before=%+v after=%+v", before[0], after[0])
	}
	areas, err := f.repos.Scores.ListAreaScores(f.dbc, a.ID)
	if err != nil || len(areas) != 1 {
		t.Fatalf("expected one stored area row, got %+v %v", areas, err)
	}
}

func TestCalculateScoresRejectsForeignAssessment(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	owner := testutil.SeedUser(t, f.ctx, f.tx, "")
	intruder := testutil.SeedUser(t, f.ctx, f.tx, "")
	a := testutil.SeedAssessment(t, f.ctx, f.tx, owner.ID, types.AssessmentInProgress)

	_, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: intruder.ID, AssessmentID: a.ID})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRecordResponsesSkipsInvalidEntries(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	area := testutil.SeedLifeArea(t, f.ctx, f.tx, "Health", 1)
	sub := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Sleep", 1)
	q := testutil.SeedQuestion(t, f.ctx, f.tx, sub.ID, 1)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	res, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{
		UserID:       u.ID,
		AssessmentID: a.ID,
		Entries: []domainagg.ResponseEntry{
			{QuestionID: q.ID, Score: pointers.Int(6)},
			{QuestionID: q.ID + 100000, Score: pointers.Int(4)},
			{QuestionID: q.ID, Score: nil},
		},
	})
	if err != nil {
		t.Fatalf("RecordResponses: %v", err)
	}
	if res.SavedCount != 1 {
		t.Fatalf("saved count: want 1 got %d", res.SavedCount)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected two skipped entries, got %+v", res.Skipped)
	}

	rows, err := f.repos.Responses.ListByAssessment(f.dbc, a.ID)
	if err != nil || len(rows) != 1 || rows[0].Score != 6 {
		t.Fatalf("stored responses: %+v %v", rows, err)
	}
}

func TestRecordResponsesCountsRepeatedQuestion(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	area := testutil.SeedLifeArea(t, f.ctx, f.tx, "Health", 1)
	sub := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Sleep", 1)
	q := testutil.SeedQuestion(t, f.ctx, f.tx, sub.ID, 1)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	res, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{
		UserID:       u.ID,
		AssessmentID: a.ID,
		Entries: []domainagg.ResponseEntry{
			{QuestionID: q.ID, Score: pointers.Int(3)},
			{QuestionID: q.ID, Score: pointers.Int(9)},
		},
	})
	if err != nil {
		t.Fatalf("RecordResponses: %v", err)
	}
	if res.SavedCount != 2 {
		t.Fatalf("saved count: want 2 got %d", res.SavedCount)
	}
	rows, err := f.repos.Responses.ListByAssessment(f.dbc, a.ID)
	if err != nil || len(rows) != 1 || rows[0].Score != 9 {
		t.Fatalf("stored responses: %+v %v", rows, err)
	}
}

func TestRecordResponsesRejectsOutOfRangeScore(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)

	_, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{
		UserID:       1,
		AssessmentID: 1,
		Entries:      []domainagg.ResponseEntry{{QuestionID: 1, Score: pointers.Int(11)}},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordResponsesRollsBackWholeBatch(t *testing.T) {
	f := newFixture(t)

	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	area := testutil.SeedLifeArea(t, f.ctx, f.tx, "Health", 1)
	sub := testutil.SeedSubcategory(t, f.ctx, f.tx, area.ID, "Sleep", 1)
	q1 := testutil.SeedQuestion(t, f.ctx, f.tx, sub.ID, 1)
	q2 := testutil.SeedQuestion(t, f.ctx, f.tx, sub.ID, 2)
	a := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	runner := &aggtestutil.FaultyRunner{
		Inner:     aggregates.NewGormTxRunner(f.tx),
		CommitErr: errors.New("commit failed"),
	}
	base := f.base
	base.Runner = runner
	agg := f.assessmentAgg(base)

	_, err := agg.RecordResponses(f.ctx, domainagg.RecordResponsesInput{
		UserID:       u.ID,
		AssessmentID: a.ID,
		Entries: []domainagg.ResponseEntry{
			{QuestionID: q1.ID, Score: pointers.Int(3)},
			{QuestionID: q2.ID, Score: pointers.Int(9)},
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if _, commits, rollbacks := runner.Counts(); rollbacks != 1 || commits != 0 {
		t.Fatalf("unexpected runner counters: commits=%d rollbacks=%d", commits, rollbacks)
	}
	rows, err := f.repos.Responses.ListByAssessment(f.dbc, a.ID)
	if err != nil || len(rows) != 0 {
		t.Fatalf("batch should have rolled back, found %+v %v", rows, err)
	}
}

func TestStartOrResume(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)
	u := testutil.SeedUser(t, f.ctx, f.tx, "")

	first, err := agg.StartOrResume(f.ctx, domainagg.StartOrResumeInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("StartOrResume: %v", err)
	}
	if first.Resumed || first.Assessment.Title != types.DefaultAssessmentTitle {
		t.Fatalf("expected a fresh assessment, got %+v", first)
	}

	second, err := agg.StartOrResume(f.ctx, domainagg.StartOrResumeInput{UserID: u.ID, Title: "ignored"})
	if err != nil {
		t.Fatalf("StartOrResume again: %v", err)
	}
	if !second.Resumed || second.Assessment.ID != first.Assessment.ID {
		t.Fatalf("expected to resume %d, got %+v", first.Assessment.ID, second)
	}

	if _, err := agg.CalculateScores(f.ctx, domainagg.CalculateScoresInput{UserID: u.ID, AssessmentID: first.Assessment.ID}); err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	third, err := agg.StartOrResume(f.ctx, domainagg.StartOrResumeInput{UserID: u.ID, Title: "Spring check-in"})
	if err != nil {
		t.Fatalf("StartOrResume after completion: %v", err)
	}
	if third.Resumed || third.Assessment.ID == first.Assessment.ID || third.Assessment.Title != "Spring check-in" {
		t.Fatalf("expected a new assessment after completion, got %+v", third)
	}
}

// blindAssessments hides the in_progress row from the first lookup, reproducing a concurrent
// creator that commits between our read and our insert.
type blindAssessments struct {
	repos.AssessmentRepo
	calls int
}

func (b *blindAssessments) GetInProgress(dbc dbctx.Context, userID uint) (*types.Assessment, error) {
	b.calls++
	if b.calls == 1 {
		return nil, nil
	}
	return b.AssessmentRepo.GetInProgress(dbc, userID)
}

func TestStartOrResumeResolvesConcurrentCreate(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	winner := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)

	agg := aggregates.NewAssessmentAggregate(aggregates.AssessmentAggregateDeps{
		Base:        f.base,
		Assessments: &blindAssessments{AssessmentRepo: f.repos.Assessments},
	})
	res, err := agg.StartOrResume(f.ctx, domainagg.StartOrResumeInput{UserID: u.ID})
	if err != nil {
		t.Fatalf("StartOrResume: %v", err)
	}
	if !res.Resumed || res.Assessment.ID != winner.ID {
		t.Fatalf("expected to resume the winner %d, got %+v", winner.ID, res)
	}
	list, err := f.repos.Assessments.ListByUser(f.dbc, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected a single assessment row, got %d (%v)", len(list), err)
	}
}

func TestUpdateProgress(t *testing.T) {
	f := newFixture(t)
	agg := f.assessmentAgg(f.base)
	u := testutil.SeedUser(t, f.ctx, f.tx, "")
	open := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentInProgress)
	done := testutil.SeedAssessment(t, f.ctx, f.tx, u.ID, types.AssessmentCompleted)

	got, err := agg.UpdateProgress(f.ctx, domainagg.UpdateProgressInput{UserID: u.ID, AssessmentID: open.ID, CurrentAreaIndex: 4})
	if err != nil || got.CurrentAreaIndex != 4 {
		t.Fatalf("UpdateProgress: %+v %v", got, err)
	}
	_, err = agg.UpdateProgress(f.ctx, domainagg.UpdateProgressInput{UserID: u.ID, AssessmentID: done.ID, CurrentAreaIndex: 1})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation for completed assessment, got %v", err)
	}
	_, err = agg.UpdateProgress(f.ctx, domainagg.UpdateProgressInput{UserID: u.ID, AssessmentID: open.ID, CurrentAreaIndex: -1})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
