package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/scoring"
)

type AssessmentAggregateDeps struct {
	Base BaseDeps

	Assessments   repos.AssessmentRepo
	Responses     repos.ResponseRepo
	Scores        repos.ScoreRepo
	Questions     repos.QuestionRepo
	Subcategories repos.SubcategoryRepo
	LifeAreas     repos.LifeAreaRepo
}

type assessmentAggregate struct {
	deps AssessmentAggregateDeps
}

func NewAssessmentAggregate(deps AssessmentAggregateDeps) domainagg.AssessmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &assessmentAggregate{deps: deps}
}

func (a *assessmentAggregate) Contract() domainagg.Contract {
	return domainagg.AssessmentAggregateContract
}

func (a *assessmentAggregate) StartOrResume(ctx context.Context, in domainagg.StartOrResumeInput) (domainagg.StartOrResumeResult, error) {
	const op = "Assessment.StartOrResume"
	var out domainagg.StartOrResumeResult
	if in.UserID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if a.deps.Assessments == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment repos not configured", nil)
	}
	now := in.Now.UTC()
	if in.Now.IsZero() {
		now = time.Now().UTC()
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = assessment.DefaultTitle
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		existing, err := a.deps.Assessments.GetInProgress(dbc, in.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = domainagg.StartOrResumeResult{Assessment: *existing, Resumed: true}
			return nil
		}
		row := &types.Assessment{
			UserID:    in.UserID,
			Title:     title,
			Status:    assessment.StatusInProgress,
			StartedAt: now,
		}
		if _, err := a.deps.Assessments.Create(dbc, row); err != nil {
			return err
		}
		out = domainagg.StartOrResumeResult{Assessment: *row}
		return nil
	})
	if err == nil || !domainagg.IsCode(err, domainagg.CodeConflict) {
		return out, err
	}

	// A concurrent request created the in_progress row between our read and insert. The partial
	// unique index rejected ours, so hand back the winner's.
	var winner *types.Assessment
	rerr := a.deps.Base.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		var gerr error
		winner, gerr = a.deps.Assessments.GetInProgress(dbc, in.UserID)
		return gerr
	})
	if rerr != nil || winner == nil {
		return out, err
	}
	a.deps.Base.Log.Info("start raced with a concurrent creator; resuming", "user_id", in.UserID, "assessment_id", winner.ID)
	return domainagg.StartOrResumeResult{Assessment: *winner, Resumed: true}, nil
}

func (a *assessmentAggregate) RecordResponses(ctx context.Context, in domainagg.RecordResponsesInput) (domainagg.RecordResponsesResult, error) {
	const op = "Assessment.RecordResponses"
	var out domainagg.RecordResponsesResult
	if in.UserID == 0 || in.AssessmentID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if len(in.Entries) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "responses must not be empty", nil)
	}
	for i, e := range in.Entries {
		if e.Score != nil && (*e.Score < assessment.MinScore || *e.Score > assessment.MaxScore) {
			return out, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("score must be between %d and %d", assessment.MinScore, assessment.MaxScore), nil),
				map[string]any{fmt.Sprintf("responses[%d].score", i): "out of range"},
			)
		}
	}
	if a.deps.Assessments == nil || a.deps.Responses == nil || a.deps.Questions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment repos not configured", nil)
	}
	log := a.deps.Base.Log.With("op", op, "assessment_id", in.AssessmentID)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		owned, err := a.deps.Assessments.GetOwned(dbc, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if owned == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}

		ids := make([]uint, 0, len(in.Entries))
		for _, e := range in.Entries {
			if e.Score != nil {
				ids = append(ids, e.QuestionID)
			}
		}
		known, err := a.deps.Questions.ExistingIDs(dbc, ids)
		if err != nil {
			return err
		}

		// One row per question; a later entry for the same question wins. SavedCount counts
		// every accepted entry, repeats included.
		accepted := 0
		byQuestion := make(map[uint]int, len(in.Entries))
		rows := make([]*types.Response, 0, len(in.Entries))
		var skipped []domainagg.SkippedResponse
		for _, e := range in.Entries {
			switch {
			case e.Score == nil:
				skipped = append(skipped, domainagg.SkippedResponse{QuestionID: e.QuestionID, Reason: domainagg.SkipReasonNullScore})
				log.Warn("response skipped", "question_id", e.QuestionID, "reason", domainagg.SkipReasonNullScore)
				continue
			case !known[e.QuestionID]:
				skipped = append(skipped, domainagg.SkippedResponse{QuestionID: e.QuestionID, Reason: domainagg.SkipReasonUnknownQuestion})
				log.Warn("response skipped", "question_id", e.QuestionID, "reason", domainagg.SkipReasonUnknownQuestion)
				continue
			}
			accepted++
			if idx, seen := byQuestion[e.QuestionID]; seen {
				rows[idx].Score = *e.Score
				continue
			}
			byQuestion[e.QuestionID] = len(rows)
			rows = append(rows, &types.Response{
				AssessmentID: in.AssessmentID,
				QuestionID:   e.QuestionID,
				Score:        *e.Score,
			})
		}

		if _, err := a.deps.Responses.Upsert(dbc, rows); err != nil {
			return err
		}
		out = domainagg.RecordResponsesResult{SavedCount: accepted, Skipped: skipped}
		return nil
	})
	return out, err
}

func (a *assessmentAggregate) CalculateScores(ctx context.Context, in domainagg.CalculateScoresInput) (domainagg.CalculateScoresResult, error) {
	const op = "Assessment.CalculateScores"
	var out domainagg.CalculateScoresResult
	if in.UserID == 0 || in.AssessmentID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if a.deps.Assessments == nil || a.deps.Responses == nil || a.deps.Scores == nil ||
		a.deps.Subcategories == nil || a.deps.LifeAreas == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment repos not configured", nil)
	}
	at := in.CalculatedAt.UTC()
	if in.CalculatedAt.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		owned, err := a.deps.Assessments.GetOwned(dbc, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if owned == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}

		subcats, err := a.deps.Subcategories.List(dbc)
		if err != nil {
			return err
		}
		areas, err := a.deps.LifeAreas.List(dbc)
		if err != nil {
			return err
		}
		scored, err := a.deps.Responses.ListScored(dbc, owned.ID)
		if err != nil {
			return err
		}

		subResults, areaResults := scoring.Compute(toScoringSubcategories(subcats), toScoringAreas(areas), toScoringResponses(scored))

		subRows := make([]*types.SubcategoryScore, 0, len(subResults))
		for _, r := range subResults {
			subRows = append(subRows, &types.SubcategoryScore{
				AssessmentID:  owned.ID,
				SubcategoryID: r.SubcategoryID,
				AverageScore:  r.StoredAverage,
				Percentage:    r.StoredPercentage,
				CalculatedAt:  at,
			})
		}
		if err := a.deps.Scores.UpsertSubcategoryScores(dbc, subRows); err != nil {
			return err
		}

		areaRows := make([]*types.AreaScore, 0, len(areaResults))
		for _, r := range areaResults {
			areaRows = append(areaRows, &types.AreaScore{
				AssessmentID: owned.ID,
				LifeAreaID:   r.LifeAreaID,
				AverageScore: r.StoredAverage,
				Percentage:   r.StoredPercentage,
				CalculatedAt: at,
			})
		}
		if err := a.deps.Scores.UpsertAreaScores(dbc, areaRows); err != nil {
			return err
		}

		if err := a.deps.Assessments.MarkCompleted(dbc, owned.ID, at); err != nil {
			return err
		}
		owned.Status = assessment.StatusCompleted
		owned.CompletedAt = &at
		owned.UpdatedAt = at

		out = domainagg.CalculateScoresResult{
			Assessment:    *owned,
			Subcategories: subResults,
			Areas:         areaResults,
		}
		return nil
	})
	return out, err
}

func (a *assessmentAggregate) UpdateProgress(ctx context.Context, in domainagg.UpdateProgressInput) (assessment.Assessment, error) {
	const op = "Assessment.UpdateProgress"
	var out assessment.Assessment
	if in.UserID == 0 || in.AssessmentID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or assessment_id", nil)
	}
	if in.CurrentAreaIndex < 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "current_area_index must be >= 0", nil)
	}
	if a.deps.Assessments == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		owned, err := a.deps.Assessments.GetOwned(dbc, in.UserID, in.AssessmentID)
		if err != nil {
			return err
		}
		if owned == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
		}
		if owned.IsCompleted() {
			return InvariantError("assessment is already completed")
		}
		updated, err := a.deps.Assessments.UpdateProgress(dbc, owned.ID, in.CurrentAreaIndex)
		if err != nil {
			return err
		}
		if !updated {
			return InvariantError("assessment is already completed")
		}
		owned.CurrentAreaIndex = in.CurrentAreaIndex
		out = *owned
		return nil
	})
	return out, err
}

func toScoringSubcategories(rows []*types.Subcategory) []scoring.Subcategory {
	out := make([]scoring.Subcategory, 0, len(rows))
	for _, s := range rows {
		out = append(out, scoring.Subcategory{ID: s.ID, LifeAreaID: s.LifeAreaID, Name: s.Name, DisplayOrder: s.DisplayOrder})
	}
	return out
}

func toScoringAreas(rows []*types.LifeArea) []scoring.Area {
	out := make([]scoring.Area, 0, len(rows))
	for _, a := range rows {
		out = append(out, scoring.Area{ID: a.ID, Name: a.Name, Color: a.Color, DisplayOrder: a.DisplayOrder})
	}
	return out
}

func toScoringResponses(rows []assessment.ScoredResponse) []scoring.Response {
	out := make([]scoring.Response, 0, len(rows))
	for _, r := range rows {
		out = append(out, scoring.Response{SubcategoryID: r.SubcategoryID, Score: r.Score})
	}
	return out
}
