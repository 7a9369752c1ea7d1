package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	domassessment "github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"github.com/yungbote/lifewheel-backend/internal/scoring"
)

const (
	MinCompareAssessments = 2
	MaxCompareAssessments = 10
)

type AssessmentService interface {
	Start(ctx context.Context, title string) (domainagg.StartOrResumeResult, error)
	Get(ctx context.Context, id uint) (*types.Assessment, error)
	UpdateProgress(ctx context.Context, id uint, currentAreaIndex int) (*types.Assessment, error)

	RecordResponses(ctx context.Context, id uint, entries []domainagg.ResponseEntry) (domainagg.RecordResponsesResult, error)
	GetResponses(ctx context.Context, id uint) (map[uint]int, error)

	Calculate(ctx context.Context, id uint) (domainagg.CalculateScoresResult, error)
	GetResults(ctx context.Context, id uint) (*AssessmentResults, error)

	List(ctx context.Context) ([]AssessmentSummary, error)
	GetLastCompleted(ctx context.Context) (*LastAssessment, error)
	Compare(ctx context.Context, ids []uint) (*Comparison, error)
}

// AssessmentSummary is one row of the caller's history. AreaScores is empty until completion.
type AssessmentSummary struct {
	Assessment    *types.Assessment
	ResponseCount int
	AreaScores    []domassessment.AreaScoreView
}

type AssessmentResults struct {
	Assessment    *types.Assessment
	Areas         []domassessment.AreaScoreView
	Subcategories []domassessment.SubcategoryScoreView
}

type LastAssessment struct {
	Assessment *types.Assessment
	Responses  map[uint]int
}

type ComparisonPoint struct {
	AssessmentID uint
	CompletedAt  *time.Time
	AverageScore float64
	Percentage   float64
}

// AreaComparison is one life area's score series. Delta is last minus first and is nil when the
// area was scored in fewer than two of the compared assessments.
type AreaComparison struct {
	LifeAreaID   uint
	LifeAreaName string
	Color        string
	Points       []ComparisonPoint
	Delta        *float64
}

type Comparison struct {
	Assessments []*types.Assessment
	Areas       []AreaComparison
}

type AssessmentServiceDeps struct {
	Log         *logger.Logger
	Aggregate   domainagg.AssessmentAggregate
	Assessments repos.AssessmentRepo
	Responses   repos.ResponseRepo
	Scores      repos.ScoreRepo
	Metrics     *observability.Metrics
}

type assessmentService struct {
	log         *logger.Logger
	agg         domainagg.AssessmentAggregate
	assessments repos.AssessmentRepo
	responses   repos.ResponseRepo
	scores      repos.ScoreRepo
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewAssessmentService(deps AssessmentServiceDeps) AssessmentService {
	return &assessmentService{
		log:         deps.Log.With("service", "AssessmentService"),
		agg:         deps.Aggregate,
		assessments: deps.Assessments,
		responses:   deps.Responses,
		scores:      deps.Scores,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

func assessmentNotFound(op string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, "assessment not found", nil)
}

func (s *assessmentService) owned(ctx context.Context, op string, id uint) (*types.Assessment, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.assessments.GetOwned(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if a == nil {
		return nil, assessmentNotFound(op)
	}
	return a, nil
}

func (s *assessmentService) Start(ctx context.Context, title string) (domainagg.StartOrResumeResult, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return domainagg.StartOrResumeResult{}, err
	}
	res, err := s.agg.StartOrResume(ctx, domainagg.StartOrResumeInput{
		UserID: userID,
		Title:  title,
		Now:    s.now(),
	})
	if err != nil {
		return res, err
	}
	s.metrics.IncAssessmentStarted(res.Resumed)
	return res, nil
}

func (s *assessmentService) Get(ctx context.Context, id uint) (*types.Assessment, error) {
	return s.owned(ctx, "Assessment.Get", id)
}

func (s *assessmentService) UpdateProgress(ctx context.Context, id uint, currentAreaIndex int) (*types.Assessment, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.agg.UpdateProgress(ctx, domainagg.UpdateProgressInput{
		UserID:           userID,
		AssessmentID:     id,
		CurrentAreaIndex: currentAreaIndex,
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *assessmentService) RecordResponses(ctx context.Context, id uint, entries []domainagg.ResponseEntry) (domainagg.RecordResponsesResult, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return domainagg.RecordResponsesResult{}, err
	}
	res, err := s.agg.RecordResponses(ctx, domainagg.RecordResponsesInput{
		UserID:       userID,
		AssessmentID: id,
		Entries:      entries,
	})
	if err != nil {
		return res, err
	}
	skipped := map[string]int{}
	for _, sk := range res.Skipped {
		skipped[sk.Reason]++
	}
	s.metrics.AddResponses(res.SavedCount, skipped)
	return res, nil
}

func (s *assessmentService) GetResponses(ctx context.Context, id uint) (map[uint]int, error) {
	const op = "Assessment.GetResponses"
	if _, err := s.owned(ctx, op, id); err != nil {
		return nil, err
	}
	rows, err := s.responses.ListByAssessment(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return responseMap(rows), nil
}

func responseMap(rows []*types.Response) map[uint]int {
	out := make(map[uint]int, len(rows))
	for _, r := range rows {
		out[r.QuestionID] = r.Score
	}
	return out
}

func (s *assessmentService) Calculate(ctx context.Context, id uint) (domainagg.CalculateScoresResult, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return domainagg.CalculateScoresResult{}, err
	}
	res, err := s.agg.CalculateScores(ctx, domainagg.CalculateScoresInput{
		UserID:       userID,
		AssessmentID: id,
		CalculatedAt: s.now(),
	})
	if err != nil {
		return res, err
	}
	s.metrics.IncAssessmentScored()
	return res, nil
}

func (s *assessmentService) GetResults(ctx context.Context, id uint) (*AssessmentResults, error) {
	const op = "Assessment.GetResults"
	a, err := s.owned(ctx, op, id)
	if err != nil {
		return nil, err
	}
	out := &AssessmentResults{Assessment: a}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		views, err := s.scores.ListAreaViews(dbctx.Context{Ctx: gctx}, []uint{id})
		out.Areas = views
		return err
	})
	g.Go(func() error {
		views, err := s.scores.ListSubcategoryViews(dbctx.Context{Ctx: gctx}, id)
		out.Subcategories = views
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (s *assessmentService) List(ctx context.Context) ([]AssessmentSummary, error) {
	const op = "Assessment.List"
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.assessments.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if len(rows) == 0 {
		return []AssessmentSummary{}, nil
	}

	ids := make([]uint, 0, len(rows))
	completed := make([]uint, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.ID)
		if a.IsCompleted() {
			completed = append(completed, a.ID)
		}
	}

	var counts map[uint]int
	var views []domassessment.AreaScoreView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.responses.CountByAssessments(dbctx.Context{Ctx: gctx}, ids)
		return err
	})
	if len(completed) > 0 {
		g.Go(func() error {
			var err error
			views, err = s.scores.ListAreaViews(dbctx.Context{Ctx: gctx}, completed)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(op, err)
	}

	byAssessment := make(map[uint][]domassessment.AreaScoreView, len(completed))
	for _, v := range views {
		byAssessment[v.AssessmentID] = append(byAssessment[v.AssessmentID], v)
	}
	out := make([]AssessmentSummary, 0, len(rows))
	for _, a := range rows {
		out = append(out, AssessmentSummary{
			Assessment:    a,
			ResponseCount: counts[a.ID],
			AreaScores:    byAssessment[a.ID],
		})
	}
	return out, nil
}

func (s *assessmentService) GetLastCompleted(ctx context.Context) (*LastAssessment, error) {
	const op = "Assessment.GetLastCompleted"
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	a, err := s.assessments.GetLastCompleted(dbc, userID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if a == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "no completed assessment", nil)
	}
	rows, err := s.responses.ListByAssessment(dbc, a.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return &LastAssessment{Assessment: a, Responses: responseMap(rows)}, nil
}

func (s *assessmentService) Compare(ctx context.Context, ids []uint) (*Comparison, error) {
	const op = "Assessment.Compare"
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	unique := dedupeIDs(ids)
	if len(unique) < MinCompareAssessments || len(unique) > MaxCompareAssessments {
		return nil, domainagg.WithDetails(
			domainagg.NewError(domainagg.CodeValidation, op, "compare needs between 2 and 10 distinct assessment ids", nil),
			map[string]any{"ids": "must contain between 2 and 10 distinct ids"},
		)
	}

	var owned []*types.Assessment
	var views []domassessment.AreaScoreView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.assessments.ListOwnedCompleted(dbctx.Context{Ctx: gctx}, userID, unique)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.scores.ListAreaViews(dbctx.Context{Ctx: gctx}, unique)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, aggregates.MapError(op, err)
	}
	// Scores for ids the caller does not own are discarded with them.
	if len(owned) != len(unique) {
		return nil, assessmentNotFound(op)
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return completedBefore(owned[i], owned[j])
	})
	return &Comparison{Assessments: owned, Areas: buildComparison(owned, views)}, nil
}

func completedBefore(a, b *types.Assessment) bool {
	switch {
	case a.CompletedAt == nil || b.CompletedAt == nil:
		return a.ID < b.ID
	case a.CompletedAt.Equal(*b.CompletedAt):
		return a.ID < b.ID
	default:
		return a.CompletedAt.Before(*b.CompletedAt)
	}
}

// buildComparison groups area views into per-area series in assessment order, keeping the area
// display order of the views.
func buildComparison(ordered []*types.Assessment, views []domassessment.AreaScoreView) []AreaComparison {
	byKey := make(map[[2]uint]domassessment.AreaScoreView, len(views))
	var areaOrder []uint
	areas := map[uint]domassessment.AreaScoreView{}
	for _, v := range views {
		byKey[[2]uint{v.AssessmentID, v.LifeAreaID}] = v
		if _, seen := areas[v.LifeAreaID]; !seen {
			areas[v.LifeAreaID] = v
			areaOrder = append(areaOrder, v.LifeAreaID)
		}
	}
	sort.SliceStable(areaOrder, func(i, j int) bool {
		return areas[areaOrder[i]].DisplayOrder < areas[areaOrder[j]].DisplayOrder
	})

	out := make([]AreaComparison, 0, len(areaOrder))
	for _, areaID := range areaOrder {
		meta := areas[areaID]
		ac := AreaComparison{
			LifeAreaID:   areaID,
			LifeAreaName: meta.LifeAreaName,
			Color:        meta.Color,
		}
		for _, a := range ordered {
			v, ok := byKey[[2]uint{a.ID, areaID}]
			if !ok {
				continue
			}
			ac.Points = append(ac.Points, ComparisonPoint{
				AssessmentID: a.ID,
				CompletedAt:  a.CompletedAt,
				AverageScore: v.AverageScore,
				Percentage:   v.Percentage,
			})
		}
		if n := len(ac.Points); n >= 2 {
			d := scoring.RoundEven1(ac.Points[n-1].AverageScore - ac.Points[0].AverageScore)
			ac.Delta = &d
		}
		out = append(out, ac)
	}
	return out
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
