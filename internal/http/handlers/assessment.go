package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

type AssessmentHandler struct {
	assessments services.AssessmentService
}

func NewAssessmentHandler(assessments services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

type startRequest struct {
	Title string `json:"title" validate:"max=255"`
}

type progressRequest struct {
	CurrentAreaIndex *int `json:"current_area_index" validate:"required,gte=0"`
}

type responseItem struct {
	QuestionID uint `json:"question_id" validate:"required,gt=0"`
	Score      *int `json:"score"`
}

type responsesRequest struct {
	Responses []responseItem `json:"responses" validate:"required,min=1,max=500,dive"`
}

// Start resumes the caller's in_progress assessment (200) or creates one (201).
func (h *AssessmentHandler) Start(c *gin.Context) {
	var req startRequest
	if !bindJSON(c, &req, true) {
		return
	}
	res, err := h.assessments.Start(c.Request.Context(), req.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	status := http.StatusCreated
	if res.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, struct {
		assessmentJSON
		IsContinuation bool `json:"is_continuation"`
	}{toAssessmentJSON(&res.Assessment), res.Resumed})
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.assessments.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, toAssessmentJSON(a))
}

func (h *AssessmentHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req progressRequest
	if !bindJSON(c, &req, false) {
		return
	}
	a, err := h.assessments.UpdateProgress(c.Request.Context(), id, *req.CurrentAreaIndex)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, toAssessmentJSON(a))
}

func (h *AssessmentHandler) SaveResponses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req responsesRequest
	if !bindJSON(c, &req, false) {
		return
	}
	entries := make([]domainagg.ResponseEntry, 0, len(req.Responses))
	for _, r := range req.Responses {
		entries = append(entries, domainagg.ResponseEntry{QuestionID: r.QuestionID, Score: r.Score})
	}
	res, err := h.assessments.RecordResponses(c.Request.Context(), id, entries)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":       "responses saved",
		"saved_count":   res.SavedCount,
		"skipped_count": len(res.Skipped),
	})
}

func (h *AssessmentHandler) GetResponses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	got, err := h.assessments.GetResponses(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, scoreMapJSON(got))
}

func (h *AssessmentHandler) Calculate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.assessments.Calculate(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{
		"assessment":          toAssessmentJSON(&res.Assessment),
		"area_results":        areaResultsJSON(res.Areas),
		"subcategory_results": subcategoryResultsJSON(res.Subcategories),
	})
}

func (h *AssessmentHandler) Results(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.assessments.GetResults(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{
		"assessment":          toAssessmentJSON(res.Assessment),
		"area_results":        areaViewsJSON(res.Areas),
		"subcategory_results": subcategoryViewsJSON(res.Subcategories),
	})
}

type areaScoreJSON struct {
	AreaID     uint    `json:"area_id"`
	AreaName   string  `json:"area_name"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

func (h *AssessmentHandler) List(c *gin.Context) {
	rows, err := h.assessments.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	type item struct {
		assessmentJSON
		ResponseCount int             `json:"response_count"`
		AreaScores    []areaScoreJSON `json:"area_scores"`
	}
	out := make([]item, 0, len(rows))
	for _, r := range rows {
		scores := make([]areaScoreJSON, 0, len(r.AreaScores))
		for _, v := range r.AreaScores {
			scores = append(scores, areaScoreJSON{
				AreaID:     v.LifeAreaID,
				AreaName:   v.LifeAreaName,
				Score:      v.AverageScore,
				Percentage: v.Percentage,
				Color:      v.Color,
			})
		}
		out = append(out, item{
			assessmentJSON: toAssessmentJSON(r.Assessment),
			ResponseCount:  r.ResponseCount,
			AreaScores:     scores,
		})
	}
	response.RespondOK(c, out)
}

func (h *AssessmentHandler) LastCompleted(c *gin.Context) {
	last, err := h.assessments.GetLastCompleted(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{
		"assessment_id": last.Assessment.ID,
		"completed_at":  last.Assessment.CompletedAt,
		"responses":     scoreMapJSON(last.Responses),
	})
}

// parseIDs accepts ids=1,2,3 as well as repeated ids parameters.
func parseIDs(raw []string) ([]uint, error) {
	var out []uint
	for _, chunk := range raw {
		for _, part := range strings.Split(chunk, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseUint(part, 10, 64)
			if err != nil || v == 0 {
				return nil, apierr.BadRequest("invalid_ids", "ids must be positive integers")
			}
			out = append(out, uint(v))
		}
	}
	return out, nil
}

type comparisonPointJSON struct {
	AssessmentID uint       `json:"assessment_id"`
	CompletedAt  *time.Time `json:"completed_at"`
	Score        float64    `json:"score"`
	Percentage   float64    `json:"percentage"`
}

type comparisonAreaJSON struct {
	AreaID   uint                  `json:"area_id"`
	AreaName string                `json:"area_name"`
	Color    string                `json:"color"`
	Scores   []comparisonPointJSON `json:"scores"`
	Delta    *float64              `json:"delta"`
}

func (h *AssessmentHandler) Compare(c *gin.Context) {
	ids, err := parseIDs(c.QueryArray("ids"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	cmp, err := h.assessments.Compare(c.Request.Context(), ids)
	if err != nil {
		_ = c.Error(err)
		return
	}
	assessments := make([]assessmentJSON, 0, len(cmp.Assessments))
	for _, a := range cmp.Assessments {
		assessments = append(assessments, toAssessmentJSON(a))
	}
	areas := make([]comparisonAreaJSON, 0, len(cmp.Areas))
	for _, a := range cmp.Areas {
		points := make([]comparisonPointJSON, 0, len(a.Points))
		for _, p := range a.Points {
			points = append(points, comparisonPointJSON{
				AssessmentID: p.AssessmentID,
				CompletedAt:  p.CompletedAt,
				Score:        p.AverageScore,
				Percentage:   p.Percentage,
			})
		}
		areas = append(areas, comparisonAreaJSON{
			AreaID:   a.LifeAreaID,
			AreaName: a.LifeAreaName,
			Color:    a.Color,
			Scores:   points,
			Delta:    a.Delta,
		})
	}
	response.RespondOK(c, gin.H{"assessments": assessments, "areas": areas})
}
