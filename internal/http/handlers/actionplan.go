package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

type ActionPlanHandler struct {
	plans services.ActionPlanService
}

func NewActionPlanHandler(plans services.ActionPlanService) *ActionPlanHandler {
	return &ActionPlanHandler{plans: plans}
}

type actionItem struct {
	ActionText   string `json:"action_text" validate:"max=2000"`
	StrategyText string `json:"strategy_text" validate:"max=2000"`
	TargetDate   string `json:"target_date"`
	Status       string `json:"status"`
}

type pointItem struct {
	LifeAreaID uint `json:"life_area_id" validate:"required,gt=0"`
	Points     *int `json:"points" validate:"required,gte=0,max=100"`
}

type createPlanRequest struct {
	FocusAreaID        uint         `json:"focus_area_id" validate:"required,gt=0"`
	Actions            []actionItem `json:"actions" validate:"max=50,dive"`
	ContributionPoints []pointItem  `json:"contribution_points" validate:"max=50,dive"`
}

// Absent keys leave the stored collection untouched; an empty list clears it.
type updatePlanRequest struct {
	FocusAreaID        *uint         `json:"focus_area_id" validate:"omitempty,gt=0"`
	Actions            *[]actionItem `json:"actions" validate:"omitempty,max=50,dive"`
	ContributionPoints *[]pointItem  `json:"contribution_points" validate:"omitempty,max=50,dive"`
}

func toActionInputs(items []actionItem) []domainagg.ActionInput {
	out := make([]domainagg.ActionInput, 0, len(items))
	for _, a := range items {
		out = append(out, domainagg.ActionInput{
			ActionText:   a.ActionText,
			StrategyText: a.StrategyText,
			TargetDate:   a.TargetDate,
			Status:       a.Status,
		})
	}
	return out
}

func toPointInputs(items []pointItem) []domainagg.ContributionPointInput {
	out := make([]domainagg.ContributionPointInput, 0, len(items))
	for _, p := range items {
		out = append(out, domainagg.ContributionPointInput{LifeAreaID: p.LifeAreaID, Points: *p.Points})
	}
	return out
}

type actionJSON struct {
	ID           uint      `json:"id"`
	ActionText   string    `json:"action_text"`
	StrategyText string    `json:"strategy_text"`
	TargetDate   *string   `json:"target_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toActionJSON(a *types.Action) actionJSON {
	out := actionJSON{
		ID:           a.ID,
		ActionText:   a.ActionText,
		StrategyText: a.StrategyText,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.TargetDate != nil {
		d := time.Time(*a.TargetDate).Format("2006-01-02")
		out.TargetDate = &d
	}
	return out
}

func (h *ActionPlanHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	actions := make([]actionJSON, 0, len(view.Actions))
	for _, a := range view.Actions {
		actions = append(actions, toActionJSON(a))
	}
	points := make([]gin.H, 0, len(view.ContributionPoints))
	for _, p := range view.ContributionPoints {
		points = append(points, gin.H{"life_area_id": p.LifeAreaID, "points": p.Points})
	}
	var focusName *string
	if view.FocusAreaName != "" {
		focusName = &view.FocusAreaName
	}
	response.RespondOK(c, gin.H{
		"id":                  view.Plan.ID,
		"assessment_id":       view.Plan.AssessmentID,
		"focus_area_id":       view.Plan.FocusAreaID,
		"focus_area_name":     focusName,
		"created_at":          view.Plan.CreatedAt,
		"updated_at":          view.Plan.UpdatedAt,
		"actions":             actions,
		"contribution_points": points,
	})
}

func (h *ActionPlanHandler) Create(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createPlanRequest
	if !bindJSON(c, &req, false) {
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), domainagg.CreateActionPlanInput{
		AssessmentID:       id,
		FocusAreaID:        req.FocusAreaID,
		ContributionPoints: toPointInputs(req.ContributionPoints),
		Actions:            toActionInputs(req.Actions),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message":       "action plan created",
		"id":            plan.ID,
		"focus_area_id": plan.FocusAreaID,
		"created_at":    plan.CreatedAt,
	})
}

func (h *ActionPlanHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePlanRequest
	if !bindJSON(c, &req, false) {
		return
	}
	in := domainagg.UpdateActionPlanInput{AssessmentID: id, FocusAreaID: req.FocusAreaID}
	if req.Actions != nil {
		actions := toActionInputs(*req.Actions)
		in.Actions = &actions
	}
	if req.ContributionPoints != nil {
		points := toPointInputs(*req.ContributionPoints)
		in.ContributionPoints = &points
	}
	plan, err := h.plans.Update(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{"message": "action plan updated", "id": plan.ID})
}

func (h *ActionPlanHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.plans.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, gin.H{"message": "action plan deleted"})
}
