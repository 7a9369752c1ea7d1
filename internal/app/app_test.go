package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/lifewheel-backend/internal/data/repos/testutil"
	"github.com/yungbote/lifewheel-backend/internal/data/seed"
	"github.com/yungbote/lifewheel-backend/internal/observability"
)

type gormPinger struct{ db *gorm.DB }

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (c *client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	if _, err := seed.Apply(context.Background(), db, log, mustDefaultCatalog(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := Config{
		JWTSecretKey:   "test-secret",
		AccessTokenTTL: time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}
	metrics := observability.New(prometheus.NewRegistry())
	rs := wireRepos(db, log)
	svcs := wireServices(db, log, cfg, rs, metrics)
	handlers := wireHandlers(log, svcs, gormPinger{db: db})
	mw := wireMiddleware(log, svcs, nil, metrics)
	return wireServer(log, cfg, handlers, mw, metrics).Engine
}

func mustDefaultCatalog(t *testing.T) *seed.Catalog {
	t.Helper()
	c, err := seed.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return c
}

type idRow struct {
	ID uint `json:"id"`
}

func TestAssessmentFlowEndToEnd(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if code := c.call("POST", "/api/register", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "correct-horse",
	}, &auth); code != http.StatusCreated || auth.AccessToken == "" {
		t.Fatalf("register: %d", code)
	}
	if code := c.call("GET", "/api/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", code)
	}
	if code := c.call("POST", "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	}, &auth); code != http.StatusOK {
		t.Fatalf("login alias: %d", code)
	}
	c.token = auth.AccessToken

	var started struct {
		ID             uint `json:"id"`
		IsContinuation bool `json:"is_continuation"`
	}
	if code := c.call("POST", "/api/assessments/start", nil, &started); code != http.StatusCreated || started.IsContinuation {
		t.Fatalf("start: %d %+v", code, started)
	}
	var resumed struct {
		ID             uint `json:"id"`
		IsContinuation bool `json:"is_continuation"`
	}
	if code := c.call("POST", "/api/assessments", nil, &resumed); code != http.StatusOK || resumed.ID != started.ID {
		t.Fatalf("legacy create should resume: %d %+v", code, resumed)
	}

	var areas []idRow
	if code := c.call("GET", "/api/life-areas", nil, &areas); code != http.StatusOK || len(areas) != 4 {
		t.Fatalf("life areas: %d %d", code, len(areas))
	}
	type entry struct {
		QuestionID uint `json:"question_id"`
		Score      int  `json:"score"`
	}
	var entries []entry
	for _, a := range areas {
		var subs []idRow
		c.call("GET", fmt.Sprintf("/api/life-areas/%d/subcategories", a.ID), nil, &subs)
		for _, s := range subs {
			var qs []idRow
			c.call("GET", fmt.Sprintf("/api/subcategories/%d/questions", s.ID), nil, &qs)
			for _, q := range qs {
				entries = append(entries, entry{QuestionID: q.ID, Score: 7})
			}
		}
	}
	if len(entries) != 24 {
		t.Fatalf("expected 24 questions, got %d", len(entries))
	}

	base := fmt.Sprintf("/api/assessments/%d", started.ID)
	var saved struct {
		SavedCount int `json:"saved_count"`
	}
	if code := c.call("POST", base+"/responses", map[string]any{"responses": entries}, &saved); code != http.StatusOK || saved.SavedCount != 24 {
		t.Fatalf("responses: %d %+v", code, saved)
	}
	var got map[string]int
	if code := c.call("GET", base+"/responses", nil, &got); code != http.StatusOK || len(got) != 24 {
		t.Fatalf("get responses: %d %d", code, len(got))
	}

	if code := c.call("GET", base+"/action-plan", nil, nil); code != http.StatusNotFound {
		t.Fatalf("plan before completion: %d", code)
	}
	if code := c.call("POST", base+"/action-plan", map[string]any{"focus_area_id": areas[0].ID}, nil); code != http.StatusBadRequest {
		t.Fatalf("plan on in-progress assessment: %d", code)
	}

	var calc struct {
		AreaResults []struct {
			AverageScore float64 `json:"average_score"`
			Percentage   float64 `json:"percentage"`
		} `json:"area_results"`
	}
	if code := c.call("POST", base+"/complete", nil, &calc); code != http.StatusOK || len(calc.AreaResults) != 4 {
		t.Fatalf("complete: %d %+v", code, calc)
	}
	if calc.AreaResults[0].AverageScore != 7 || calc.AreaResults[0].Percentage != 70 {
		t.Fatalf("unexpected area result: %+v", calc.AreaResults[0])
	}
	if code := c.call("PATCH", base+"/progress", map[string]int{"current_area_index": 1}, nil); code != http.StatusConflict {
		t.Fatalf("progress on completed: %d", code)
	}

	points := []map[string]any{
		{"life_area_id": areas[0].ID, "points": 70},
		{"life_area_id": areas[1].ID, "points": 20},
	}
	var conflict struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if code := c.call("POST", base+"/action-plan", map[string]any{
		"focus_area_id": areas[0].ID, "contribution_points": points,
	}, &conflict); code != http.StatusConflict || conflict.Error.Details["total"] != float64(90) {
		t.Fatalf("points not summing to 100: %d %+v", code, conflict)
	}

	points[1]["points"] = 30
	if code := c.call("POST", base+"/action-plan", map[string]any{
		"focus_area_id":       areas[0].ID,
		"contribution_points": points,
		"actions":             []map[string]string{{"action_text": "Walk", "strategy_text": "After lunch", "target_date": "2026-12-01"}},
	}, nil); code != http.StatusCreated {
		t.Fatalf("create plan: %d", code)
	}
	var plan struct {
		FocusAreaName *string `json:"focus_area_name"`
		Actions       []struct {
			TargetDate *string `json:"target_date"`
			Status     string  `json:"status"`
		} `json:"actions"`
	}
	if code := c.call("GET", base+"/action-plan", nil, &plan); code != http.StatusOK || plan.FocusAreaName == nil {
		t.Fatalf("get plan: %d", code)
	}
	if len(plan.Actions) != 1 || plan.Actions[0].Status != "planned" || *plan.Actions[0].TargetDate != "2026-12-01" {
		t.Fatalf("unexpected actions: %+v", plan.Actions)
	}
	if code := c.call("DELETE", base+"/action-plan", nil, nil); code != http.StatusOK {
		t.Fatalf("delete plan: %d", code)
	}

	var last struct {
		AssessmentID uint           `json:"assessment_id"`
		Responses    map[string]int `json:"responses"`
	}
	if code := c.call("GET", "/api/user/last-assessment", nil, &last); code != http.StatusOK || last.AssessmentID != started.ID {
		t.Fatalf("last assessment: %d %+v", code, last)
	}
	if code := c.call("GET", fmt.Sprintf("/api/user/assessments/compare?ids=%d", started.ID), nil, nil); code != http.StatusBadRequest {
		t.Fatalf("compare with one id: %d", code)
	}
}

func TestRegisterIsRateLimited(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}
	for i := 0; i < 5; i++ {
		code := c.call("POST", "/api/register", map[string]string{
			"name": "User", "email": fmt.Sprintf("u%d@example.com", i), "password": "long-enough",
		}, nil)
		if code != http.StatusCreated {
			t.Fatalf("register %d: %d", i, code)
		}
	}
	if code := c.call("POST", "/api/register", map[string]string{
		"name": "User", "email": "u9@example.com", "password": "long-enough",
	}, nil); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}
	if code := c.call("GET", "/api/health", nil, nil); code != http.StatusOK {
		t.Fatalf("health: %d", code)
	}
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("lifewheel_api_requests_total")) {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
