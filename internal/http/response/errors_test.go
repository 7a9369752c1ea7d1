package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/validate"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation fields", validate.Field("email", "is required"), 400, "validation", "validation failed"},
		{"api error", apierr.NotFound("user not found"), 404, "not_found", "user not found"},
		{"api 5xx hidden", apierr.New(500, "boom", errors.New("dsn=secret")), 500, "boom", msgInternal},
		{"domain not found", domainagg.NewError(domainagg.CodeNotFound, "Assessment.Get", "assessment not found", nil), 404, "not_found", "assessment not found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "ActionPlan.Create", "action plan already exists", nil), 409, "conflict", "action plan already exists"},
		{"invariant sentinel", aggregates.MapError("op", aggregates.InvariantError("assessment is already completed")), 409, "invariant_violation", "assessment is already completed"},
		{"precondition", domainagg.NewError(domainagg.CodePreconditionFailed, "op", "assessment must be completed", nil), 400, "precondition_failed", "assessment must be completed"},
		{"driver text hidden", aggregates.MapError("op", errors.New(`ERROR: duplicate key value violates unique constraint "uq_users_email"`)), 409, "conflict", "resource already exists"},
		{"retryable", aggregates.MapError("op", errors.New("database is locked")), 503, "retryable", msgRetryable},
		{"internal", aggregates.MapError("op", errors.New("pq: relation users does not exist")), 500, "internal", msgInternal},
		{"plain error", errors.New("whatever"), 500, "internal", msgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Classify(tc.err)
			if status != tc.status || body.Code != tc.code || body.Message != tc.message {
				t.Fatalf("got %d %q %q, want %d %q %q", status, body.Code, body.Message, tc.status, tc.code, tc.message)
			}
		})
	}
}

func TestErrorWritesEnvelopeWithDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	err := domainagg.WithDetails(
		domainagg.NewError(domainagg.CodeInvariantViolation, "ActionPlan.Create", "contribution points must total 100", nil),
		map[string]any{"total": 99},
	)
	Error(c, err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
	var env struct {
		Error struct {
			Message string         `json:"message"`
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "invariant_violation" || env.Error.Details["total"] != float64(99) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
