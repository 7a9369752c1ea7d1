package validate

import (
	"errors"
	"testing"

	"github.com/yungbote/lifewheel-backend/internal/pkg/pointers"
)

type item struct {
	QuestionID uint `json:"question_id" validate:"required,gt=0"`
	Score      *int `json:"score" validate:"omitempty,min=0,max=10"`
}

type payload struct {
	Name  string `json:"name" validate:"notblank,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Items []item `json:"items" validate:"required,min=1,dive"`
}


func TestStructReportsJSONFieldPaths(t *testing.T) {
	err := Struct(payload{
		Name:  " ",
		Email: "not-an-email",
		Items: []item{{QuestionID: 3, Score: pointers.Int(11)}},
	})
	verr, ok := As(err)
	if !ok {
		t.Fatalf("expected *Errors, got %T (%v)", err, err)
	}
	for _, key := range []string{"name", "email", "items[0].score"} {
		if _, ok := verr.Fields[key]; !ok {
			t.Fatalf("missing field %q in %+v", key, verr.Fields)
		}
	}
	if verr.Fields["items[0].score"] != "must be at most 10" {
		t.Fatalf("unexpected message: %q", verr.Fields["items[0].score"])
	}
}

func TestStructAllowsNullScore(t *testing.T) {
	err := Struct(payload{
		Name:  "Ana",
		Email: "ana@example.com",
		Items: []item{{QuestionID: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmptySliceRejected(t *testing.T) {
	err := Struct(payload{Name: "Ana", Email: "ana@example.com", Items: []item{}})
	verr, ok := As(err)
	if !ok || verr.Fields["items"] == "" {
		t.Fatalf("expected items error, got %v", err)
	}
	if !errors.Is(err, err) || verr.Error() == "" {
		t.Fatalf("expected readable error")
	}
}
