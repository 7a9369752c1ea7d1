package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestWithDetailsMergesIntoAggregateError(t *testing.T) {
	base := NewError(CodeConflict, "actionplan.create", "plan exists", nil)
	err := WithDetails(base, map[string]any{"existing_plan_id": uint(9)})
	wrapped := fmt.Errorf("handler: %w", err)

	if !IsCode(wrapped, CodeConflict) {
		t.Fatalf("expected conflict, got %q", CodeOf(wrapped))
	}
	if DetailsOf(wrapped)["existing_plan_id"] != uint(9) {
		t.Fatalf("details lost: %+v", DetailsOf(wrapped))
	}
}

func TestWithDetailsWrapsPlainErrors(t *testing.T) {
	cause := errors.New("boom")
	err := WithDetails(cause, map[string]any{"k": "v"})
	if !IsCode(err, CodeInternal) {
		t.Fatalf("expected internal, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved")
	}
}

func TestErrorStringFormats(t *testing.T) {
	err := NewError(CodeNotFound, "assessment.get", "assessment not found", nil)
	if got := err.Error(); got != "assessment.get: assessment not found (not_found)" {
		t.Fatalf("unexpected message: %q", got)
	}
	if WithDetails(nil, nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("service: %w", NewError(CodeNotFound, "assessment.get", "assessment not found", nil))
	if !errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Fatalf("expected code match through wrapping")
	}
	if errors.Is(err, &Error{Code: CodeConflict}) {
		t.Fatalf("unexpected match on a different code")
	}
}

func TestWithDetailsDoesNotMutateSource(t *testing.T) {
	base := NewError(CodeInvariantViolation, "actionplan.create", "points must total 100", nil)
	_ = WithDetails(base, map[string]any{"total": 90})
	if DetailsOf(base) != nil {
		t.Fatalf("source error mutated: %+v", DetailsOf(base))
	}
}
