package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
)

func TestGormTxRunnerRetriesTransientFailures(t *testing.T) {
	db := testutil.DB(t)
	var retried []int
	runner := NewGormTxRunner(db, WithRetry(3, time.Millisecond), WithRetryObserver(func(attempt int, _ error) {
		retried = append(retried, attempt)
	}))

	calls := 0
	err := runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		calls++
		if dbc.Tx == nil {
			t.Fatalf("expected a transaction handle")
		}
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if calls != 3 || len(retried) != 2 || retried[1] != 3 {
		t.Fatalf("calls=%d retried=%v", calls, retried)
	}
}

func TestGormTxRunnerGivesUpAfterAttempts(t *testing.T) {
	db := testutil.DB(t)
	runner := NewGormTxRunner(db, WithRetry(2, 0))
	calls := 0
	err := runner.InTx(context.Background(), func(dbctx.Context) error {
		calls++
		return errors.New("deadlock detected")
	})
	if err == nil || calls != 2 {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}

func TestGormTxRunnerDoesNotReplayDecisions(t *testing.T) {
	db := testutil.DB(t)
	runner := NewGormTxRunner(db, WithRetry(5, 0))
	cases := []error{
		InvariantError("assessment is already completed"),
		RetryableError("explicitly surfaced"),
		domainagg.NewError(domainagg.CodeNotFound, "op", "assessment not found", nil),
		context.Canceled,
	}
	for _, want := range cases {
		calls := 0
		err := runner.InTx(context.Background(), func(dbctx.Context) error {
			calls++
			return want
		})
		if calls != 1 || !errors.Is(err, want) {
			t.Fatalf("%v: calls=%d err=%v", want, calls, err)
		}
	}
}

func TestChainHooksFansOut(t *testing.T) {
	a, b := &spyHooks{}, &spyHooks{}
	hooks := ChainHooks(a, nil, b)
	hooks.ObserveOperation("Assessment.CalculateScores", "success", time.Millisecond)
	hooks.IncConflict("ActionPlan.Create")
	hooks.IncRetry("Assessment.RecordResponses")

	for _, h := range []*spyHooks{a, b} {
		if len(h.Operations) != 1 || len(h.Conflicts) != 1 || len(h.Retries) != 1 {
			t.Fatalf("unexpected signals: %+v", h)
		}
	}
}

func TestSlowWriteHooksDisabledWithoutThreshold(t *testing.T) {
	if _, ok := NewSlowWriteHooks(testutil.Logger(t), 0).(noopHooks); !ok {
		t.Fatalf("expected no-op hooks for zero threshold")
	}
	if _, ok := NewSlowWriteHooks(nil, time.Second).(noopHooks); !ok {
		t.Fatalf("expected no-op hooks for nil logger")
	}
	NewSlowWriteHooks(testutil.Logger(t), time.Nanosecond).ObserveOperation("op", "success", time.Second)
}
