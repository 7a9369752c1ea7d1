package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
)

func TestRecorderKeepsOrderAndFilters(t *testing.T) {
	r := &Recorder{}
	r.ObserveOperation("ActionPlan.Create", "success", time.Millisecond)
	r.ObserveOperation("Assessment.CalculateScores", "success", time.Millisecond)
	r.ObserveOperation("ActionPlan.Create", "conflict", time.Millisecond)
	r.IncConflict("ActionPlan.Create")
	r.IncRetry("Assessment.RecordResponses")

	if got := r.Statuses("ActionPlan.Create"); len(got) != 2 || got[0] != "success" || got[1] != "conflict" {
		t.Fatalf("unexpected statuses: %+v", got)
	}
	if r.ConflictCount("ActionPlan.Create") != 1 || r.ConflictCount("Assessment.CalculateScores") != 0 {
		t.Fatalf("unexpected conflict counts: %+v", r.Events())
	}
	if r.Count(KindRetry, "Assessment.RecordResponses") != 1 {
		t.Fatalf("retry not recorded: %+v", r.Events())
	}
	if evs := r.Events(); len(evs) != 5 || evs[3].Kind != KindConflict {
		t.Fatalf("unexpected event order: %+v", evs)
	}
}

func TestFaultyRunner(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name          string
		runner        *FaultyRunner
		body          error
		wantErr       error
		wantCalled    bool
		commits, rbks int
	}{
		{name: "commits", runner: &FaultyRunner{}, wantCalled: true, commits: 1},
		{name: "body error rolls back", runner: &FaultyRunner{}, body: boom, wantErr: boom, wantCalled: true, rbks: 1},
		{name: "commit error rolls back", runner: &FaultyRunner{CommitErr: boom}, wantErr: boom, wantCalled: true, rbks: 1},
		{name: "begin error skips body", runner: &FaultyRunner{BeginErr: boom}, wantErr: boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				called = true
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) && !(err == nil && tc.wantErr == nil) {
				t.Fatalf("err: want %v got %v", tc.wantErr, err)
			}
			if called != tc.wantCalled {
				t.Fatalf("body called=%v", called)
			}
			begins, commits, rbks := tc.runner.Counts()
			if begins != 1 || commits != tc.commits || rbks != tc.rbks {
				t.Fatalf("counts begin=%d commit=%d rollback=%d", begins, commits, rbks)
			}
		})
	}
}

func TestFaultyRunnerDelegatesToInner(t *testing.T) {
	inner := &FaultyRunner{}
	outer := &FaultyRunner{Inner: inner}
	if err := outer.InTx(context.Background(), func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, commits, _ := inner.Counts(); commits != 1 {
		t.Fatalf("inner runner not used")
	}
}
