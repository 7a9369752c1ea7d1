package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
)

// FaultyRunner wraps a TxRunner and fails at begin or commit on demand. With Inner set the body
// runs in a real transaction, so CommitErr rolls back every write the body made. Without Inner
// the body runs against the caller's context only.
type FaultyRunner struct {
	Inner     aggregates.TxRunner
	BeginErr  error
	CommitErr error

	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

var _ aggregates.TxRunner = (*FaultyRunner)(nil)

func (r *FaultyRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.bump(&r.begins)
	if r.BeginErr != nil {
		return r.BeginErr
	}

	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		// Failing here makes the inner runner roll back.
		return r.CommitErr
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}
	if err != nil {
		r.bump(&r.rollbacks)
		return err
	}
	r.bump(&r.commits)
	return nil
}

func (r *FaultyRunner) bump(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}

// Counts returns the tallies kept by InTx.
func (r *FaultyRunner) Counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}
