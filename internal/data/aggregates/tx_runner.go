package aggregates

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
)

const (
	defaultTxAttempts = 3
	defaultTxBackoff  = 25 * time.Millisecond
)

// TxRunner is the single transaction boundary for aggregate writes. fn may run more than once, so
// it must not keep state across attempts other than its final outputs.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type TxRunnerOption func(*gormTxRunner)

// WithRetry sets how many times a transaction aborted by a serialization failure, deadlock or busy
// database is attempted in total. Attempt n waits n*backoff first.
func WithRetry(attempts int, backoff time.Duration) TxRunnerOption {
	return func(r *gormTxRunner) {
		if attempts > 0 {
			r.attempts = attempts
		}
		if backoff >= 0 {
			r.backoff = backoff
		}
	}
}

// WithRetryObserver is called before each repeated attempt.
func WithRetryObserver(fn func(attempt int, err error)) TxRunnerOption {
	return func(r *gormTxRunner) { r.onRetry = fn }
}

type gormTxRunner struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
	onRetry  func(attempt int, err error)
}

func NewGormTxRunner(db *gorm.DB, opts ...TxRunnerOption) TxRunner {
	r := &gormTxRunner{db: db, attempts: defaultTxAttempts, backoff: defaultTxBackoff}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	for attempt := 1; ; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || attempt >= r.attempts || !isTransientTxError(err) {
			return err
		}
		if r.onRetry != nil {
			r.onRetry(attempt+1, err)
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}
}

// isTransientTxError reports driver failures worth replaying. Errors the body decided on, and
// cancellation, are final.
func isTransientTxError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrRetryable) {
		return false
	}
	var derr *domainagg.Error
	if errors.As(err, &derr) {
		return false
	}
	return classify(err) == domainagg.CodeRetryable
}
