package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("lifewheel/aggregates")

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

const statusSuccess = "success"

// executeWrite runs fn in one transaction, maps the failure to an aggregate code and reports the
// outcome to the hooks and the span.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	began := time.Now()
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	raw := deps.Runner.InTx(ctx, fn)
	err := MapError(op, raw)
	status := aggregateErrorStatus(err)

	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
	case domainagg.CodeInternal:
		deps.Log.Error("aggregate write failed", "op", op, "error", raw)
	}

	span.SetAttributes(attribute.String("aggregate.status", status))
	if err != nil {
		span.SetStatus(codes.Error, status)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(began))
	return err
}

// aggregateErrorStatus is the low-cardinality label for an outcome: "success" or an error code.
func aggregateErrorStatus(err error) string {
	if err == nil {
		return statusSuccess
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	return string(classify(err))
}
