package aggregates

import (
	"time"

	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// Hooks receives one outcome per aggregate write plus conflict and retry signals.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// NewObservabilityHooks reports writes to Prometheus. Nil metrics yield no-op hooks.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

type metricsHooks struct {
	m *observability.Metrics
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(name, status, dur)
}
func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(name) }
func (h metricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(name) }

// NewSlowWriteHooks warns about writes slower than threshold, e.g. a scoring run blocked on locks.
func NewSlowWriteHooks(log *logger.Logger, threshold time.Duration) Hooks {
	if log == nil || threshold <= 0 {
		return noopHooks{}
	}
	return slowWriteHooks{log: log.With("component", "AggregateHooks"), threshold: threshold}
}

type slowWriteHooks struct {
	noopHooks
	log       *logger.Logger
	threshold time.Duration
}

func (h slowWriteHooks) ObserveOperation(name, status string, dur time.Duration) {
	if dur >= h.threshold {
		h.log.Warn("slow aggregate write", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	}
}

// ChainHooks fans every signal out to each non-nil hook in order.
func ChainHooks(hooks ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

type multiHooks []Hooks

func (m multiHooks) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range m {
		h.ObserveOperation(name, status, dur)
	}
}

func (m multiHooks) IncConflict(name string) {
	for _, h := range m {
		h.IncConflict(name)
	}
}

func (m multiHooks) IncRetry(name string) {
	for _, h := range m {
		h.IncRetry(name)
	}
}
