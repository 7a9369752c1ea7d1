package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
)

type EventKind string

const (
	KindOperation EventKind = "operation"
	KindConflict  EventKind = "conflict"
	KindRetry     EventKind = "retry"
)

// Event is one hook call. Status and Took are only set for KindOperation.
type Event struct {
	Kind   EventKind
	Op     string
	Status string
	Took   time.Duration
}

// Recorder implements aggregates.Hooks and keeps every signal in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ aggregates.Hooks = (*Recorder)(nil)

func (r *Recorder) add(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *Recorder) ObserveOperation(op, status string, took time.Duration) {
	r.add(Event{Kind: KindOperation, Op: op, Status: status, Took: took})
}
func (r *Recorder) IncConflict(op string) { r.add(Event{Kind: KindConflict, Op: op}) }
func (r *Recorder) IncRetry(op string)    { r.add(Event{Kind: KindRetry, Op: op}) }

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Statuses returns the operation statuses recorded for op, oldest first.
func (r *Recorder) Statuses(op string) []string {
	var out []string
	for _, ev := range r.Events() {
		if ev.Kind == KindOperation && ev.Op == op {
			out = append(out, ev.Status)
		}
	}
	return out
}

func (r *Recorder) Count(kind EventKind, op string) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind && ev.Op == op {
			n++
		}
	}
	return n
}

func (r *Recorder) ConflictCount(op string) int { return r.Count(KindConflict, op) }
