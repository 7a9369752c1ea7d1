package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per (rule, key) in process.
// Buckets idle for longer than their window are swept every sweepEvery calls.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	now        func() time.Time
	calls      int
	sweepEvery int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		now:        time.Now,
		sweepEvery: 1024,
	}
}

func (s *MemoryStore) Allow(_ context.Context, rule Rule, key string) (Decision, error) {
	if !rule.valid() {
		return Decision{Allowed: true}, nil
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.sweepEvery > 0 && s.calls%s.sweepEvery == 0 {
		s.sweep(now)
	}

	id := rule.Name + "|" + key
	e, ok := s.entries[id]
	if !ok {
		every := rule.Window / time.Duration(rule.Limit)
		e = &memoryEntry{limiter: rate.NewLimiter(rate.Every(every), rule.Limit)}
		s.entries[id] = e
	}
	e.lastSeen = now

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return Decision{Allowed: false, RetryAfter: rule.Window}, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}
	remaining := int(e.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Remaining: remaining}, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > time.Hour {
			delete(s.entries, id)
		}
	}
}

// Len reports how many buckets are currently tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
