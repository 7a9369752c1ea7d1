package ratelimit

import (
	"context"
	"time"
)

// Rule is a named budget of Limit requests per Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

func PerMinute(name string, n int) Rule { return Rule{Name: name, Limit: n, Window: time.Minute} }
func PerHour(name string, n int) Rule   { return Rule{Name: name, Limit: n, Window: time.Hour} }

func (r Rule) valid() bool { return r.Limit > 0 && r.Window > 0 }

type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Store decides whether one more request under rule is allowed for key.
type Store interface {
	Allow(ctx context.Context, rule Rule, key string) (Decision, error)
}
