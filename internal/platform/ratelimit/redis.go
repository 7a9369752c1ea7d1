package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore is a fixed-window counter shared by every API replica.
type RedisStore struct {
	rdb    goredis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb goredis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, rule Rule, key string) (Decision, error) {
	if !rule.valid() {
		return Decision{Allowed: true}, nil
	}
	now := s.now()
	windowStart := now.Truncate(rule.Window)
	redisKey := fmt.Sprintf("%s:%s:%s:%d", s.prefix, rule.Name, key, windowStart.Unix())

	var incr *goredis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, rule.Window+time.Second)
		return nil
	})
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("ratelimit redis: %w", err)
	}
	count := int(incr.Val())
	if count > rule.Limit {
		return Decision{Allowed: false, RetryAfter: windowStart.Add(rule.Window).Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: rule.Limit - count}, nil
}
